// Package coordinator owns the per-category state shown by the front ends
// and drives size refresh and cleanup in the background.
//
// All state lives behind one mutex. Background work never touches it
// directly: workers compute plain results and hand them to a single locked
// update, so readers always see a consistent Snapshot.
package coordinator

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lu-zhengda/macclean/internal/catalog"
	"github.com/lu-zhengda/macclean/internal/engine"
	"github.com/lu-zhengda/macclean/internal/history"
	"github.com/lu-zhengda/macclean/internal/utils"
	"golang.org/x/sync/errgroup"
)

// Cleaner measures and cleans categories. *engine.Engine satisfies it.
type Cleaner interface {
	EstimateSize(cat catalog.Category) int64
	Clean(cat catalog.Category) engine.CleanupResult
}

// Launcher opens a location in an external application.
type Launcher interface {
	Name() string
	Open(path string) error
}

// Recorder persists a summary of each category cleaned.
type Recorder interface {
	Record(e history.Entry) error
}

// CategoryState is the mutable view of one category.
type CategoryState struct {
	Category catalog.Category
	// EstimatedBytes is nil until the first measurement completes.
	EstimatedBytes *int64
	IsCleaning     bool
}

// StatusText is the short size label shown next to a category.
func (s CategoryState) StatusText() string {
	if s.EstimatedBytes == nil {
		return "Scanning..."
	}
	if *s.EstimatedBytes == 0 {
		return "Clean"
	}
	return utils.FormatSize(*s.EstimatedBytes)
}

// CanClean reports whether the clean action should be offered.
func (s CategoryState) CanClean() bool {
	if s.EstimatedBytes == nil || s.Category.RequiresElevatedAccess {
		return false
	}
	return *s.EstimatedBytes > 0 && !s.IsCleaning
}

// Snapshot is a consistent copy of the coordinator state.
type Snapshot struct {
	Disk         utils.DiskUsage
	Categories   []CategoryState
	Refreshing   bool
	BulkCleaning bool
	Message      string
}

func (s Snapshot) AnyCleaning() bool {
	for _, c := range s.Categories {
		if c.IsCleaning {
			return true
		}
	}
	return false
}

// Find returns the state for a category ID.
func (s Snapshot) Find(id string) (CategoryState, bool) {
	for _, c := range s.Categories {
		if c.Category.ID == id {
			return c, true
		}
	}
	return CategoryState{}, false
}

type Coordinator struct {
	cleaner     Cleaner
	launcher    Launcher
	recorder    Recorder
	diskFunc    func() utils.DiskUsage
	home        string
	method      string
	concurrency int
	logger      *slog.Logger

	mu           sync.Mutex
	states       []CategoryState
	disk         utils.DiskUsage
	refreshing   bool
	refreshAgain bool
	bulkCleaning bool
	message      string
	// generations counts clean starts and finishes per category ID so a
	// refresh can tell its measurements are out of date.
	generations  map[string]uint64

	updates chan struct{}
	wg      sync.WaitGroup
}

type Option func(*Coordinator)

func WithLauncher(l Launcher) Option {
	return func(c *Coordinator) { c.launcher = l }
}

// WithRecorder enables cleanup history. method is stored with each entry.
func WithRecorder(r Recorder, method string) Option {
	return func(c *Coordinator) {
		c.recorder = r
		c.method = method
	}
}

func WithDiskFunc(fn func() utils.DiskUsage) Option {
	return func(c *Coordinator) { c.diskFunc = fn }
}

// WithHome sets the directory "~" expands to when opening locations.
func WithHome(home string) Option {
	return func(c *Coordinator) { c.home = home }
}

// WithConcurrency bounds the number of parallel size estimates.
func WithConcurrency(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// New creates a coordinator for cats. No measurement starts until
// RefreshAll or RefreshCategorySizes is called.
func New(cats []catalog.Category, cleaner Cleaner, opts ...Option) *Coordinator {
	c := &Coordinator{
		cleaner:     cleaner,
		diskFunc:    utils.RootDiskUsage,
		home:        utils.HomeDir(),
		concurrency: 4,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		updates:     make(chan struct{}, 1),
		generations: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.states = make([]CategoryState, len(cats))
	for i, cat := range cats {
		c.states[i] = CategoryState{Category: cat}
	}
	return c
}

// Updates delivers a signal after every state change. Signals coalesce;
// receivers should take a fresh Snapshot.
func (c *Coordinator) Updates() <-chan struct{} {
	return c.updates
}

// Wait blocks until all background work started so far has finished.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	states := make([]CategoryState, len(c.states))
	for i, s := range c.states {
		if s.EstimatedBytes != nil {
			v := *s.EstimatedBytes
			s.EstimatedBytes = &v
		}
		states[i] = s
	}
	return Snapshot{
		Disk:         c.disk,
		Categories:   states,
		Refreshing:   c.refreshing,
		BulkCleaning: c.bulkCleaning,
		Message:      c.message,
	}
}

// RefreshAll clears the message, re-reads disk usage and re-measures every
// category.
func (c *Coordinator) RefreshAll() {
	disk := c.diskFunc()

	c.mu.Lock()
	c.message = ""
	c.disk = disk
	c.mu.Unlock()
	c.notify()

	c.RefreshCategorySizes()
}

// RefreshCategorySizes re-measures every category in the background. It
// returns false without doing anything when a refresh is already running.
func (c *Coordinator) RefreshCategorySizes() bool {
	c.mu.Lock()
	if c.refreshing {
		c.mu.Unlock()
		return false
	}
	c.startRefreshLocked()
	c.mu.Unlock()
	c.notify()
	return true
}

// refreshAfterClean starts a refresh, or queues one to run as soon as the
// current refresh finishes.
func (c *Coordinator) refreshAfterClean() {
	c.mu.Lock()
	if c.refreshing {
		c.refreshAgain = true
		c.mu.Unlock()
		return
	}
	c.startRefreshLocked()
	c.mu.Unlock()
	c.notify()
}

func (c *Coordinator) startRefreshLocked() {
	c.refreshing = true
	cats := c.categoriesLocked()
	gens := make([]uint64, len(cats))
	for i, cat := range cats {
		gens[i] = c.generations[cat.ID]
	}
	c.wg.Add(1)
	go c.runRefresh(cats, gens)
}

func (c *Coordinator) runRefresh(cats []catalog.Category, gens []uint64) {
	defer c.wg.Done()
	start := time.Now()

	sizes := make([]int64, len(cats))
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, cat := range cats {
		g.Go(func() error {
			sizes[i] = c.cleaner.EstimateSize(cat)
			return nil
		})
	}
	_ = g.Wait()

	c.mu.Lock()
	skipped := 0
	for i, cat := range cats {
		idx := c.indexLocked(cat.ID)
		// A clean that started or finished since this refresh began owns a
		// newer figure.
		if idx < 0 || c.states[idx].IsCleaning || c.generations[cat.ID] != gens[i] {
			skipped++
			continue
		}
		size := sizes[i]
		c.states[idx].EstimatedBytes = &size
	}
	if c.refreshAgain {
		c.refreshAgain = false
		c.startRefreshLocked()
	} else {
		c.refreshing = false
	}
	c.mu.Unlock()

	c.logger.Debug("refreshed category sizes", "categories", len(cats), "skipped", skipped, "elapsed", time.Since(start))
	c.notify()
}

// CleanCategory cleans one category in the background. It returns false
// when the request is rejected: a bulk clean is running, the ID is unknown,
// the category is already being cleaned, or it requires elevated access.
func (c *Coordinator) CleanCategory(id string) bool {
	c.mu.Lock()
	idx := c.indexLocked(id)
	if c.bulkCleaning || idx < 0 || c.states[idx].IsCleaning {
		c.mu.Unlock()
		return false
	}
	cat := c.states[idx].Category
	if cat.RequiresElevatedAccess {
		c.message = fmt.Sprintf("%s requires elevated access. Open it to clean manually.", cat.Title)
		c.mu.Unlock()
		c.notify()
		return false
	}
	c.states[idx].IsCleaning = true
	c.generations[id]++
	c.message = ""
	c.wg.Add(1)
	c.mu.Unlock()
	c.notify()

	go func() {
		defer c.wg.Done()

		res := c.cleaner.Clean(cat)
		remaining := c.cleaner.EstimateSize(cat)
		disk := c.diskFunc()

		c.mu.Lock()
		if i := c.indexLocked(cat.ID); i >= 0 {
			c.states[i].IsCleaning = false
			c.states[i].EstimatedBytes = &remaining
		}
		c.generations[cat.ID]++
		c.disk = disk
		c.message = cleanMessage(cat, res)
		c.mu.Unlock()

		c.logger.Info("cleaned category", "category", cat.ID, "bytes", res.RemovedBytes,
			"items", res.RemovedItems, "failures", len(res.Failures))
		c.record(uuid.NewString(), time.Now(), cat, res)
		c.notify()
	}()
	return true
}

// CleanAllCategories cleans every category that does not require elevated
// access, one after another, then re-measures everything. It returns false
// when a bulk clean is already running or a single category is being
// cleaned.
func (c *Coordinator) CleanAllCategories() bool {
	c.mu.Lock()
	if c.bulkCleaning || c.anyCleaningLocked() {
		c.mu.Unlock()
		return false
	}
	c.bulkCleaning = true
	c.message = ""
	var cats []catalog.Category
	for _, s := range c.states {
		if !s.Category.RequiresElevatedAccess {
			cats = append(cats, s.Category)
			c.generations[s.Category.ID]++
		}
	}
	c.wg.Add(1)
	c.mu.Unlock()
	c.notify()

	go func() {
		defer c.wg.Done()

		runID := uuid.NewString()
		now := time.Now()
		var total engine.CleanupResult
		for _, cat := range cats {
			res := c.cleaner.Clean(cat)
			total.Add(res)
			c.record(runID, now, cat, res)
		}
		disk := c.diskFunc()

		c.mu.Lock()
		c.disk = disk
		c.bulkCleaning = false
		c.message = bulkMessage(total)
		for _, cat := range cats {
			c.generations[cat.ID]++
		}
		c.mu.Unlock()

		c.logger.Info("cleaned all categories", "run", runID, "bytes", total.RemovedBytes,
			"items", total.RemovedItems, "failures", len(total.Failures))
		c.notify()
		c.refreshAfterClean()
	}()
	return true
}

// OpenCategory hands the first existing location of a category to the
// launcher so it can be inspected or cleaned by hand.
func (c *Coordinator) OpenCategory(id string) bool {
	c.mu.Lock()
	idx := c.indexLocked(id)
	var cat catalog.Category
	if idx >= 0 {
		cat = c.states[idx].Category
	}
	c.mu.Unlock()

	ok := false
	var msg string
	switch {
	case idx < 0:
		msg = fmt.Sprintf("Unable to determine path for %s.", id)
	case c.launcher == nil:
		msg = "No launcher configured."
	default:
		target := ""
		for _, p := range cat.Paths {
			if candidate := utils.OpenablePath(p, c.home); utils.PathExists(candidate) {
				target = candidate
				break
			}
		}
		if target == "" {
			msg = "Nothing to open for this category."
		} else if err := c.launcher.Open(target); err != nil {
			c.logger.Warn("failed to open location", "category", id, "path", target, "error", err)
			msg = fmt.Sprintf("Failed to open %s: %v", c.launcher.Name(), err)
		} else {
			msg = fmt.Sprintf("Opened %s in %s.", cat.Title, c.launcher.Name())
			ok = true
		}
	}

	c.mu.Lock()
	c.message = msg
	c.mu.Unlock()
	c.notify()
	return ok
}

func (c *Coordinator) categoriesLocked() []catalog.Category {
	cats := make([]catalog.Category, len(c.states))
	for i, s := range c.states {
		cats[i] = s.Category
	}
	return cats
}

func (c *Coordinator) indexLocked(id string) int {
	for i, s := range c.states {
		if s.Category.ID == id {
			return i
		}
	}
	return -1
}

func (c *Coordinator) anyCleaningLocked() bool {
	for _, s := range c.states {
		if s.IsCleaning {
			return true
		}
	}
	return false
}

func (c *Coordinator) notify() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

func (c *Coordinator) record(runID string, ts time.Time, cat catalog.Category, res engine.CleanupResult) {
	if c.recorder == nil || (res.RemovedItems == 0 && len(res.Failures) == 0) {
		return
	}
	err := c.recorder.Record(history.Entry{
		RunID:      runID,
		Timestamp:  ts,
		Category:   cat.ID,
		Items:      res.RemovedItems,
		BytesFreed: res.RemovedBytes,
		Failures:   len(res.Failures),
		Method:     c.method,
	})
	if err != nil {
		c.logger.Warn("failed to record cleanup history", "category", cat.ID, "error", err)
	}
}

func cleanMessage(cat catalog.Category, res engine.CleanupResult) string {
	if res.RemovedBytes == 0 && len(res.Failures) == 0 {
		return fmt.Sprintf("%s: nothing to remove.", cat.Title)
	}
	msg := fmt.Sprintf("%s: removed %s.", cat.Title, utils.FormatSize(res.RemovedBytes))
	if n := len(res.Failures); n > 0 {
		msg += fmt.Sprintf(" %d item(s) skipped.", n)
	}
	return msg
}

func bulkMessage(total engine.CleanupResult) string {
	if total.RemovedBytes == 0 {
		return "No additional files could be cleaned."
	}
	msg := fmt.Sprintf("Cleared %s from %d item(s).", utils.FormatSize(total.RemovedBytes), total.RemovedItems)
	if n := len(total.Failures); n > 0 {
		msg += fmt.Sprintf(" %d path(s) skipped.", n)
	}
	return msg
}
