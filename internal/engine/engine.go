package engine

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lu-zhengda/macclean/internal/catalog"
	"github.com/lu-zhengda/macclean/internal/trash"
	"github.com/lu-zhengda/macclean/internal/utils"
)

// systemPaths may never be deleted, no matter what a pattern resolves to.
var systemPaths = []string{
	"/",
	"/System",
	"/Library",
	"/Applications",
	"/Users",
	"/private",
	"/usr",
	"/bin",
	"/sbin",
	"/etc",
	"/var",
}

type FailureKind int

const (
	FailProtected FailureKind = iota
	FailDelete
)

func (k FailureKind) String() string {
	switch k {
	case FailProtected:
		return "protected"
	case FailDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Failure describes one target that was left in place.
type Failure struct {
	Path string
	Kind FailureKind
	Err  error
}

func (f Failure) Message() string {
	if f.Kind == FailProtected {
		return "Skipping protected path: " + f.Path
	}
	return fmt.Sprintf("%s: %v", filepath.Base(f.Path), f.Err)
}

// CleanupResult is the outcome of cleaning one or more categories.
type CleanupResult struct {
	RemovedBytes int64
	RemovedItems int
	Failures     []Failure
}

// Messages returns the human-readable failure descriptions in order.
func (r CleanupResult) Messages() []string {
	msgs := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		msgs[i] = f.Message()
	}
	return msgs
}

// Add folds other into r.
func (r *CleanupResult) Add(other CleanupResult) {
	r.RemovedBytes += other.RemovedBytes
	r.RemovedItems += other.RemovedItems
	r.Failures = append(r.Failures, other.Failures...)
}

type Engine struct {
	home        string
	sizeFunc    utils.SizeFunc
	deleter     trash.Deleter
	protected   map[string]bool
	extra       []string
	excludeFunc func(string) bool
	logger      *slog.Logger
}

type Option func(*Engine)

// WithHome overrides the home directory used for "~" expansion and
// protection.
func WithHome(home string) Option {
	return func(e *Engine) { e.home = home }
}

func WithSizeFunc(fn utils.SizeFunc) Option {
	return func(e *Engine) { e.sizeFunc = fn }
}

func WithDeleter(d trash.Deleter) Option {
	return func(e *Engine) { e.deleter = d }
}

// WithProtectedPaths adds paths to the built-in deny-list. A leading "~"
// is expanded against the engine's home directory.
func WithProtectedPaths(paths ...string) Option {
	return func(e *Engine) { e.extra = append(e.extra, paths...) }
}

func WithExcludeFunc(fn func(string) bool) Option {
	return func(e *Engine) { e.excludeFunc = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		home:      utils.HomeDir(),
		sizeFunc:  utils.AllocatedSize,
		deleter:   trash.Permanent{},
		protected: make(map[string]bool),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, p := range systemPaths {
		e.protected[p] = true
	}
	for _, p := range e.extra {
		if p == "" {
			continue
		}
		e.protected[filepath.Clean(utils.ExpandHome(p, e.home))] = true
	}
	if e.home != "" {
		e.protected[filepath.Clean(e.home)] = true
	}
	return e
}

// Home returns the home directory the engine resolves "~" against.
func (e *Engine) Home() string {
	return e.home
}

// IsProtected reports whether path is on the deny-list. Matching is exact:
// the contents of a protected directory are not protected.
func (e *Engine) IsProtected(path string) bool {
	return e.protected[filepath.Clean(path)]
}

// Targets resolves every pattern of cat against the current filesystem.
func (e *Engine) Targets(cat catalog.Category) []string {
	var targets []string
	for _, pattern := range cat.Paths {
		for _, p := range utils.ResolvePattern(pattern, e.home) {
			if !utils.PathExists(p) {
				continue
			}
			if e.excludeFunc != nil && e.excludeFunc(p) {
				e.logger.Debug("excluded target", "category", cat.ID, "path", p)
				continue
			}
			targets = append(targets, p)
		}
	}
	return targets
}

// EstimateSize sums the footprint of every current target of cat.
func (e *Engine) EstimateSize(cat catalog.Category) int64 {
	var total int64
	for _, t := range e.Targets(cat) {
		total += utils.SizeOf(t, e.sizeFunc)
	}
	return total
}

// Clean deletes every current target of cat in resolution order. A target
// that cannot be removed is reported in the result and the batch continues.
func (e *Engine) Clean(cat catalog.Category) CleanupResult {
	var res CleanupResult

	for _, t := range e.Targets(cat) {
		if e.IsProtected(t) {
			e.logger.Warn("skipping protected path", "category", cat.ID, "path", t)
			res.Failures = append(res.Failures, Failure{Path: t, Kind: FailProtected})
			continue
		}

		size := utils.SizeOf(t, e.sizeFunc)

		if _, err := os.Lstat(t); err != nil {
			e.logger.Warn("target vanished before removal", "category", cat.ID, "path", t, "error", err)
			res.Failures = append(res.Failures, Failure{Path: t, Kind: FailDelete, Err: err})
			continue
		}

		if err := e.deleter.RemoveAll(t); err != nil {
			e.logger.Warn("failed to remove target", "category", cat.ID, "path", t, "error", err)
			res.Failures = append(res.Failures, Failure{Path: t, Kind: FailDelete, Err: err})
			continue
		}

		e.logger.Debug("removed target", "category", cat.ID, "path", t, "bytes", size)
		res.RemovedBytes += size
		res.RemovedItems++
	}

	return res
}
