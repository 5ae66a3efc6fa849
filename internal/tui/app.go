package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lu-zhengda/macclean/internal/catalog"
	"github.com/lu-zhengda/macclean/internal/coordinator"
	"github.com/lu-zhengda/macclean/internal/utils"
)

type viewState int

const (
	viewList viewState = iota
	viewConfirmClean
	viewConfirmAll
)

// updateMsg is delivered when the coordinator signals a change.
type updateMsg struct {
	snap coordinator.Snapshot
}

// snapshotMsg carries the state after a synchronous coordinator call.
type snapshotMsg struct {
	snap coordinator.Snapshot
}

type Model struct {
	coord *coordinator.Coordinator
	snap  coordinator.Snapshot

	currentView viewState
	cursor      int
	// pendingID is the category awaiting clean confirmation.
	pendingID string

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	disk    progress.Model

	width  int
	height int
}

func New(c *coordinator.Coordinator) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
	)

	return Model{
		coord:   c,
		snap:    c.Snapshot(),
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		disk:    bar,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), waitForUpdate(m.coord), m.spinner.Tick)
}

// waitForUpdate blocks until the coordinator signals a change.
func waitForUpdate(c *coordinator.Coordinator) tea.Cmd {
	return func() tea.Msg {
		<-c.Updates()
		return updateMsg{snap: c.Snapshot()}
	}
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		m.coord.RefreshAll()
		return snapshotMsg{snap: m.coord.Snapshot()}
	}
}

func (m Model) open(id string) tea.Cmd {
	return func() tea.Msg {
		m.coord.OpenCategory(id)
		return snapshotMsg{snap: m.coord.Snapshot()}
	}
}

// busy reports whether anything is still being measured or cleaned.
func (m Model) busy() bool {
	if m.snap.Refreshing || m.snap.BulkCleaning || m.snap.AnyCleaning() {
		return true
	}
	for _, c := range m.snap.Categories {
		if c.EstimatedBytes == nil {
			return true
		}
	}
	return false
}

func (m Model) selected() (coordinator.CategoryState, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Categories) {
		return coordinator.CategoryState{}, false
	}
	return m.snap.Categories[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.snap.Categories) {
		m.cursor = len(m.snap.Categories) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case updateMsg:
		m.snap = msg.snap
		m.clampCursor()
		cmds := []tea.Cmd{waitForUpdate(m.coord)}
		if m.busy() {
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snap = msg.snap
		m.clampCursor()
		if m.busy() {
			return m, m.spinner.Tick
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		switch m.currentView {
		case viewConfirmClean, viewConfirmAll:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snap.Categories)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Clean):
		st, ok := m.selected()
		if ok && st.CanClean() && !m.snap.BulkCleaning {
			m.pendingID = st.Category.ID
			m.currentView = viewConfirmClean
		}
	case key.Matches(msg, m.keys.Open):
		if st, ok := m.selected(); ok {
			return m, m.open(st.Category.ID)
		}
	case key.Matches(msg, m.keys.CleanAll):
		if !m.snap.BulkCleaning && !m.snap.AnyCleaning() {
			m.currentView = viewConfirmAll
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if m.currentView == viewConfirmAll {
			m.coord.CleanAllCategories()
		} else {
			m.coord.CleanCategory(m.pendingID)
		}
		m.currentView = viewList
		m.pendingID = ""
		m.snap = m.coord.Snapshot()
		return m, m.spinner.Tick
	case key.Matches(msg, m.keys.Cancel):
		m.currentView = viewList
		m.pendingID = ""
	}
	return m, nil
}

// --- Views ---

func (m Model) View() string {
	switch m.currentView {
	case viewConfirmClean, viewConfirmAll:
		return m.viewConfirm()
	default:
		return m.viewList()
	}
}

func (m Model) viewDisk() string {
	d := m.snap.Disk
	if d.TotalBytes == 0 {
		return dimStyle.Render("Disk usage unavailable") + "\n"
	}
	line := fmt.Sprintf("%s used of %s  (%s free)",
		utils.FormatSize(int64(d.UsedBytes())),
		utils.FormatSize(int64(d.TotalBytes)),
		utils.FormatSize(int64(d.FreeBytes)))
	return m.disk.ViewAs(d.UsedFraction()) + "\n" + dimStyle.Render(line) + "\n"
}

func (m Model) viewList() string {
	s := renderHeader("Clean") + "\n"
	s += m.viewDisk() + "\n"

	var largest, total int64
	for _, c := range m.snap.Categories {
		if c.EstimatedBytes == nil {
			continue
		}
		if *c.EstimatedBytes > largest {
			largest = *c.EstimatedBytes
		}
		if !c.Category.RequiresElevatedAccess {
			total += *c.EstimatedBytes
		}
	}

	for i, c := range m.snap.Categories {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = selectedStyle
		}

		status := c.StatusText()
		switch {
		case c.IsCleaning:
			status = m.spinner.View() + " Cleaning..."
		case c.EstimatedBytes == nil:
			status = m.spinner.View() + " " + status
		}

		badge := lipgloss.NewStyle().Foreground(safetyColor(c.Category.Safety)).Render(fmt.Sprintf("%-8s", c.Category.Safety))
		bar := strings.Repeat(" ", 12)
		if c.EstimatedBytes != nil {
			bar = renderSizeBar(*c.EstimatedBytes, largest, 12)
		}

		line := style.Render(fmt.Sprintf("%s%-26s", cursor, truncate(c.Category.Title, 26))) +
			" " + badge + " " + bar + " " + status
		if c.Category.RequiresElevatedAccess {
			line += dimStyle.Render("  (open to clean)")
		}
		s += line + "\n"
	}

	if st, ok := m.selected(); ok && st.Category.Detail != "" {
		s += "\n" + dimStyle.Render(st.Category.Detail) + "\n"
	}

	bar := fmt.Sprintf(" Total reclaimable: %s ", utils.FormatSize(total))
	if m.snap.BulkCleaning {
		bar = fmt.Sprintf(" %s Cleaning all categories... ", m.spinner.View())
	}
	s += "\n" + statusBarStyle.Render(bar) + "\n"

	if m.snap.Message != "" {
		s += "\n" + m.snap.Message + "\n"
	}

	s += helpStyle.Render(m.help.View(m.keys))
	return s
}

func (m Model) viewConfirm() string {
	s := dangerStyle.Render(" CONFIRM CLEANUP ") + "\n\n"

	if m.currentView == viewConfirmAll {
		var total int64
		var skipped []string
		for _, c := range m.snap.Categories {
			if c.Category.RequiresElevatedAccess {
				skipped = append(skipped, c.Category.Title)
				continue
			}
			if c.EstimatedBytes != nil && *c.EstimatedBytes > 0 {
				total += *c.EstimatedBytes
				s += fmt.Sprintf("  %-26s %10s\n", c.Category.Title, utils.FormatSize(*c.EstimatedBytes))
			}
		}
		s += fmt.Sprintf("\n  About %s will be removed.\n", utils.FormatSize(total))
		if len(skipped) > 0 {
			s += dimStyle.Render(fmt.Sprintf("  Skipped (elevated access): %s", strings.Join(skipped, ", "))) + "\n"
		}
	} else if st, ok := m.snap.Find(m.pendingID); ok {
		s += fmt.Sprintf("  %s\n  %s\n\n", st.Category.Title, dimStyle.Render(st.Category.Detail))
		for _, p := range st.Category.Paths {
			s += "  " + p + "\n"
		}
		s += fmt.Sprintf("\n  About %s will be removed.\n", st.StatusText())
		if st.Category.Safety != catalog.Safe {
			s += "\n" + warnStyle.Render(fmt.Sprintf("  %s: review before confirming.", st.Category.Safety)) + "\n"
		}
	}

	s += helpStyle.Render("  y confirm | n cancel | q quit")
	return s
}
