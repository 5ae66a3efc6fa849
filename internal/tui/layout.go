package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader draws the title bar, e.g. "macclean > Clean".
func renderHeader(parts ...string) string {
	return headerBarStyle.Render(strings.Join(append([]string{"macclean"}, parts...), " > ")) + "\n"
}

// renderSizeBar draws size relative to largest as a bar of width cells.
// Any non-zero size gets at least one filled cell.
func renderSizeBar(size, largest int64, width int) string {
	if largest <= 0 || size <= 0 {
		return dimStyle.Render(strings.Repeat("░", width))
	}
	filled := int(int64(width) * size / largest)
	filled = max(1, min(filled, width))
	fill := lipgloss.NewStyle().Foreground(sizeColor(size))
	return fill.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return "..."
	}
	return s[:n-3] + "..."
}
