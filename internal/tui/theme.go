package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lu-zhengda/macclean/internal/catalog"
)

// ANSI-256 palette shared by every style in the package.
var (
	colorPrimary   = lipgloss.Color("170")
	colorSecondary = lipgloss.Color("212")
	colorSuccess   = lipgloss.Color("82")
	colorWarning   = lipgloss.Color("214")
	colorDanger    = lipgloss.Color("196")
	colorDim       = lipgloss.Color("241")
	colorSubtle    = lipgloss.Color("236")
	colorText      = lipgloss.Color("252")
	colorWhite     = lipgloss.Color("255")
	colorDangerBg  = lipgloss.Color("52")
)

// safetyColor colors the badge beside a category. Levels outside the
// catalog fall back to the primary color.
func safetyColor(level catalog.SafetyLevel) lipgloss.Color {
	switch level {
	case catalog.Safe:
		return colorSuccess
	case catalog.Caution:
		return colorWarning
	case catalog.Advanced:
		return colorDanger
	default:
		return colorPrimary
	}
}

// Reclaimable sizes at or above these get the warning and danger colors.
const (
	largeCategory  = 1_000_000_000
	mediumCategory = 100_000_000
)

// sizeColor colors a category's bar by how much it would free.
func sizeColor(bytes int64) lipgloss.Color {
	switch {
	case bytes >= largeCategory:
		return colorDanger
	case bytes >= mediumCategory:
		return colorWarning
	default:
		return colorSuccess
	}
}
