package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lu-zhengda/macclean/internal/catalog"
	"github.com/lu-zhengda/macclean/internal/coordinator"
	"github.com/lu-zhengda/macclean/internal/utils"
)

// SafetyBreakdown holds reclaimable bytes grouped by safety level.
// Categories that require elevated access are not counted.
type SafetyBreakdown struct {
	Safe     int64 `json:"safe"`
	Caution  int64 `json:"caution"`
	Advanced int64 `json:"advanced"`
	Total    int64 `json:"total"`
}

func safetySummary(states []coordinator.CategoryState) SafetyBreakdown {
	var sb SafetyBreakdown
	for _, s := range states {
		if s.EstimatedBytes == nil || s.Category.RequiresElevatedAccess {
			continue
		}
		n := *s.EstimatedBytes
		switch s.Category.Safety {
		case catalog.Safe:
			sb.Safe += n
		case catalog.Caution:
			sb.Caution += n
		case catalog.Advanced:
			sb.Advanced += n
		}
		sb.Total += n
	}
	return sb
}

// safetySummaryLine renders a colored summary. Returns "" if Total == 0.
func safetySummaryLine(sb SafetyBreakdown) string {
	if sb.Total == 0 {
		return ""
	}

	safeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	cautionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	advancedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	pct := func(n int64) int {
		return int(float64(n) / float64(sb.Total) * 100)
	}

	parts := []string{safeStyle.Render(
		fmt.Sprintf("Safe: %s (%d%%)", utils.FormatSize(sb.Safe), pct(sb.Safe)),
	)}
	if sb.Caution > 0 {
		parts = append(parts, cautionStyle.Render(
			fmt.Sprintf("Caution: %s (%d%%)", utils.FormatSize(sb.Caution), pct(sb.Caution)),
		))
	}
	if sb.Advanced > 0 {
		parts = append(parts, advancedStyle.Render(
			fmt.Sprintf("Advanced: %s (%d%%)", utils.FormatSize(sb.Advanced), pct(sb.Advanced)),
		))
	}
	return strings.Join(parts, "  ")
}
