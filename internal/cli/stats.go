package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/lu-zhengda/macclean/internal/history"
	"github.com/lu-zhengda/macclean/internal/utils"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cleanup history and statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := history.Open(historyPath(currentConfig()))
		if err != nil {
			return err
		}
		defer h.Close()

		stats, err := h.Stats()
		if err != nil {
			return err
		}
		if jsonFlag {
			return printJSON(buildStatsJSON(stats))
		}

		fmt.Println("macclean -- Cleanup Stats")
		fmt.Println()
		if stats.TotalCleanups == 0 {
			fmt.Println("  No cleanup history yet. Run 'macclean clean' to get started.")
			return nil
		}
		fmt.Printf("  Freed %s over %s.\n", utils.FormatSize(stats.TotalFreed), plural(stats.TotalCleanups, "cleanup"))

		fmt.Println()
		fmt.Println("  By category:")
		for _, row := range rankCategories(stats.ByCategory) {
			fmt.Printf("    %-22s %10s  %s\n",
				row.id, utils.FormatSize(row.BytesFreed), colorDim.Sprint(plural(row.Cleanups, "cleanup")))
		}

		fmt.Println()
		fmt.Println("  Recent:")
		for _, e := range stats.Recent {
			fmt.Println("    " + recentLine(e))
		}
		return nil
	},
}

type categoryRow struct {
	id string
	history.CategoryStats
}

// rankCategories orders categories by bytes freed, largest first, with ties
// broken by ID.
func rankCategories(by map[string]history.CategoryStats) []categoryRow {
	rows := make([]categoryRow, 0, len(by))
	for id, cs := range by {
		rows = append(rows, categoryRow{id: id, CategoryStats: cs})
	}
	slices.SortFunc(rows, func(a, b categoryRow) int {
		if c := cmp.Compare(b.BytesFreed, a.BytesFreed); c != 0 {
			return c
		}
		return strings.Compare(a.id, b.id)
	})
	return rows
}

func recentLine(e history.Entry) string {
	line := fmt.Sprintf("%-14s %-22s %-9s %10s  (%s)",
		humanize.Time(e.Timestamp), e.Category, plural(e.Items, "item"), utils.FormatSize(e.BytesFreed), e.Method)
	if e.Failures > 0 {
		line += colorWarning.Sprintf("  %d skipped", e.Failures)
	}
	return line
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
