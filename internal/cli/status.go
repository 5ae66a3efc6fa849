package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lu-zhengda/macclean/internal/config"
	"github.com/lu-zhengda/macclean/internal/coordinator"
	"github.com/lu-zhengda/macclean/internal/scancache"
	"github.com/lu-zhengda/macclean/internal/utils"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show disk usage and reclaimable space per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, closeFn, err := buildCoordinator(false)
		if err != nil {
			return err
		}
		defer closeFn()

		c.RefreshAll()
		c.Wait()
		snap := c.Snapshot()
		low := isLowOnSpace(currentConfig(), snap.Disk)
		diff := compareWithLastStatus(scancache.DefaultPath(), snap, time.Now())

		if jsonFlag {
			out := buildStatusJSON(snap, low)
			out.Diff = diff
			return printJSON(out)
		}

		fmt.Println("macclean -- Status")
		fmt.Println()
		printDisk(os.Stdout, snap.Disk)
		if low {
			printWarning("Free space is low (%s left).", utils.FormatSize(int64(snap.Disk.FreeBytes)))
		}
		fmt.Println()
		printCategoryTable(os.Stdout, snap.Categories, diff)
		if diff != nil {
			fmt.Printf("  Since %s: %s\n", humanize.Time(diff.PreviousTimestamp), signedSize(diff.TotalDelta))
		}
		if line := safetySummaryLine(safetySummary(snap.Categories)); line != "" {
			fmt.Println()
			fmt.Println("  " + line)
		}
		return nil
	},
}

// compareWithLastStatus diffs snap against the snapshot stored at path and
// replaces it. It returns nil when there was no earlier snapshot.
func compareWithLastStatus(path string, snap coordinator.Snapshot, now time.Time) *scancache.DiffResult {
	sizes := make(map[string]int64, len(snap.Categories))
	for _, st := range snap.Categories {
		if st.EstimatedBytes != nil {
			sizes[st.Category.ID] = *st.EstimatedBytes
		}
	}
	curr := scancache.NewSnapshot(now, sizes)

	var diff *scancache.DiffResult
	if prev, err := scancache.Load(path); err == nil {
		d := scancache.Diff(prev, curr)
		diff = &d
	}
	if err := scancache.Save(path, curr); err != nil {
		logger.Warn("failed to save status snapshot", "error", err)
	}
	return diff
}

func signedSize(n int64) string {
	if n < 0 {
		return "-" + utils.FormatSize(-n)
	}
	return "+" + utils.FormatSize(n)
}

// isLowOnSpace compares free space to clean.low_space_warning.
func isLowOnSpace(cfg *config.Config, d utils.DiskUsage) bool {
	if d.TotalBytes == 0 {
		return false
	}
	threshold, err := cfg.LowSpaceThreshold(d.TotalBytes)
	if err != nil || threshold == 0 {
		return false
	}
	return d.FreeBytes < threshold
}
