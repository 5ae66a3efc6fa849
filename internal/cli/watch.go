package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/lu-zhengda/macclean/internal/config"
	"github.com/lu-zhengda/macclean/internal/utils"
	"github.com/spf13/cobra"
)

var (
	watchFree     string
	watchInterval time.Duration
)

type watchAlertJSON struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	FreeBytes uint64    `json:"free_bytes"`
	Threshold uint64    `json:"threshold"`
	Alert     bool      `json:"alert"`
	Message   string    `json:"message"`
}

// freeSpaceCheck is one poll of the watched volume.
type freeSpaceCheck struct {
	Disk      utils.DiskUsage
	Threshold uint64
}

func (c freeSpaceCheck) Low() bool { return c.Disk.FreeBytes < c.Threshold }

func (c freeSpaceCheck) Message() string {
	return fmt.Sprintf("free space %s is below threshold %s",
		utils.FormatSize(int64(c.Disk.FreeBytes)), utils.FormatSize(int64(c.Threshold)))
}

func checkFreeSpace(cfg *config.Config, d utils.DiskUsage) (freeSpaceCheck, error) {
	threshold, err := cfg.LowSpaceThreshold(d.TotalBytes)
	if err != nil {
		return freeSpaceCheck{}, fmt.Errorf("invalid threshold %q: %w", cfg.Clean.LowSpaceWarning, err)
	}
	return freeSpaceCheck{Disk: d, Threshold: threshold}, nil
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor disk free space",
	Long:  "Poll free space on the root volume. When it drops below the threshold, print a\nwarning and exit with code 1. The threshold defaults to clean.low_space_warning.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := currentConfig()
		if watchFree != "" {
			cfg = &config.Config{Clean: config.CleanConfig{LowSpaceWarning: watchFree}}
		}
		if watchInterval <= 0 {
			return fmt.Errorf("--interval must be positive, got %s", watchInterval)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if !jsonFlag {
			fmt.Printf("Watching disk free space (threshold: %s, interval: %s)\n",
				cfg.Clean.LowSpaceWarning, watchInterval)
		}

		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()
		for {
			d, err := utils.DiskUsageOf("/")
			if err != nil {
				return fmt.Errorf("failed to check disk space: %w", err)
			}
			check, err := checkFreeSpace(cfg, d)
			if err != nil {
				return err
			}
			logger.Debug("disk poll", "free", d.FreeBytes, "threshold", check.Threshold)

			if check.Low() {
				if jsonFlag {
					if err := printJSON(watchAlertJSON{
						Version:   version,
						Timestamp: time.Now().UTC(),
						FreeBytes: d.FreeBytes,
						Threshold: check.Threshold,
						Alert:     true,
						Message:   check.Message(),
					}); err != nil {
						return err
					}
				} else {
					printWarning("%s. Run 'macclean status' to see what can be cleaned.", check.Message())
				}
				os.Exit(1)
			}
			if !jsonFlag {
				fmt.Printf("  %s  free: %s\n", time.Now().Format("15:04:05"), utils.FormatSize(int64(d.FreeBytes)))
			}

			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchFree, "free", "", "Free space threshold, as a size (20GB) or percentage (10%)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "Poll interval")
}
