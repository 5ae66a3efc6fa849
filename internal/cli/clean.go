package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/lu-zhengda/macclean/internal/catalog"
	"github.com/lu-zhengda/macclean/internal/config"
	"github.com/lu-zhengda/macclean/internal/coordinator"
	"github.com/lu-zhengda/macclean/internal/schedule"
	"github.com/lu-zhengda/macclean/internal/utils"
	"github.com/spf13/cobra"
)

var (
	cleanAll     bool
	cleanYes     bool
	cleanDryRun  bool
	cleanToTrash bool
	cleanQuiet   bool
)

// cleanPrint prints to stdout only when --quiet is not set.
func cleanPrint(format string, a ...any) {
	if !cleanQuiet {
		fmt.Printf(format, a...)
	}
}

// cleanPrintln prints a line to stdout only when --quiet is not set.
func cleanPrintln(a ...any) {
	if !cleanQuiet {
		fmt.Println(a...)
	}
}

var cleanCmd = &cobra.Command{
	Use:   "clean [category-id...]",
	Short: "Clean one or more categories",
	Long:  "Clean the named categories, or every category with --all.\nCategories that require elevated access are skipped; use 'macclean open' for those.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := currentConfig()
		if err := rejectDisabled(cfg, args); err != nil {
			return err
		}
		cats, err := selectCategories(enabledCategories(cfg), args, cleanAll)
		if err != nil {
			return err
		}
		method := cleanMethod(cfg, cleanToTrash)

		if cleanDryRun {
			eng, err := buildEngine(cfg, method)
			if err != nil {
				return err
			}
			if jsonFlag {
				return printJSON(buildDryRunJSON(eng, cats, method))
			}
			var total int64
			var items int
			for _, c := range cats {
				size := eng.EstimateSize(c)
				targets := eng.Targets(c)
				total += size
				items += len(targets)
				cleanPrint("\n%s (%s, %d items)\n", c.Title, utils.FormatSize(size), len(targets))
				cleanPrintln(strings.Repeat("-", 60))
				for _, t := range targets {
					cleanPrint("  %s\n", truncatePath(t, 58))
				}
			}
			cleanPrint("\n[DRY RUN] Would remove %d items (%s) using %s.\n", items, utils.FormatSize(total), method)
			cleanPrintln("[DRY RUN] No files were deleted.")
			return nil
		}

		c, closeFn, err := buildCoordinator(cleanToTrash)
		if err != nil {
			return err
		}
		defer closeFn()

		if !cleanQuiet && !jsonFlag {
			fmt.Println("Scanning...")
		}
		c.RefreshAll()
		c.Wait()
		before := totalOf(c.Snapshot(), cats)

		if before == 0 {
			cleanPrintln("Nothing to clean!")
			return nil
		}

		if !cleanYes && !jsonFlag {
			verb := "Permanently delete"
			if method == "trash" {
				verb = "Move to Trash"
			}
			if !confirmAction(fmt.Sprintf("%s %s from %d categories?", verb, utils.FormatSize(before), len(cats))) {
				cleanPrintln("Cancelled.")
				return nil
			}
		}

		var messages, rejected []string
		if cleanAll {
			if !c.CleanAllCategories() {
				return fmt.Errorf("a clean is already in progress")
			}
			c.Wait()
			messages = append(messages, c.Snapshot().Message)
		} else {
			for _, cat := range cats {
				if !c.CleanCategory(cat.ID) {
					rejected = append(rejected, cat.ID)
					continue
				}
				c.Wait()
				messages = append(messages, c.Snapshot().Message)
			}
		}
		after := totalOf(c.Snapshot(), cats)

		if jsonFlag {
			return printJSON(cleanJSON{
				Version:   version,
				Timestamp: time.Now().UTC(),
				Method:    method,
				Message:   strings.Join(messages, " "),
				Before:    before,
				After:     after,
				Rejected:  rejected,
			})
		}

		if cleanQuiet {
			if cfg.Schedule.Notify {
				notifyCleaned(messages)
			}
			return nil
		}
		for _, m := range messages {
			printSuccess("%s", m)
		}
		for _, id := range rejected {
			printWarning("Skipped %s: it requires elevated access. Run 'macclean open %s' to clean it manually.", id, id)
		}
		return nil
	},
}

// notifyCleaned posts the outcome of an unattended run as a macOS
// notification. Failures are only logged.
func notifyCleaned(messages []string) {
	if len(messages) == 0 {
		return
	}
	if err := schedule.Notify(nil, "macclean", strings.Join(messages, " ")); err != nil {
		logger.Warn("failed to send notification", "error", err)
	}
}

// selectCategories resolves the requested IDs against cats. With all set,
// every category that can be cleaned directly is returned.
func selectCategories(cats []catalog.Category, ids []string, all bool) ([]catalog.Category, error) {
	if all {
		if len(ids) > 0 {
			return nil, fmt.Errorf("--all cannot be combined with category IDs")
		}
		var out []catalog.Category
		for _, c := range cats {
			if !c.RequiresElevatedAccess {
				out = append(out, c)
			}
		}
		return out, nil
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("specify one or more category IDs or --all (see 'macclean categories')")
	}

	out := make([]catalog.Category, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		c, ok := catalog.Find(cats, id)
		if !ok {
			return nil, fmt.Errorf("unknown category %q (valid: %s)", id, strings.Join(catalog.IDs(cats), ", "))
		}
		out = append(out, c)
	}
	return out, nil
}

// rejectDisabled fails when an explicitly requested ID is switched off in
// disabled_categories.
func rejectDisabled(cfg *config.Config, ids []string) error {
	for _, id := range ids {
		if cfg.IsCategoryDisabled(id) {
			return fmt.Errorf("category %q is disabled in config (disabled_categories)", id)
		}
	}
	return nil
}

func totalOf(s coordinator.Snapshot, cats []catalog.Category) int64 {
	var total int64
	for _, c := range cats {
		if st, ok := s.Find(c.ID); ok && st.EstimatedBytes != nil {
			total += *st.EstimatedBytes
		}
	}
	return total
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanAll, "all", false, "Clean every category that does not require elevated access")
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "Skip confirmation prompt")
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "Show what would be removed without removing anything")
	cleanCmd.Flags().BoolVar(&cleanToTrash, "to-trash", false, "Move items to the Trash instead of deleting them")
	cleanCmd.Flags().BoolVarP(&cleanQuiet, "quiet", "q", false, "Suppress all output (for scheduled runs)")
}
