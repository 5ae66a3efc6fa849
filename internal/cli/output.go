package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/lu-zhengda/macclean/internal/catalog"
	"github.com/lu-zhengda/macclean/internal/coordinator"
	"github.com/lu-zhengda/macclean/internal/scancache"
	"github.com/lu-zhengda/macclean/internal/utils"
)

var (
	colorSuccess = color.New(color.FgGreen, color.Bold)
	colorError   = color.New(color.FgRed, color.Bold)
	colorWarning = color.New(color.FgYellow, color.Bold)
	colorInfo    = color.New(color.FgCyan)
	colorDim     = color.New(color.Faint)
)

func printSuccess(format string, args ...any) {
	colorSuccess.Print("✓ ")
	fmt.Printf(format+"\n", args...)
}

func printError(format string, args ...any) {
	colorError.Fprint(os.Stderr, "✗ ")
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func printWarning(format string, args ...any) {
	colorWarning.Fprint(os.Stderr, "⚠ ")
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func printInfo(format string, args ...any) {
	colorInfo.Print("ℹ ")
	fmt.Printf(format+"\n", args...)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func safetyColor(level catalog.SafetyLevel) *color.Color {
	switch level {
	case catalog.Safe:
		return color.New(color.FgGreen)
	case catalog.Caution:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

// printDisk writes the disk overview line.
func printDisk(w io.Writer, d utils.DiskUsage) {
	if d.TotalBytes == 0 {
		fmt.Fprintln(w, "Disk: unavailable")
		return
	}
	fmt.Fprintf(w, "Disk: %s used of %s (%s free, %.0f%%)\n",
		utils.FormatSize(int64(d.UsedBytes())),
		utils.FormatSize(int64(d.TotalBytes)),
		utils.FormatSize(int64(d.FreeBytes)),
		d.FreeFraction()*100)
}

// printCategoryTable writes one row per category in catalog order. The
// total leaves out categories that require elevated access.
func printCategoryTable(w io.Writer, states []coordinator.CategoryState, diff *scancache.DiffResult) {
	var total int64
	for _, s := range states {
		marker := ""
		if s.Category.RequiresElevatedAccess {
			marker = colorDim.Sprint(" (elevated)")
		}
		safety := safetyColor(s.Category.Safety).Sprintf("%-8s", s.Category.Safety)
		fmt.Fprintf(w, "  %-26s %s %12s%s%s\n", truncatePath(s.Category.Title, 26), safety, s.StatusText(),
			diffIndicator(s.Category.ID, diff), marker)
		if s.EstimatedBytes != nil && !s.Category.RequiresElevatedAccess {
			total += *s.EstimatedBytes
		}
	}
	fmt.Fprintln(w, strings.Repeat("-", 52))
	fmt.Fprintf(w, "  %-35s %12s\n", "Total reclaimable", utils.FormatSize(total))
}

// diffIndicator renders the change since the previous status run, or ""
// when there is nothing to compare against.
func diffIndicator(id string, diff *scancache.DiffResult) string {
	if diff == nil {
		return ""
	}
	c, ok := diff.Categories[id]
	if !ok || c.IsNew || c.Delta == 0 {
		return ""
	}
	if c.Delta > 0 {
		return colorWarning.Sprintf("  +%s", utils.FormatSize(c.Delta))
	}
	return colorSuccess.Sprintf("  -%s", utils.FormatSize(-c.Delta))
}

func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return "..."
	}
	return "..." + path[len(path)-maxLen+3:]
}

func confirmAction(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	var response string
	fmt.Scanln(&response)
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}
