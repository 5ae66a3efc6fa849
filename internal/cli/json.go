package cli

import (
	"time"

	"github.com/lu-zhengda/macclean/internal/catalog"
	"github.com/lu-zhengda/macclean/internal/coordinator"
	"github.com/lu-zhengda/macclean/internal/engine"
	"github.com/lu-zhengda/macclean/internal/history"
	"github.com/lu-zhengda/macclean/internal/scancache"
	"github.com/lu-zhengda/macclean/internal/utils"
)

// ---------------------------------------------------------------------------
// Status JSON types
// ---------------------------------------------------------------------------

type statusJSON struct {
	Version      string                `json:"version"`
	Timestamp    time.Time             `json:"timestamp"`
	Disk         utils.DiskUsage       `json:"disk"`
	LowSpace     bool                  `json:"low_space"`
	Categories   []categoryStatusJSON  `json:"categories"`
	TotalSize    int64                 `json:"total_size"`
	UnknownCount int                   `json:"unknown_count,omitempty"`
	Diff         *scancache.DiffResult `json:"diff,omitempty"` // nil on the first status run
}

type categoryStatusJSON struct {
	ID                     string `json:"id"`
	Title                  string `json:"title"`
	Safety                 string `json:"safety"`
	Size                   *int64 `json:"size"`
	Status                 string `json:"status"`
	RequiresElevatedAccess bool   `json:"requires_elevated_access"`
}

func buildStatusJSON(s coordinator.Snapshot, lowSpace bool) statusJSON {
	out := statusJSON{
		Version:    version,
		Timestamp:  time.Now().UTC(),
		Disk:       s.Disk,
		LowSpace:   lowSpace,
		Categories: make([]categoryStatusJSON, 0, len(s.Categories)),
	}
	for _, st := range s.Categories {
		switch {
		case st.EstimatedBytes == nil:
			out.UnknownCount++
		case !st.Category.RequiresElevatedAccess:
			out.TotalSize += *st.EstimatedBytes
		}
		out.Categories = append(out.Categories, categoryStatusJSON{
			ID:                     st.Category.ID,
			Title:                  st.Category.Title,
			Safety:                 st.Category.Safety.String(),
			Size:                   st.EstimatedBytes,
			Status:                 st.StatusText(),
			RequiresElevatedAccess: st.Category.RequiresElevatedAccess,
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Categories JSON type
// ---------------------------------------------------------------------------

type categoryJSON struct {
	ID                     string   `json:"id"`
	Title                  string   `json:"title"`
	Detail                 string   `json:"detail"`
	Safety                 string   `json:"safety"`
	Paths                  []string `json:"paths"`
	RequiresElevatedAccess bool     `json:"requires_elevated_access"`
}

func buildCategoriesJSON(cats []catalog.Category) []categoryJSON {
	out := make([]categoryJSON, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryJSON{
			ID:                     c.ID,
			Title:                  c.Title,
			Detail:                 c.Detail,
			Safety:                 c.Safety.String(),
			Paths:                  c.Paths,
			RequiresElevatedAccess: c.RequiresElevatedAccess,
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Clean JSON types
// ---------------------------------------------------------------------------

type cleanJSON struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	DryRun    bool      `json:"dry_run"`
	Method    string    `json:"method"`
	// Categories is only populated for dry runs.
	Categories []dryRunCategoryJSON `json:"categories,omitempty"`
	Message    string               `json:"message,omitempty"`
	Before     int64                `json:"before"`
	After      int64                `json:"after"`
	Rejected   []string             `json:"rejected,omitempty"`
}

type dryRunCategoryJSON struct {
	ID      string   `json:"id"`
	Size    int64    `json:"size"`
	Targets []string `json:"targets"`
}

func buildDryRunJSON(eng *engine.Engine, cats []catalog.Category, method string) cleanJSON {
	out := cleanJSON{
		Version:   version,
		Timestamp: time.Now().UTC(),
		DryRun:    true,
		Method:    method,
	}
	for _, c := range cats {
		size := eng.EstimateSize(c)
		out.Before += size
		out.Categories = append(out.Categories, dryRunCategoryJSON{
			ID:      c.ID,
			Size:    size,
			Targets: eng.Targets(c),
		})
	}
	out.After = out.Before
	return out
}

// ---------------------------------------------------------------------------
// Stats JSON type
// ---------------------------------------------------------------------------

type statsJSON struct {
	Version       string                           `json:"version"`
	TotalFreed    int64                            `json:"total_freed"`
	TotalCleanups int                              `json:"total_cleanups"`
	ByCategory    map[string]history.CategoryStats `json:"by_category"`
	Recent        []history.Entry                  `json:"recent"`
}

// buildStatsJSON converts history stats into a JSON-serializable structure.
func buildStatsJSON(stats history.Stats) statsJSON {
	return statsJSON{
		Version:       version,
		TotalFreed:    stats.TotalFreed,
		TotalCleanups: stats.TotalCleanups,
		ByCategory:    stats.ByCategory,
		Recent:        stats.Recent,
	}
}
