// Package scancache remembers the category sizes measured by the last
// status run so the next run can report what changed in between.
package scancache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Snapshot records the measured size of each category at a point in time.
// Categories whose size was unknown are left out.
type Snapshot struct {
	Timestamp time.Time        `json:"timestamp"`
	Sizes     map[string]int64 `json:"sizes"`
	TotalSize int64            `json:"total_size"`
}

// NewSnapshot builds a snapshot from per-category sizes.
func NewSnapshot(ts time.Time, sizes map[string]int64) Snapshot {
	snap := Snapshot{Timestamp: ts, Sizes: make(map[string]int64, len(sizes))}
	for id, n := range sizes {
		snap.Sizes[id] = n
		snap.TotalSize += n
	}
	return snap
}

// Change describes how one category changed between two snapshots.
type Change struct {
	PreviousSize int64 `json:"previous_size"`
	CurrentSize  int64 `json:"current_size"`
	Delta        int64 `json:"delta"`
	IsNew        bool  `json:"is_new,omitempty"`
}

// DiffResult describes the differences between two snapshots.
type DiffResult struct {
	PreviousTimestamp time.Time         `json:"previous_timestamp"`
	TotalDelta        int64             `json:"total_delta"`
	Categories        map[string]Change `json:"categories"`
}

// DefaultPath returns ~/.local/share/macclean/last-status.json.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "last-status.json"
	}
	return filepath.Join(home, ".local", "share", "macclean", "last-status.json")
}

// Save writes a snapshot to path as indented JSON, creating parent
// directories as needed.
func Save(path string, snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create status cache directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write status cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace status cache file: %w", err)
	}
	return nil
}

// Load reads a snapshot from path.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read status cache file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse status cache file: %w", err)
	}
	if snap.Sizes == nil {
		snap.Sizes = map[string]int64{}
	}
	return snap, nil
}

// Diff compares curr against prev. Categories only in curr are marked
// IsNew. Categories only in prev are reported with a negative delta.
func Diff(prev, curr Snapshot) DiffResult {
	result := DiffResult{
		PreviousTimestamp: prev.Timestamp,
		TotalDelta:        curr.TotalSize - prev.TotalSize,
		Categories:        make(map[string]Change, len(curr.Sizes)),
	}

	for id, size := range curr.Sizes {
		prevSize, existed := prev.Sizes[id]
		result.Categories[id] = Change{
			PreviousSize: prevSize,
			CurrentSize:  size,
			Delta:        size - prevSize,
			IsNew:        !existed,
		}
	}
	for id, prevSize := range prev.Sizes {
		if _, ok := curr.Sizes[id]; ok {
			continue
		}
		result.Categories[id] = Change{
			PreviousSize: prevSize,
			Delta:        -prevSize,
		}
	}
	return result
}
