package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *History {
	t.Helper()
	h, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestRecordAndLoad(t *testing.T) {
	h := openTemp(t)
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := h.Record(Entry{RunID: "r1", Timestamp: ts, Category: "trash", Items: 3, BytesFreed: 3000, Method: "delete"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := h.Record(Entry{RunID: "r1", Timestamp: ts, Category: "homebrew", Items: 1, BytesFreed: 500, Failures: 2, Method: "delete"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := h.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Category != "trash" || entries[1].Category != "homebrew" {
		t.Errorf("entries out of order: %+v", entries)
	}
	if !entries[0].Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", entries[0].Timestamp, ts)
	}
	if entries[1].Failures != 2 {
		t.Errorf("Failures = %d, want 2", entries[1].Failures)
	}
	if entries[0].RunID != entries[1].RunID {
		t.Error("entries from the same run should share a RunID")
	}
}

func TestLoad_Empty(t *testing.T) {
	h := openTemp(t)
	entries, err := h.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("len(entries) = %d, want 0", len(entries))
	}
}

func TestStats(t *testing.T) {
	h := openTemp(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		cat := "trash"
		if i%2 == 1 {
			cat = "user-cache-files"
		}
		if err := h.Record(Entry{
			RunID:      "r",
			Timestamp:  base.Add(time.Duration(i) * time.Hour),
			Category:   cat,
			Items:      1,
			BytesFreed: int64(100 * (i + 1)),
			Method:     "delete",
		}); err != nil {
			t.Fatal(err)
		}
	}

	s, err := h.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.TotalCleanups != 7 {
		t.Errorf("TotalCleanups = %d, want 7", s.TotalCleanups)
	}
	if s.TotalFreed != 2800 {
		t.Errorf("TotalFreed = %d, want 2800", s.TotalFreed)
	}
	if got := s.ByCategory["trash"]; got.Cleanups != 4 || got.BytesFreed != 1600 {
		t.Errorf("ByCategory[trash] = %+v, want 4 cleanups / 1600 bytes", got)
	}
	if len(s.Recent) != 5 {
		t.Fatalf("len(Recent) = %d, want 5", len(s.Recent))
	}
	if s.Recent[0].BytesFreed != 700 {
		t.Errorf("Recent[0].BytesFreed = %d, want newest entry (700)", s.Recent[0].BytesFreed)
	}
}

func TestStats_Empty(t *testing.T) {
	s, err := openTemp(t).Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.TotalCleanups != 0 || s.TotalFreed != 0 || s.ByCategory == nil {
		t.Errorf("Stats = %+v, want zero with non-nil ByCategory", s)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	h, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Record(Entry{RunID: "x", Timestamp: time.Now(), Category: "trash", Items: 1, BytesFreed: 1, Method: "trash"}); err != nil {
		t.Fatal(err)
	}
	h.Close()

	h2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer h2.Close()
	entries, err := h2.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Method != "trash" {
		t.Errorf("entries = %+v, want one trash entry", entries)
	}
}

func TestDefaultPath(t *testing.T) {
	if filepath.Base(DefaultPath()) != "history.db" {
		t.Errorf("DefaultPath = %q", DefaultPath())
	}
}
