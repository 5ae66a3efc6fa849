package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cleanups (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT    NOT NULL,
	timestamp   INTEGER NOT NULL,
	category    TEXT    NOT NULL,
	items       INTEGER NOT NULL,
	bytes_freed INTEGER NOT NULL,
	failures    INTEGER NOT NULL DEFAULT 0,
	method      TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cleanups_timestamp ON cleanups(timestamp);
`

// Entry represents a single category cleanup recorded in the history.
// Entries written by one bulk clean share a RunID.
type Entry struct {
	RunID      string    `json:"run_id"`
	Timestamp  time.Time `json:"timestamp"`
	Category   string    `json:"category"`
	Items      int       `json:"items"`
	BytesFreed int64     `json:"bytes_freed"`
	Failures   int       `json:"failures"`
	Method     string    `json:"method"` // "delete" or "trash"
}

// CategoryStats holds aggregate statistics for a single category.
type CategoryStats struct {
	BytesFreed int64 `json:"bytes_freed"`
	Cleanups   int   `json:"cleanups"`
}

// Stats holds aggregate cleanup statistics.
type Stats struct {
	TotalFreed    int64                    `json:"total_freed"`
	TotalCleanups int                      `json:"total_cleanups"`
	ByCategory    map[string]CategoryStats `json:"by_category"`
	Recent        []Entry                  `json:"recent"`
}

// History is the cleanup log stored in a SQLite database.
type History struct {
	db *sql.DB
}

// DefaultPath returns the default history database location:
// ~/.local/share/macclean/history.db
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "history.db"
	}
	return filepath.Join(home, ".local", "share", "macclean", "history.db")
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &History{db: db}, nil
}

func (h *History) Close() error {
	return h.db.Close()
}

// Record appends a cleanup entry.
func (h *History) Record(e Entry) error {
	_, err := h.db.Exec(
		`INSERT INTO cleanups (run_id, timestamp, category, items, bytes_freed, failures, method)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Timestamp.UnixNano(), e.Category, e.Items, e.BytesFreed, e.Failures, e.Method,
	)
	if err != nil {
		return fmt.Errorf("failed to record history entry: %w", err)
	}
	return nil
}

// Load reads all entries in insertion order.
func (h *History) Load() ([]Entry, error) {
	rows, err := h.db.Query(
		`SELECT run_id, timestamp, category, items, bytes_freed, failures, method
		 FROM cleanups ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e  Entry
			ts int64
		)
		if err := rows.Scan(&e.RunID, &ts, &e.Category, &e.Items, &e.BytesFreed, &e.Failures, &e.Method); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Timestamp = time.Unix(0, ts)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

// Stats computes aggregate statistics from the history.
func (h *History) Stats() (Stats, error) {
	s := Stats{ByCategory: make(map[string]CategoryStats)}

	entries, err := h.Load()
	if err != nil {
		return s, err
	}
	s.TotalCleanups = len(entries)

	for _, e := range entries {
		s.TotalFreed += e.BytesFreed

		cs := s.ByCategory[e.Category]
		cs.BytesFreed += e.BytesFreed
		cs.Cleanups++
		s.ByCategory[e.Category] = cs
	}

	// Sort entries by timestamp descending for recent list.
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	limit := 5
	if len(sorted) < limit {
		limit = len(sorted)
	}
	s.Recent = sorted[:limit]

	return s, nil
}
