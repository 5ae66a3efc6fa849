// Package trash provides the deletion backends used by the cleanup engine.
package trash

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Deleter removes a file or directory tree.
type Deleter interface {
	RemoveAll(path string) error
}

// Permanent deletes in place.
type Permanent struct{}

func (Permanent) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// Finder moves items to the macOS Trash via AppleScript. Items that already
// live inside TrashDir are deleted permanently, since re-trashing them would
// be a no-op.
type Finder struct {
	TrashDir string
	// run executes the AppleScript; nil uses osascript.
	run func(script string) ([]byte, error)
}

// NewFinder returns a Finder for the Trash directory under home.
func NewFinder(home string) *Finder {
	return &Finder{TrashDir: filepath.Join(home, ".Trash")}
}

func (f *Finder) RemoveAll(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	if f.inTrash(absPath) {
		return os.RemoveAll(absPath)
	}

	script := fmt.Sprintf(
		`tell application "Finder" to delete POSIX file %q`,
		absPath,
	)

	run := f.run
	if run == nil {
		run = osascript
	}
	if out, err := run(script); err != nil {
		return fmt.Errorf("failed to trash %s: %w (%s)", path, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (f *Finder) inTrash(path string) bool {
	if f.TrashDir == "" {
		return false
	}
	rel, err := filepath.Rel(f.TrashDir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func osascript(script string) ([]byte, error) {
	return exec.Command("osascript", "-e", script).CombinedOutput()
}

// ForMethod returns the Deleter for a configured clean method.
func ForMethod(method, home string) (Deleter, error) {
	switch method {
	case "", "delete", "permanent":
		return Permanent{}, nil
	case "trash":
		return NewFinder(home), nil
	default:
		return nil, fmt.Errorf("unknown clean method %q (use delete or trash)", method)
	}
}
