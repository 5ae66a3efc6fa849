package trash

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPermanent_RemoveAll(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	os.MkdirAll(filepath.Join(sub, "deep"), 0o755)
	os.WriteFile(filepath.Join(sub, "deep", "f"), []byte("x"), 0o644)

	if err := (Permanent{}).RemoveAll(sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Lstat(sub); !os.IsNotExist(err) {
		t.Errorf("expected %s to be gone, got %v", sub, err)
	}
}

func TestFinder_TrashContentsArePermanentlyRemoved(t *testing.T) {
	home := t.TempDir()
	f := NewFinder(home)
	f.run = func(string) ([]byte, error) {
		t.Fatal("osascript should not run for items already in the Trash")
		return nil, nil
	}

	os.MkdirAll(f.TrashDir, 0o755)
	item := filepath.Join(f.TrashDir, "old.zip")
	os.WriteFile(item, []byte("zip"), 0o644)

	if err := f.RemoveAll(item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Lstat(item); !os.IsNotExist(err) {
		t.Errorf("expected %s to be gone", item)
	}
}

func TestFinder_UsesAppleScript(t *testing.T) {
	home := t.TempDir()
	f := NewFinder(home)
	var got string
	f.run = func(script string) ([]byte, error) {
		got = script
		return nil, nil
	}

	target := filepath.Join(home, "Library", "Caches", "com.example")
	if err := f.RemoveAll(target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, `tell application "Finder" to delete POSIX file`) || !strings.Contains(got, target) {
		t.Errorf("script = %q", got)
	}
}

func TestFinder_ReportsScriptFailure(t *testing.T) {
	f := NewFinder(t.TempDir())
	f.run = func(string) ([]byte, error) {
		return []byte("Finder got an error\n"), errors.New("exit status 1")
	}
	err := f.RemoveAll("/tmp/whatever")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Finder got an error") {
		t.Errorf("error = %v, want osascript output included", err)
	}
}

func TestFinder_InTrash(t *testing.T) {
	f := &Finder{TrashDir: "/Users/me/.Trash"}
	tests := []struct {
		path string
		want bool
	}{
		{"/Users/me/.Trash/a", true},
		{"/Users/me/.Trash/a/b", true},
		{"/Users/me/.Trash", false},
		{"/Users/me/.Trashcan/a", false},
		{"/Users/me/Library", false},
	}
	for _, tt := range tests {
		if got := f.inTrash(tt.path); got != tt.want {
			t.Errorf("inTrash(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestForMethod(t *testing.T) {
	if d, err := ForMethod("delete", "/h"); err != nil {
		t.Errorf("unexpected error: %v", err)
	} else if _, ok := d.(Permanent); !ok {
		t.Errorf("ForMethod(delete) = %T, want Permanent", d)
	}
	if d, err := ForMethod("trash", "/h"); err != nil {
		t.Errorf("unexpected error: %v", err)
	} else if _, ok := d.(*Finder); !ok {
		t.Errorf("ForMethod(trash) = %T, want *Finder", d)
	}
	if _, err := ForMethod("shred", "/h"); err == nil {
		t.Error("expected error for unknown method")
	}
}
