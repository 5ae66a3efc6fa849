package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSizeOf_Nested(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	os.Mkdir(sub, 0o755)
	os.WriteFile(filepath.Join(sub, "nested.txt"), make([]byte, 500), 0o644)

	if size := SizeOf(dir, LogicalSize); size != 500 {
		t.Errorf("SizeOf = %d, want 500", size)
	}
}

func TestSizeOf_SkipsHidden(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "visible"), make([]byte, 100), 0o644)
	os.WriteFile(filepath.Join(dir, ".hidden"), make([]byte, 1000), 0o644)
	hiddenDir := filepath.Join(dir, ".git")
	os.Mkdir(hiddenDir, 0o755)
	os.WriteFile(filepath.Join(hiddenDir, "objects"), make([]byte, 5000), 0o644)

	if size := SizeOf(dir, LogicalSize); size != 100 {
		t.Errorf("SizeOf = %d, want 100", size)
	}
}

func TestSizeOf_HiddenRootIsMeasured(t *testing.T) {
	dir := t.TempDir()
	hidden := filepath.Join(dir, ".cache")
	os.Mkdir(hidden, 0o755)
	os.WriteFile(filepath.Join(hidden, "blob"), make([]byte, 700), 0o644)
	f := filepath.Join(dir, ".DS_Store")
	os.WriteFile(f, make([]byte, 40), 0o644)

	if size := SizeOf(hidden, LogicalSize); size != 700 {
		t.Errorf("SizeOf(hidden dir) = %d, want 700", size)
	}
	if size := SizeOf(f, LogicalSize); size != 40 {
		t.Errorf("SizeOf(hidden file) = %d, want 40", size)
	}
}

func TestSizeOf_MissingAndEmpty(t *testing.T) {
	dir := t.TempDir()
	if size := SizeOf(filepath.Join(dir, "nope"), AllocatedSize); size != 0 {
		t.Errorf("SizeOf(missing) = %d, want 0", size)
	}
	if size := SizeOf(dir, AllocatedSize); size != 0 {
		t.Errorf("SizeOf(empty dir) = %d, want 0", size)
	}
}

func TestSizeOf_DoesNotFollowSymlinks(t *testing.T) {
	outside := t.TempDir()
	os.WriteFile(filepath.Join(outside, "big"), make([]byte, 4096), 0o644)

	dir := t.TempDir()
	link := filepath.Join(dir, "link")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if size := SizeOf(dir, LogicalSize); size >= 4096 {
		t.Errorf("SizeOf followed a symlink: %d", size)
	}
}

func TestAllocatedSize(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "data")
	os.WriteFile(f, []byte("some bytes that land on disk"), 0o644)
	info, err := os.Lstat(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := AllocatedSize(f, info); got < 0 {
		t.Errorf("AllocatedSize = %d, want >= 0", got)
	}
	if got := AllocatedSize(filepath.Join(dir, "gone"), info); got != info.Size() {
		t.Errorf("AllocatedSize fallback = %d, want logical %d", got, info.Size())
	}
}
