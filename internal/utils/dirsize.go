package utils

import (
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// blockSize is the unit st_blocks is reported in on Darwin and Linux.
const blockSize = 512

// SizeFunc measures a single non-directory entry.
type SizeFunc func(path string, info fs.FileInfo) int64

// AllocatedSize returns the disk blocks actually consumed by path. It falls
// back to the logical size when the filesystem does not report blocks.
func AllocatedSize(path string, info fs.FileInfo) int64 {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return LogicalSize(path, info)
	}
	if st.Blocks < 0 {
		return 0
	}
	return int64(st.Blocks) * blockSize
}

// LogicalSize returns the apparent byte length of an entry.
func LogicalSize(_ string, info fs.FileInfo) int64 {
	if info == nil || info.Size() < 0 {
		return 0
	}
	return info.Size()
}

// SizeOf estimates the reclaimable bytes behind path. Files are measured
// with fn; directories are walked recursively, skipping hidden entries and
// anything that cannot be read. Symlinks are measured, never followed.
func SizeOf(path string, fn SizeFunc) int64 {
	if fn == nil {
		fn = AllocatedSize
	}

	info, err := os.Lstat(path)
	if err != nil {
		return 0
	}
	if !info.IsDir() {
		return fn(path, info)
	}

	var total int64
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if p == path {
			return nil
		}
		if IsHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		total += fn(p, fi)
		return nil
	})
	return total
}
