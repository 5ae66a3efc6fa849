package utils

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// DiskUsage is a point-in-time snapshot of a volume's capacity.
type DiskUsage struct {
	TotalBytes uint64 `json:"total_bytes"`
	FreeBytes  uint64 `json:"free_bytes"`
}

func (d DiskUsage) UsedBytes() uint64 {
	if d.TotalBytes > d.FreeBytes {
		return d.TotalBytes - d.FreeBytes
	}
	return 0
}

func (d DiskUsage) UsedFraction() float64 {
	if d.TotalBytes == 0 {
		return 0
	}
	return float64(d.UsedBytes()) / float64(d.TotalBytes)
}

func (d DiskUsage) FreeFraction() float64 {
	if d.TotalBytes == 0 {
		return 0
	}
	return float64(d.FreeBytes) / float64(d.TotalBytes)
}

// DiskUsageOf reads total and available space for the volume holding path.
func DiskUsageOf(path string) (DiskUsage, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return DiskUsage{}, fmt.Errorf("failed to stat filesystem: %w", err)
	}
	bsize := uint64(stat.Bsize)
	return DiskUsage{
		TotalBytes: bsize * uint64(stat.Blocks),
		FreeBytes:  bsize * uint64(stat.Bavail),
	}, nil
}

// RootDiskUsage snapshots the root volume, returning the empty snapshot
// when it cannot be read.
func RootDiskUsage() DiskUsage {
	u, err := DiskUsageOf("/")
	if err != nil {
		return DiskUsage{}
	}
	return u
}
