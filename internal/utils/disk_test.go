package utils

import "testing"

func TestDiskUsage_Empty(t *testing.T) {
	var d DiskUsage
	if d.UsedBytes() != 0 {
		t.Errorf("UsedBytes = %d, want 0", d.UsedBytes())
	}
	if d.UsedFraction() != 0 {
		t.Errorf("UsedFraction = %v, want 0", d.UsedFraction())
	}
	if d.FreeFraction() != 0 {
		t.Errorf("FreeFraction = %v, want 0", d.FreeFraction())
	}
}

func TestDiskUsage_Fractions(t *testing.T) {
	d := DiskUsage{TotalBytes: 1000, FreeBytes: 250}
	if d.UsedBytes() != 750 {
		t.Errorf("UsedBytes = %d, want 750", d.UsedBytes())
	}
	if d.UsedFraction() != 0.75 {
		t.Errorf("UsedFraction = %v, want 0.75", d.UsedFraction())
	}
	if d.FreeFraction() != 0.25 {
		t.Errorf("FreeFraction = %v, want 0.25", d.FreeFraction())
	}
}

func TestDiskUsage_FreeExceedsTotal(t *testing.T) {
	d := DiskUsage{TotalBytes: 100, FreeBytes: 200}
	if d.UsedBytes() != 0 {
		t.Errorf("UsedBytes = %d, want 0", d.UsedBytes())
	}
}

func TestDiskUsageOf(t *testing.T) {
	u, err := DiskUsageOf(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.TotalBytes == 0 {
		t.Error("expected non-zero total bytes")
	}
	if u.FreeBytes > u.TotalBytes {
		t.Errorf("free %d exceeds total %d", u.FreeBytes, u.TotalBytes)
	}
}

func TestDiskUsageOf_Missing(t *testing.T) {
	if _, err := DiskUsageOf("/definitely/not/here"); err == nil {
		t.Error("expected error for missing path")
	}
}
