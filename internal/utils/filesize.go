package utils

import "github.com/dustin/go-humanize"

// FormatSize renders a byte count in decimal units ("3.0 kB", "1.5 GB"),
// the same convention Finder uses for file sizes.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}
