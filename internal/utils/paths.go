package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// wildcardSuffix is the only wildcard form a category pattern may use:
// "contents of this directory, not the directory itself".
const wildcardSuffix = "/*"

func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// ExpandHome replaces a leading "~" or "~/" with home.
func ExpandHome(path, home string) string {
	switch {
	case path == "~":
		return home
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:])
	default:
		return path
	}
}

// ResolvePattern expands a category path pattern into the existing entries
// it names. A bare path resolves to itself when it exists. A path ending in
// "/*" resolves to the immediate children of that directory. Any other use
// of "*" resolves to nothing.
func ResolvePattern(pattern, home string) []string {
	expanded := ExpandHome(pattern, home)

	if !strings.Contains(expanded, "*") {
		if !PathExists(expanded) {
			return nil
		}
		return []string{expanded}
	}

	if !strings.HasSuffix(expanded, wildcardSuffix) {
		return nil
	}
	base := strings.TrimSuffix(expanded, wildcardSuffix)
	if base == "" || strings.Contains(base, "*") || !DirExists(base) {
		return nil
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}
	results := make([]string, 0, len(entries))
	for _, e := range entries {
		results = append(results, filepath.Join(base, e.Name()))
	}
	return results
}

// OpenablePath returns the directory a pattern refers to with any trailing
// wildcard stripped and the home prefix expanded.
func OpenablePath(pattern, home string) string {
	return ExpandHome(strings.TrimSuffix(pattern, wildcardSuffix), home)
}

// PathExists reports whether anything exists at path. Symlinks are not
// followed, so a dangling link still exists.
func PathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsHidden reports whether a base name is a dot-file.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
