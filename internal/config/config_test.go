package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Clean.Method != "delete" {
		t.Errorf("expected Clean.Method 'delete', got %q", cfg.Clean.Method)
	}
	if cfg.Clean.Concurrency != 4 {
		t.Errorf("expected Clean.Concurrency 4, got %d", cfg.Clean.Concurrency)
	}
	if cfg.Clean.LowSpaceWarning != "15%" {
		t.Errorf("expected Clean.LowSpaceWarning '15%%', got %q", cfg.Clean.LowSpaceWarning)
	}
	if cfg.Open.App != "Terminal" {
		t.Errorf("expected Open.App 'Terminal', got %q", cfg.Open.App)
	}
	if !cfg.History.Enabled {
		t.Error("expected History.Enabled to be true")
	}
	if cfg.History.Path != "" {
		t.Errorf("expected empty History.Path, got %q", cfg.History.Path)
	}
	if cfg.Schedule.Enabled || cfg.Schedule.Interval != "weekly" || cfg.Schedule.Time != "10:00" || !cfg.Schedule.Notify {
		t.Errorf("unexpected schedule defaults: %+v", cfg.Schedule)
	}
	if len(cfg.Exclude) != 0 || len(cfg.Protect) != 0 || len(cfg.DisabledCategories) != 0 {
		t.Error("expected empty exclude, protect and disabled_categories")
	}
	if w := cfg.Validate(); len(w) != 0 {
		t.Errorf("default config has warnings: %v", w)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	content := `exclude:
  - "*.log"
  - "/tmp/**"
protect:
  - "~/Library/Caches/keep"
disabled_categories:
  - login-items
clean:
  method: trash
  concurrency: 2
  low_space_warning: 20GB
open:
  app: iTerm
history:
  enabled: false
  path: /tmp/h.db
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(cfgPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if len(cfg.Exclude) != 2 {
		t.Fatalf("expected 2 exclude patterns, got %d", len(cfg.Exclude))
	}
	if len(cfg.Protect) != 1 || cfg.Protect[0] != "~/Library/Caches/keep" {
		t.Errorf("unexpected Protect %v", cfg.Protect)
	}
	if !cfg.IsCategoryDisabled("login-items") || cfg.IsCategoryDisabled("trash") {
		t.Errorf("unexpected DisabledCategories %v", cfg.DisabledCategories)
	}
	if m, err := cfg.Method(); err != nil || m != "trash" {
		t.Errorf("Method() = %q, %v; want trash", m, err)
	}
	if cfg.Clean.Concurrency != 2 {
		t.Errorf("expected Concurrency 2, got %d", cfg.Clean.Concurrency)
	}
	if cfg.Open.App != "iTerm" {
		t.Errorf("expected Open.App 'iTerm', got %q", cfg.Open.App)
	}
	if cfg.History.Enabled || cfg.History.Path != "/tmp/h.db" {
		t.Errorf("unexpected History %+v", cfg.History)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	content := `clean:
  method: trash
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(cfgPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Clean.Method != "trash" {
		t.Errorf("expected method trash, got %q", cfg.Clean.Method)
	}
	if cfg.Clean.Concurrency != 4 {
		t.Errorf("expected Concurrency to keep default 4, got %d", cfg.Clean.Concurrency)
	}
	if cfg.Open.App != "Terminal" {
		t.Errorf("expected Open.App to keep default, got %q", cfg.Open.App)
	}
	if !cfg.History.Enabled {
		t.Error("expected History.Enabled to keep default (true)")
	}
}

func TestLoadCreatesDefault(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "subdir", "config.yaml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		t.Fatal("expected config file to be created")
	}
	if cfg.Clean.Concurrency != 4 {
		t.Errorf("expected default Concurrency, got %d", cfg.Clean.Concurrency)
	}

	cfg2, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if cfg2.Clean != cfg.Clean {
		t.Errorf("second load returned %+v, want %+v", cfg2.Clean, cfg.Clean)
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := LoadFrom(cfgPath); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoadFromNonexistentFile(t *testing.T) {
	if _, err := LoadFrom("/nonexistent/path/config.yaml"); err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestSaveAndLoad(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Exclude = []string{"*.tmp"}
	cfg.DisabledCategories = []string{"homebrew"}
	cfg.Clean.Method = "trash"

	if err := cfg.Save(cfgPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := LoadFrom(cfgPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if len(loaded.Exclude) != 1 || loaded.Exclude[0] != "*.tmp" {
		t.Errorf("expected exclude [*.tmp], got %v", loaded.Exclude)
	}
	if !loaded.IsCategoryDisabled("homebrew") {
		t.Error("expected homebrew to be disabled")
	}
	if loaded.Clean.Method != "trash" {
		t.Errorf("expected method trash, got %q", loaded.Clean.Method)
	}
}

func TestMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"", "delete", false},
		{"delete", "delete", false},
		{"Trash", "trash", false},
		{" trash ", "trash", false},
		{"shred", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cfg := Default()
			cfg.Clean.Method = tt.input
			got, err := cfg.Method()
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownMethod) {
					t.Errorf("Method() error = %v, want ErrUnknownMethod", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("Method() = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Clean.Method = "shred"
	cfg.Clean.Concurrency = 0
	cfg.Clean.LowSpaceWarning = "lots"
	cfg.Protect = []string{"relative/path", "/ok", "~/ok"}
	cfg.Exclude = []string{"[", "*.log"}
	cfg.Schedule.Interval = "hourly"

	warnings := cfg.Validate()
	fields := make(map[string]int)
	for _, w := range warnings {
		fields[w.Field]++
	}
	for _, f := range []string{"clean.method", "clean.concurrency", "clean.low_space_warning", "protect", "exclude", "schedule"} {
		if fields[f] != 1 {
			t.Errorf("expected one warning for %s, got %d (%v)", f, fields[f], warnings)
		}
	}
}

func TestLowSpaceThreshold(t *testing.T) {
	tests := []struct {
		input   string
		total   uint64
		want    uint64
		wantErr bool
	}{
		{"15%", 1000, 150, false},
		{"0%", 1000, 0, false},
		{"", 1000, 0, false},
		{"1GB", 0, 1024 * 1024 * 1024, false},
		{"150%", 1000, 0, true},
		{"x%", 1000, 0, true},
		{"lots", 1000, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cfg := Default()
			cfg.Clean.LowSpaceWarning = tt.input
			got, err := cfg.LowSpaceThreshold(tt.total)
			if tt.wantErr {
				if err == nil {
					t.Errorf("LowSpaceThreshold(%d) expected error, got %d", tt.total, got)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("LowSpaceThreshold(%d) = %d, %v; want %d", tt.total, got, err, tt.want)
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"100MB", 100 * 1024 * 1024, false},
		{"100mb", 100 * 1024 * 1024, false},
		{"1GB", 1024 * 1024 * 1024, false},
		{"500KB", 500 * 1024, false},
		{"1024", 1024, false},
		{"0", 0, false},
		{"2TB", 2 * 1024 * 1024 * 1024 * 1024, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-1", 0, true},
		{"-100MB", 0, true},
		{"MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseSize(%q) expected error, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseSize(%q) unexpected error: %v", tt.input, err)
				return
			}
			if got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsExcluded(t *testing.T) {
	cfg := Default()
	cfg.Exclude = []string{"*.log", "/tmp/**", "*.DS_Store"}

	tests := []struct {
		path string
		want bool
	}{
		{"/var/log/system.log", true},
		{"/tmp/foo/bar", true},
		{"/tmp", true},
		{"/home/.DS_Store", true},
		{"/home/user/file.txt", false},
		{"/tmpfile", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := cfg.IsExcluded(tt.path); got != tt.want {
				t.Errorf("IsExcluded(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestExcluder_ExpandsHome(t *testing.T) {
	cfg := Default()
	cfg.Exclude = []string{"~/Library/Caches/keep/**", "~/.Trash/important"}

	excluded := cfg.Excluder("/Users/me")
	tests := []struct {
		path string
		want bool
	}{
		{"/Users/me/Library/Caches/keep", true},
		{"/Users/me/Library/Caches/keep/a", true},
		{"/Users/me/.Trash/important", true},
		{"/Users/me/Library/Caches/other", false},
	}
	for _, tt := range tests {
		if got := excluded(tt.path); got != tt.want {
			t.Errorf("excluded(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
	if cfg.Exclude[0] != "~/Library/Caches/keep/**" {
		t.Error("Excluder must not modify the config")
	}
}
