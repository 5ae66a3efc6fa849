package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lu-zhengda/macclean/internal/schedule"
	"gopkg.in/yaml.v3"
)

// ErrUnknownMethod is returned for a clean.method other than delete or trash.
var ErrUnknownMethod = errors.New("unknown clean method")

// Config holds all macclean configuration.
type Config struct {
	Exclude            []string       `yaml:"exclude"`
	Protect            []string       `yaml:"protect"`
	DisabledCategories []string       `yaml:"disabled_categories"`
	Clean              CleanConfig    `yaml:"clean"`
	Open               OpenConfig     `yaml:"open"`
	History            HistoryConfig  `yaml:"history"`
	Schedule           ScheduleConfig `yaml:"schedule"`
}

// CleanConfig controls how targets are removed and measured.
type CleanConfig struct {
	Method      string `yaml:"method"`
	Concurrency int    `yaml:"concurrency"`
	// LowSpaceWarning is either a free-space percentage ("15%") or an
	// absolute size ("20GB").
	LowSpaceWarning string `yaml:"low_space_warning"`
}

// OpenConfig selects the application locations are opened in.
type OpenConfig struct {
	App string `yaml:"app"`
}

// HistoryConfig controls the cleanup log.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ScheduleConfig controls the LaunchAgent installed by "macclean schedule".
type ScheduleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Interval string `yaml:"interval"` // daily or weekly
	Time     string `yaml:"time"`     // HH:MM, local time
	Notify   bool   `yaml:"notify"`
}

// Warning is a non-fatal problem found by Validate.
type Warning struct {
	Field   string
	Message string
}

func (w Warning) String() string {
	return w.Field + ": " + w.Message
}

// Default returns a Config with all default values populated.
func Default() *Config {
	return &Config{
		Exclude:            []string{},
		Protect:            []string{},
		DisabledCategories: []string{},
		Clean: CleanConfig{
			Method:          "delete",
			Concurrency:     4,
			LowSpaceWarning: "15%",
		},
		Open: OpenConfig{
			App: "Terminal",
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Schedule: ScheduleConfig{
			Interval: "weekly",
			Time:     "10:00",
			Notify:   true,
		},
	}
}

// DefaultPath returns ~/.config/macclean/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "macclean", "config.yaml"), nil
}

// Load loads config from the given path. If path is empty, it uses the
// default location. If the file does not exist, it creates it with
// default values.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	return LoadFrom(path)
}

// LoadFrom loads and parses config from the given path. Missing fields
// keep their default values.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save marshals the config to YAML and writes it to the given path,
// creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Method returns the normalized clean method.
func (c *Config) Method() (string, error) {
	switch m := strings.ToLower(strings.TrimSpace(c.Clean.Method)); m {
	case "", "delete":
		return "delete", nil
	case "trash":
		return "trash", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, c.Clean.Method)
	}
}

// Validate reports settings that are ignored or replaced by defaults.
func (c *Config) Validate() []Warning {
	var warnings []Warning

	if _, err := c.Method(); err != nil {
		warnings = append(warnings, Warning{"clean.method", fmt.Sprintf("unknown method %q, using delete", c.Clean.Method)})
	}
	if c.Clean.Concurrency < 1 {
		warnings = append(warnings, Warning{"clean.concurrency", fmt.Sprintf("must be at least 1, got %d", c.Clean.Concurrency)})
	}
	if c.Clean.LowSpaceWarning != "" {
		if _, err := c.LowSpaceThreshold(1); err != nil {
			warnings = append(warnings, Warning{"clean.low_space_warning", err.Error()})
		}
	}
	if _, err := schedule.NewJob(c.Schedule.Time, c.Schedule.Interval, ""); err != nil {
		warnings = append(warnings, Warning{"schedule", err.Error()})
	}
	for _, p := range c.Protect {
		if !strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "~") {
			warnings = append(warnings, Warning{"protect", fmt.Sprintf("%q is not an absolute path", p)})
		}
	}
	for _, pattern := range c.Exclude {
		if _, err := filepath.Match(strings.TrimSuffix(pattern, "/**"), ""); err != nil {
			warnings = append(warnings, Warning{"exclude", fmt.Sprintf("invalid pattern %q", pattern)})
		}
	}
	return warnings
}

// LowSpaceThreshold returns the free byte count below which a volume of
// the given total size counts as low on space. Zero disables the warning.
func (c *Config) LowSpaceThreshold(total uint64) (uint64, error) {
	s := strings.TrimSpace(c.Clean.LowSpaceWarning)
	if s == "" {
		return 0, nil
	}
	if strings.HasSuffix(s, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
		if err != nil || pct < 0 || pct > 100 {
			return 0, fmt.Errorf("invalid percentage %q", s)
		}
		return uint64(float64(total) * pct / 100), nil
	}
	n, err := ParseSize(s)
	if err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// IsCategoryDisabled reports whether id is listed in disabled_categories.
func (c *Config) IsCategoryDisabled(id string) bool {
	for _, d := range c.DisabledCategories {
		if d == id {
			return true
		}
	}
	return false
}

type sizeSuffix struct {
	suffix string
	mult   int64
}

var sizeSuffixes = []sizeSuffix{
	{"TB", 1024 * 1024 * 1024 * 1024},
	{"GB", 1024 * 1024 * 1024},
	{"MB", 1024 * 1024},
	{"KB", 1024},
}

// ParseSize parses a human-readable size string like "100MB", "1GB",
// "500KB", "2TB", or a plain number (bytes) into int64 bytes.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}
	upper := strings.ToUpper(s)

	for _, ss := range sizeSuffixes {
		if !strings.HasSuffix(upper, ss.suffix) {
			continue
		}
		numStr := strings.TrimSpace(strings.TrimSuffix(upper, ss.suffix))
		if numStr == "" {
			return 0, fmt.Errorf("missing numeric value in %q", s)
		}
		n, err := strconv.ParseInt(numStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid size %q: %w", s, err)
		}
		if n < 0 {
			return 0, fmt.Errorf("negative size %q", s)
		}
		return n * ss.mult, nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative size %q", s)
	}
	return n, nil
}

// IsExcluded checks if the given path matches any of the configured
// exclude glob patterns. Matching is done against the full path and
// against the base name. Patterns ending in "/**" are treated as
// directory prefix matches.
func (c *Config) IsExcluded(path string) bool {
	for _, pattern := range c.Exclude {
		if strings.HasSuffix(pattern, "/**") {
			prefix := strings.TrimSuffix(pattern, "/**")
			if strings.HasPrefix(path, prefix+"/") || path == prefix {
				return true
			}
			continue
		}

		if matched, _ := filepath.Match(pattern, path); matched {
			return true
		}
		// Base name match covers patterns like "*.log".
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			return true
		}
	}
	return false
}

// Excluder returns an IsExcluded matcher with "~" in each pattern expanded
// against home.
func (c *Config) Excluder(home string) func(string) bool {
	expanded := &Config{Exclude: make([]string, len(c.Exclude))}
	for i, p := range c.Exclude {
		switch {
		case p == "~":
			p = home
		case strings.HasPrefix(p, "~/"):
			p = filepath.Join(home, p[2:])
		}
		expanded.Exclude[i] = p
	}
	return expanded.IsExcluded
}
