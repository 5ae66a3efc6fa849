// Package schedule installs a LaunchAgent that runs an unattended
// "macclean clean --all" on a daily or weekly calendar interval.
package schedule

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
)

// Label is the launchd job label and plist file stem.
const Label = "com.macclean.cleanup"

// ErrInvalidInterval is returned for intervals other than daily or weekly.
var ErrInvalidInterval = errors.New("interval must be daily or weekly")

var plistTemplate = template.Must(template.New("plist").Funcs(template.FuncMap{"xml": escapeXML}).Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{xml .Label}}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{xml .Binary}}</string>{{range .Args}}
		<string>{{xml .}}</string>{{end}}
	</array>
	<key>StartCalendarInterval</key>
	<dict>
		<key>Hour</key>
		<integer>{{.Hour}}</integer>
		<key>Minute</key>
		<integer>{{.Minute}}</integer>{{if .Weekly}}
		<key>Weekday</key>
		<integer>1</integer>{{end}}
	</dict>
	<key>StandardOutPath</key>
	<string>{{xml .LogPath}}</string>
	<key>StandardErrorPath</key>
	<string>{{xml .LogPath}}</string>
</dict>
</plist>
`))

func escapeXML(s string) (string, error) {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// CleanArgs are the arguments the scheduled job passes to macclean.
var CleanArgs = []string{"clean", "--all", "--yes", "--quiet"}

// Job describes one scheduled cleanup run.
type Job struct {
	Label   string
	Binary  string
	Args    []string
	Hour    int
	Minute  int
	Weekly  bool // runs on Mondays when set, otherwise daily
	LogPath string
}

// NewJob builds a Job from an "HH:MM" time and a daily/weekly interval.
func NewJob(timeStr, interval, binary string) (Job, error) {
	hour, minute, err := ParseTime(timeStr)
	if err != nil {
		return Job{}, err
	}
	var weekly bool
	switch strings.ToLower(strings.TrimSpace(interval)) {
	case "", "daily":
	case "weekly":
		weekly = true
	default:
		return Job{}, fmt.Errorf("%w: %q", ErrInvalidInterval, interval)
	}
	return Job{
		Label:   Label,
		Binary:  binary,
		Args:    CleanArgs,
		Hour:    hour,
		Minute:  minute,
		Weekly:  weekly,
		LogPath: LogPath(),
	}, nil
}

// Plist renders the job as LaunchAgent XML.
func (j Job) Plist() (string, error) {
	var b strings.Builder
	if err := plistTemplate.Execute(&b, j); err != nil {
		return "", fmt.Errorf("failed to render plist: %w", err)
	}
	return b.String(), nil
}

// Describe returns a short human summary such as "daily at 09:30".
func (j Job) Describe() string {
	when := "daily"
	if j.Weekly {
		when = "every Monday"
	}
	return fmt.Sprintf("%s at %02d:%02d", when, j.Hour, j.Minute)
}

// ParseTime splits an "HH:MM" string into hour and minute.
func ParseTime(s string) (int, int, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q: must be 0-23", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q: must be 0-59", s)
	}
	return hour, minute, nil
}

// PlistPath returns ~/Library/LaunchAgents/<Label>.plist.
func PlistPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("Library", "LaunchAgents", Label+".plist")
	}
	return filepath.Join(home, "Library", "LaunchAgents", Label+".plist")
}

// LogPath is where launchd redirects the job's output.
func LogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "macclean.log")
	}
	return filepath.Join(home, ".local", "share", "macclean", "macclean.log")
}

// BinaryPath prefers the running executable and falls back to the usual
// install location.
func BinaryPath() string {
	if exe, err := os.Executable(); err == nil {
		return exe
	}
	return "/usr/local/bin/macclean"
}

// Runner executes an external command and returns its combined output.
type Runner func(name string, args ...string) ([]byte, error)

func execRunner(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// Agent writes, loads and removes the LaunchAgent.
type Agent struct {
	path string
	run  Runner
}

// NewAgent returns an Agent managing the plist at path. A nil runner uses
// os/exec.
func NewAgent(path string, run Runner) *Agent {
	if run == nil {
		run = execRunner
	}
	return &Agent{path: path, run: run}
}

// Path returns the plist location.
func (a *Agent) Path() string { return a.path }

// Installed reports whether the plist exists.
func (a *Agent) Installed() bool {
	_, err := os.Stat(a.path)
	return err == nil
}

// Enable writes the plist for job and loads it with launchctl. An already
// loaded job is unloaded first so the new schedule takes effect.
func (a *Agent) Enable(job Job) error {
	plist, err := job.Plist()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(job.LogPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return fmt.Errorf("failed to create LaunchAgents directory: %w", err)
	}
	if a.Installed() {
		_, _ = a.run("launchctl", "unload", a.path)
	}
	if err := os.WriteFile(a.path, []byte(plist), 0o644); err != nil {
		return fmt.Errorf("failed to write plist: %w", err)
	}
	if out, err := a.run("launchctl", "load", a.path); err != nil {
		return commandError("launchctl load", out, err)
	}
	return nil
}

// Disable unloads and removes the plist. It is a no-op when nothing is
// installed.
func (a *Agent) Disable() error {
	if !a.Installed() {
		return nil
	}
	if out, err := a.run("launchctl", "unload", a.path); err != nil {
		return commandError("launchctl unload", out, err)
	}
	if err := os.Remove(a.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove plist: %w", err)
	}
	return nil
}

// Notify posts a macOS user notification.
func Notify(run Runner, title, message string) error {
	if run == nil {
		run = execRunner
	}
	script := fmt.Sprintf("display notification %q with title %q", message, title)
	if out, err := run("osascript", "-e", script); err != nil {
		return commandError("osascript", out, err)
	}
	return nil
}

func commandError(what string, out []byte, err error) error {
	if msg := strings.TrimSpace(string(out)); msg != "" {
		return fmt.Errorf("%s failed: %s: %w", what, msg, err)
	}
	return fmt.Errorf("%s failed: %w", what, err)
}
