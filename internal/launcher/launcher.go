// Package launcher opens filesystem locations in an external application.
package launcher

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// DefaultApp is the application locations are opened in on macOS.
const DefaultApp = "Terminal"

// App opens paths with `open -a <Name>` on macOS and falls back to
// xdg-open elsewhere.
type App struct {
	name string
	goos string
	run  func(name string, args ...string) ([]byte, error)
}

// New returns a launcher for the named application. An empty name selects
// DefaultApp.
func New(name string) *App {
	if name == "" {
		name = DefaultApp
	}
	return &App{name: name, goos: runtime.GOOS, run: combinedOutput}
}

func (a *App) Name() string {
	return a.name
}

// Command returns the program and arguments used to open path.
func (a *App) Command(path string) (string, []string) {
	if a.goos == "darwin" {
		return "open", []string{"-a", a.name, path}
	}
	return "xdg-open", []string{path}
}

func (a *App) Open(path string) error {
	prog, args := a.Command(path)
	out, err := a.run(prog, args...)
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return err
	}
	return nil
}

func combinedOutput(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}
