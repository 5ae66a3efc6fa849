package launcher

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNew_DefaultApp(t *testing.T) {
	if got := New("").Name(); got != "Terminal" {
		t.Errorf("Name() = %q, want Terminal", got)
	}
	if got := New("iTerm").Name(); got != "iTerm" {
		t.Errorf("Name() = %q, want iTerm", got)
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantProg string
		wantArgs []string
	}{
		{"darwin", "open", []string{"-a", "Terminal", "/Users/me/.Trash"}},
		{"linux", "xdg-open", []string{"/Users/me/.Trash"}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			a := New("Terminal")
			a.goos = tt.goos
			prog, args := a.Command("/Users/me/.Trash")
			if prog != tt.wantProg || !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("Command() = %s %v, want %s %v", prog, args, tt.wantProg, tt.wantArgs)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	var gotProg string
	var gotArgs []string
	a := New("Terminal")
	a.goos = "darwin"
	a.run = func(name string, args ...string) ([]byte, error) {
		gotProg, gotArgs = name, args
		return nil, nil
	}

	if err := a.Open("/tmp/x"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if gotProg != "open" || !reflect.DeepEqual(gotArgs, []string{"-a", "Terminal", "/tmp/x"}) {
		t.Errorf("ran %s %v", gotProg, gotArgs)
	}
}

func TestOpen_ErrorIncludesOutput(t *testing.T) {
	a := New("Nope")
	a.run = func(string, ...string) ([]byte, error) {
		return []byte("Unable to find application named 'Nope'\n"), errors.New("exit status 1")
	}

	err := a.Open("/tmp/x")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Unable to find application") {
		t.Errorf("error = %v, want command output included", err)
	}
}
