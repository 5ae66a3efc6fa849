package cli

import (
	"strings"
	"testing"

	"github.com/lu-zhengda/macclean/internal/catalog"
	"github.com/lu-zhengda/macclean/internal/config"
	"github.com/lu-zhengda/macclean/internal/coordinator"
)

func TestSelectCategories(t *testing.T) {
	cats := catalog.Presets()

	t.Run("all skips elevated", func(t *testing.T) {
		got, err := selectCategories(cats, nil, true)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range got {
			if c.RequiresElevatedAccess {
				t.Errorf("%s requires elevated access but was selected", c.ID)
			}
		}
		if len(got) != 10 {
			t.Errorf("len = %d, want 10", len(got))
		}
	})

	t.Run("by id keeps order and dedupes", func(t *testing.T) {
		got, err := selectCategories(cats, []string{"homebrew", "trash", "homebrew"}, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 || got[0].ID != "homebrew" || got[1].ID != "trash" {
			t.Errorf("got %v", catalog.IDs(got))
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := selectCategories(cats, []string{"bogus"}, false)
		if err == nil {
			t.Fatal("expected error for unknown category")
		}
		if !strings.Contains(err.Error(), "trash") || !strings.Contains(err.Error(), "xcode-derived") {
			t.Errorf("error should list valid IDs: %v", err)
		}
	})

	t.Run("nothing requested", func(t *testing.T) {
		if _, err := selectCategories(cats, nil, false); err == nil {
			t.Error("expected error without IDs or --all")
		}
	})

	t.Run("all with ids", func(t *testing.T) {
		if _, err := selectCategories(cats, []string{"trash"}, true); err == nil {
			t.Error("expected error combining --all and IDs")
		}
	})
}

func TestRejectDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.DisabledCategories = []string{"homebrew"}

	if err := rejectDisabled(cfg, []string{"trash"}); err != nil {
		t.Errorf("enabled category rejected: %v", err)
	}
	if err := rejectDisabled(cfg, nil); err != nil {
		t.Errorf("no IDs rejected: %v", err)
	}
	err := rejectDisabled(cfg, []string{"trash", "homebrew"})
	if err == nil || !strings.Contains(err.Error(), `"homebrew" is disabled`) {
		t.Errorf("rejectDisabled = %v, want disabled error for homebrew", err)
	}
}

func TestTotalOf(t *testing.T) {
	snap := coordinator.Snapshot{Categories: []coordinator.CategoryState{
		{Category: catalog.Category{ID: "a"}, EstimatedBytes: sized(100)},
		{Category: catalog.Category{ID: "b"}, EstimatedBytes: sized(200)},
		{Category: catalog.Category{ID: "c"}},
	}}
	cats := []catalog.Category{{ID: "a"}, {ID: "c"}, {ID: "missing"}}
	if got := totalOf(snap, cats); got != 100 {
		t.Errorf("totalOf = %d, want 100", got)
	}
}

func TestCleanMethod(t *testing.T) {
	cfg := config.Default()
	if got := cleanMethod(cfg, false); got != "delete" {
		t.Errorf("cleanMethod = %q, want delete", got)
	}
	if got := cleanMethod(cfg, true); got != "trash" {
		t.Errorf("cleanMethod(toTrash) = %q, want trash", got)
	}
	cfg.Clean.Method = "shred"
	if got := cleanMethod(cfg, false); got != "delete" {
		t.Errorf("cleanMethod with invalid method = %q, want delete", got)
	}
}

func TestEnabledCategories(t *testing.T) {
	cfg := config.Default()
	cfg.DisabledCategories = []string{"trash", "homebrew"}
	got := enabledCategories(cfg)
	if len(got) != 13 {
		t.Errorf("len = %d, want 13", len(got))
	}
	for _, c := range got {
		if c.ID == "trash" || c.ID == "homebrew" {
			t.Errorf("%s should be disabled", c.ID)
		}
	}
}
