package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/hoverdrag/internal/modifier"
	"github.com/1broseidon/hoverdrag/internal/prefs"
)

func press(m model, keys ...tea.KeyMsg) model {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(model)
	}
	return m
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestGridRendersStoredValues(t *testing.T) {
	store := prefs.NewMemoryStore()
	if err := prefs.WriteFlags(store, prefs.Resize, modifier.Shift); err != nil {
		t.Fatal(err)
	}

	m := newModel(store, nil)
	if !m.grid.cells[prefs.Key{Gesture: prefs.Resize, Modifier: modifier.Shift}].checked {
		t.Fatal("resize.shift should render checked")
	}
	if m.grid.cells[prefs.Key{Gesture: prefs.Move, Modifier: modifier.Shift}].checked {
		t.Fatal("move.shift should render unchecked")
	}
	if !strings.Contains(m.View(), "daemon not running") {
		t.Fatal("view should report the daemon as not running")
	}
}

func TestToggleWritesThrough(t *testing.T) {
	store := prefs.NewMemoryStore()
	m := newModel(store, nil)

	// modifier.All[1] is Command; column 1 is resize.
	m = press(m, keyDown, keyRight, keyEnter)
	resize, _ := prefs.ReadFlags(store, prefs.Resize)
	if resize != modifier.Command {
		t.Fatalf("resize = %v, want command", resize)
	}
	if m.message != "resize.command on" {
		t.Fatalf("message = %q", m.message)
	}

	m = press(m, runes("x"))
	resize, _ = prefs.ReadFlags(store, prefs.Resize)
	if !resize.IsEmpty() {
		t.Fatalf("resize = %v after second toggle", resize)
	}
}

func TestReloadPicksUpExternalWrites(t *testing.T) {
	store := prefs.NewMemoryStore()
	m := newModel(store, nil)

	if err := store.SetBool(prefs.Key{Gesture: prefs.Move, Modifier: modifier.Alt}, true); err != nil {
		t.Fatal(err)
	}
	m = press(m, runes("r"))
	if !m.grid.cells[prefs.Key{Gesture: prefs.Move, Modifier: modifier.Alt}].checked {
		t.Fatal("reload should re-render from the store")
	}
}

func TestReloadRereadsPrefsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	store, err := prefs.OpenFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	external, err := prefs.OpenFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	m := newModel(store, nil)

	moveAlt := prefs.Key{Gesture: prefs.Move, Modifier: modifier.Alt}
	if err := external.SetBool(moveAlt, true); err != nil {
		t.Fatal(err)
	}
	m = press(m, runes("r"))
	if !m.grid.cells[moveAlt].checked {
		t.Fatal("r should show the value written by another process")
	}

	// Toggling another cell keeps the external write.
	m = press(m, keyRight, keyEnter)
	if err := external.Reload(); err != nil {
		t.Fatal(err)
	}
	if on, _ := external.Bool(moveAlt); !on {
		t.Fatal("toggling resize.alt reverted move.alt")
	}
	if on, _ := external.Bool(prefs.Key{Gesture: prefs.Resize, Modifier: modifier.Alt}); !on {
		t.Fatal("resize.alt should be on")
	}
}

func TestResetWithoutDaemon(t *testing.T) {
	m := press(newModel(prefs.NewMemoryStore(), nil), runes("R"))
	if !strings.Contains(m.message, "needs the daemon") {
		t.Fatalf("message = %q", m.message)
	}
}

func TestNavigationWraps(t *testing.T) {
	m := newModel(prefs.NewMemoryStore(), nil)
	m = press(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.row != len(modifier.All)-1 {
		t.Fatalf("row = %d after wrapping up", m.row)
	}
	m = press(m, keyRight, keyRight)
	if m.col != 0 {
		t.Fatalf("col = %d after two rights", m.col)
	}
}

func TestApplySetup(t *testing.T) {
	store := prefs.NewMemoryStore()
	if err := applySetup(store, []string{"alt"}, []string{"alt", "shift"}); err != nil {
		t.Fatalf("applySetup: %v", err)
	}
	move, _ := prefs.ReadFlags(store, prefs.Move)
	resize, _ := prefs.ReadFlags(store, prefs.Resize)
	if move != modifier.Alt || resize != modifier.Alt|modifier.Shift {
		t.Fatalf("move = %v, resize = %v", move, resize)
	}

	if err := applySetup(store, []string{"ctrl"}, []string{"control"}); err == nil {
		t.Fatal("expected identical sets to be rejected")
	}
	if err := applySetup(store, []string{"meta"}, nil); err == nil {
		t.Fatal("expected unknown modifier to be rejected")
	}
}
