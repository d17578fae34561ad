package tray

import (
	"testing"

	"github.com/1broseidon/hoverdrag/internal/authority"
	"github.com/1broseidon/hoverdrag/internal/modifier"
)

func TestTooltip(t *testing.T) {
	tests := []struct {
		state authority.State
		want  string
	}{
		{authority.State{Enabled: false, Move: modifier.Control}, "hoverdrag: disabled"},
		{authority.State{Enabled: true}, "hoverdrag: move off, resize off"},
		{
			authority.State{
				Enabled: true,
				Move:    modifier.Control | modifier.Command,
				Resize:  modifier.Control | modifier.Command | modifier.Shift,
			},
			"hoverdrag: move command+control, resize command+control+shift",
		},
	}
	for _, tt := range tests {
		if got := Tooltip(tt.state); got != tt.want {
			t.Fatalf("Tooltip(%+v) = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestMenuTitles(t *testing.T) {
	seen := map[string]bool{}
	for _, tag := range menuOrder {
		title := tag.Title()
		if title == "" || seen[title] {
			t.Fatalf("bad or duplicate title %q for %v", title, tag)
		}
		seen[title] = true
	}
	if len(menuOrder) != len(modifier.All) {
		t.Fatalf("menu lists %d modifiers, want %d", len(menuOrder), len(modifier.All))
	}
}
