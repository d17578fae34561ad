package hotkeys

import (
	"reflect"
	"testing"
)

func TestIgnoreMasks(t *testing.T) {
	tests := []struct {
		name              string
		caps, num, scroll uint16
		want              []uint16
	}{
		{"caps only", 2, 0, 0, []uint16{0, 2}},
		{"caps and numlock", 2, 16, 0, []uint16{0, 2, 16, 18}},
		{"all three", 2, 16, 128, []uint16{0, 2, 16, 18, 128, 130, 144, 146}},
		{"numlock aliases caps", 2, 2, 0, []uint16{0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ignoreMasks(tt.caps, tt.num, tt.scroll)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ignoreMasks = %v, want %v", got, tt.want)
			}
		})
	}
}

type noopActions struct{}

func (noopActions) ToggleDisabled()  {}
func (noopActions) ShowPreferences() {}

func TestRegisterWithoutX11Fails(t *testing.T) {
	h := NewHandler(nil, noopActions{})
	if err := h.RegisterToggle("Mod4-Mod1-d"); err == nil {
		t.Fatal("expected error without an X11 backend")
	}
	if err := h.RegisterPreferences(""); err == nil {
		t.Fatal("expected error for empty key sequence")
	}
}
