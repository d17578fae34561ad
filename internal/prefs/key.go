// Package prefs persists which modifiers arm each gesture and backs the
// preferences window's toggle buttons.
package prefs

import (
	"fmt"
	"strings"

	"github.com/1broseidon/hoverdrag/internal/modifier"
)

// Gesture is a pointer gesture that a modifier set can arm.
type Gesture int

const (
	Move Gesture = iota
	Resize
)

// Gestures lists every gesture in display order.
var Gestures = []Gesture{Move, Resize}

func (g Gesture) String() string {
	switch g {
	case Move:
		return "move"
	case Resize:
		return "resize"
	default:
		return fmt.Sprintf("gesture(%d)", int(g))
	}
}

// ParseGesture resolves "move" or "resize".
func ParseGesture(s string) (Gesture, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "move":
		return Move, nil
	case "resize":
		return Resize, nil
	default:
		return 0, fmt.Errorf("unknown gesture %q (want move or resize)", s)
	}
}

// Key names one persisted boolean: whether Modifier is part of Gesture's set.
type Key struct {
	Gesture  Gesture
	Modifier modifier.Flags
}

// String returns the stable store name, e.g. "move.alt".
func (k Key) String() string {
	return k.Gesture.String() + "." + k.Modifier.Name()
}

// Valid reports whether k names one of the ten persisted keys.
func (k Key) Valid() bool {
	return (k.Gesture == Move || k.Gesture == Resize) && k.Modifier.IsSingle()
}

// ParseKey resolves a store name such as "resize.shift".
func ParseKey(s string) (Key, error) {
	gesture, mod, ok := strings.Cut(s, ".")
	if !ok {
		return Key{}, fmt.Errorf("invalid preference key %q", s)
	}
	g, err := ParseGesture(gesture)
	if err != nil {
		return Key{}, err
	}
	m, err := modifier.Parse(mod)
	if err != nil {
		return Key{}, err
	}
	return Key{Gesture: g, Modifier: m}, nil
}

// AllKeys returns the ten persisted keys, move first.
func AllKeys() []Key {
	keys := make([]Key, 0, len(Gestures)*len(modifier.All))
	for _, g := range Gestures {
		for _, m := range modifier.All {
			keys = append(keys, Key{Gesture: g, Modifier: m})
		}
	}
	return keys
}
