// Package modifier models the modifier-key sets that arm move and resize gestures.
package modifier

import (
	"fmt"
	"strings"
)

// Flags is a bitmask of modifier keys.
type Flags uint32

const (
	// Alt is the Alt key (Option on Apple keyboards).
	Alt Flags = 1 << iota
	// Command is the Command key, Super/logo on X11.
	Command
	// Control is the Control key.
	Control
	// Fn is the Function key, mapped to Hyper on X11.
	Fn
	// Shift is the Shift key.
	Shift
)

// None is the empty set.
const None Flags = 0

// Known is the union of every modifier hoverdrag understands.
const Known = Alt | Command | Control | Fn | Shift

// All lists the single-key modifiers in canonical order.
var All = []Flags{Alt, Command, Control, Fn, Shift}

var names = map[Flags]string{
	Alt:     "alt",
	Command: "command",
	Control: "control",
	Fn:      "fn",
	Shift:   "shift",
}

var aliases = map[string]Flags{
	"alt":     Alt,
	"option":  Alt,
	"opt":     Alt,
	"mod1":    Alt,
	"command": Command,
	"cmd":     Command,
	"super":   Command,
	"win":     Command,
	"mod4":    Command,
	"control": Control,
	"ctrl":    Control,
	"fn":      Fn,
	"hyper":   Fn,
	"mod3":    Fn,
	"shift":   Shift,
}

// Has reports whether every modifier in m2 is in m.
func (m Flags) Has(m2 Flags) bool {
	return m&m2 == m2
}

// Toggle flips membership of every modifier in m2.
func (m Flags) Toggle(m2 Flags) Flags {
	return m ^ (m2 & Known)
}

// IsEmpty reports whether no known modifier is set.
func (m Flags) IsEmpty() bool {
	return m&Known == 0
}

// IsSingle reports whether m is exactly one known modifier.
func (m Flags) IsSingle() bool {
	_, ok := names[m]
	return ok
}

// ExclusivelySetIn reports whether the held modifiers are exactly m.
// Bits outside Known (lock keys, pointer buttons) are ignored.
func (m Flags) ExclusivelySetIn(held Flags) bool {
	if m.IsEmpty() {
		return false
	}
	return held&Known == m&Known
}

// Names returns the names of the set modifiers in canonical order.
func (m Flags) Names() []string {
	out := make([]string, 0, len(All))
	for _, f := range All {
		if m.Has(f) {
			out = append(out, names[f])
		}
	}
	return out
}

// Name returns the name of a single modifier, or "" when m is not exactly one.
func (m Flags) Name() string {
	return names[m]
}

// Title is a human label for a single modifier, naming both the X11 key
// and its Mac counterpart.
func (m Flags) Title() string {
	switch m {
	case Alt:
		return "Alt (Option)"
	case Command:
		return "Super (Command)"
	case Control:
		return "Control"
	case Fn:
		return "Hyper (Fn)"
	case Shift:
		return "Shift"
	default:
		return m.String()
	}
}

func (m Flags) String() string {
	if m.IsEmpty() {
		return "none"
	}
	return strings.Join(m.Names(), " ")
}

// Parse resolves a single modifier name or alias.
func Parse(name string) (Flags, error) {
	f, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return None, fmt.Errorf("unknown modifier %q", name)
	}
	return f, nil
}

// ParseList resolves a list of modifier names into a set.
func ParseList(list []string) (Flags, error) {
	var out Flags
	for _, name := range list {
		f, err := Parse(name)
		if err != nil {
			return None, err
		}
		out |= f
	}
	return out, nil
}
