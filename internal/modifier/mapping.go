package modifier

import (
	"fmt"
	"strings"
)

// X11 core modifier masks (KeyButMask values).
const (
	MaskShift   uint16 = 1 << 0
	MaskLock    uint16 = 1 << 1
	MaskControl uint16 = 1 << 2
	Mask1       uint16 = 1 << 3
	Mask2       uint16 = 1 << 4
	Mask3       uint16 = 1 << 5
	Mask4       uint16 = 1 << 6
	Mask5       uint16 = 1 << 7
)

// Mapping translates between X11 modifier state masks and Flags.
type Mapping struct {
	Alt     uint16
	Command uint16
	Control uint16
	Fn      uint16
	Shift   uint16
}

// DefaultMapping is the layout used by most X keymaps.
func DefaultMapping() Mapping {
	return Mapping{
		Alt:     Mask1,
		Command: Mask4,
		Control: MaskControl,
		Fn:      Mask3,
		Shift:   MaskShift,
	}
}

func (m Mapping) pairs() []struct {
	flag Flags
	mask uint16
} {
	return []struct {
		flag Flags
		mask uint16
	}{
		{Alt, m.Alt},
		{Command, m.Command},
		{Control, m.Control},
		{Fn, m.Fn},
		{Shift, m.Shift},
	}
}

// FromState converts an X11 key/button state into the held modifier set.
// Mask bits that no modifier is mapped to are dropped.
func (m Mapping) FromState(state uint16) Flags {
	var out Flags
	for _, p := range m.pairs() {
		if p.mask != 0 && state&p.mask != 0 {
			out |= p.flag
		}
	}
	return out
}

// Mask converts a modifier set into an X11 modifier mask.
func (m Mapping) Mask(f Flags) uint16 {
	var out uint16
	for _, p := range m.pairs() {
		if f.Has(p.flag) {
			out |= p.mask
		}
	}
	return out
}

// With returns a copy of m with one modifier mapped to mask.
func (m Mapping) With(f Flags, mask uint16) Mapping {
	switch f {
	case Alt:
		m.Alt = mask
	case Command:
		m.Command = mask
	case Control:
		m.Control = mask
	case Fn:
		m.Fn = mask
	case Shift:
		m.Shift = mask
	}
	return m
}

// ParseMask resolves an X11 modifier mask name such as "mod4" or "control".
func ParseMask(name string) (uint16, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "shift":
		return MaskShift, nil
	case "lock":
		return MaskLock, nil
	case "control", "ctrl":
		return MaskControl, nil
	case "mod1":
		return Mask1, nil
	case "mod2":
		return Mask2, nil
	case "mod3":
		return Mask3, nil
	case "mod4":
		return Mask4, nil
	case "mod5":
		return Mask5, nil
	default:
		return 0, fmt.Errorf("unknown modifier mask %q", name)
	}
}
