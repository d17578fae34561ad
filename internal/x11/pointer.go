package x11

import (
	"fmt"

	"github.com/1broseidon/hoverdrag/internal/modifier"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// PointerState is a single QueryPointer sample.
type PointerState struct {
	RootX int
	RootY int
	// Mask is the core key/button state (modifier and button bits).
	Mask uint16
}

// QueryPointer samples pointer position and modifier state on the root window.
func (c *Connection) QueryPointer() (PointerState, error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return PointerState{}, fmt.Errorf("query pointer: %w", err)
	}
	return PointerState{
		RootX: int(reply.RootX),
		RootY: int(reply.RootY),
		Mask:  reply.Mask,
	}, nil
}

// ModifierMapping reads which modifier masks Alt, Super and Hyper are bound
// to in the current keymap, falling back to the usual layout.
func (c *Connection) ModifierMapping() modifier.Mapping {
	m := modifier.DefaultMapping()
	if mask := c.ModMaskForKeysym("Alt_L"); mask != 0 {
		m.Alt = mask
	}
	if mask := c.ModMaskForKeysym("Super_L"); mask != 0 {
		m.Command = mask
	}
	if mask := c.ModMaskForKeysym("Hyper_L"); mask != 0 && mask != m.Command {
		m.Fn = mask
	}
	return m
}

// ChildAt returns the top-level root child containing the root position.
func (c *Connection) ChildAt(x, y int) (xproto.Window, error) {
	reply, err := xproto.TranslateCoordinates(c.XUtil.Conn(), c.Root, c.Root, int16(x), int16(y)).Reply()
	if err != nil {
		return 0, fmt.Errorf("translate coordinates (%d,%d): %w", x, y, err)
	}
	return reply.Child, nil
}

// ClientAt returns the managed client window whose top-level ancestor is
// child. Unmanaged (override-redirect) windows and the root are rejected.
func (c *Connection) ClientAt(child xproto.Window) (xproto.Window, bool) {
	if child == 0 || child == c.Root {
		return 0, false
	}

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return 0, false
	}
	for _, client := range clients {
		if client == child {
			return client, true
		}
	}
	for _, client := range clients {
		top, err := c.topLevel(client)
		if err != nil {
			continue
		}
		if top == child {
			return client, true
		}
	}
	return 0, false
}

// topLevel walks up from w to the ancestor whose parent is the root.
func (c *Connection) topLevel(w xproto.Window) (xproto.Window, error) {
	const maxDepth = 16
	for i := 0; i < maxDepth; i++ {
		tree, err := xproto.QueryTree(c.XUtil.Conn(), w).Reply()
		if err != nil {
			return 0, err
		}
		if tree.Parent == c.Root || tree.Parent == 0 {
			return w, nil
		}
		w = tree.Parent
	}
	return 0, fmt.Errorf("window tree deeper than %d", maxDepth)
}
