package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// MoveResizeWindow asks the window manager to place a client window at the
// given frame origin and client size.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// Maximized windows ignore geometry requests on most WMs.
	_ = c.unmaximizeWindow(windowID)

	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			// Action 0 is _NET_WM_STATE_REMOVE.
			if err := ewmh.WmStateReq(c.XUtil, windowID, 0, state); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetFrameExtents returns the window decoration sizes (if available)
func (c *Connection) GetFrameExtents(windowID xproto.Window) (left, right, top, bottom int) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		return 0, 0, 0, 0
	}
	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom)
}

// IsMovableWindow reports whether a client window is a normal application
// window that is neither fullscreen nor a dock/desktop surface.
func (c *Connection) IsMovableWindow(windowID xproto.Window) bool {
	if types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID); err == nil {
		for _, t := range types {
			switch t {
			case "_NET_WM_WINDOW_TYPE_DESKTOP",
				"_NET_WM_WINDOW_TYPE_DOCK",
				"_NET_WM_WINDOW_TYPE_SPLASH",
				"_NET_WM_WINDOW_TYPE_NOTIFICATION":
				return false
			}
		}
	}
	if states, err := ewmh.WmStateGet(c.XUtil, windowID); err == nil {
		for _, s := range states {
			if s == "_NET_WM_STATE_FULLSCREEN" {
				return false
			}
		}
	}
	return true
}

// WindowGeometry returns the frame origin and client size of windowID in
// root coordinates.
func (c *Connection) WindowGeometry(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("get geometry of 0x%x: %w", uint32(windowID), err)
	}

	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("translate coordinates of 0x%x: %w", uint32(windowID), err)
	}

	left, _, top, _ := c.GetFrameExtents(windowID)
	return int(translate.DstX) - left, int(translate.DstY) - top, int(geom.Width), int(geom.Height), nil
}
