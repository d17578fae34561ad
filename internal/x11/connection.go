package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection connects to $DISPLAY.
func NewConnection() (*Connection, error) {
	return NewConnectionForDisplay("")
}

// NewConnectionForDisplay connects to the named display, or $DISPLAY when empty.
func NewConnectionForDisplay(display string) (*Connection, error) {
	var (
		xu  *xgbutil.XUtil
		err error
	)
	if display == "" {
		xu, err = xgbutil.NewConn()
	} else {
		xu, err = xgbutil.NewConnDisplay(display)
	}
	if err != nil {
		return nil, err
	}

	// Required for global hotkeys and keysym -> modifier lookups.
	keybind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// EventLoop starts the main X11 event loop (blocking)
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit stops a running EventLoop.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

// ModMaskForKeysym returns the modifier mask a keysym is bound to, or 0.
func (c *Connection) ModMaskForKeysym(keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(c.XUtil, keysym) {
		if mask := keybind.ModGet(c.XUtil, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
