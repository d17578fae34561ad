//go:build linux

package platform

import (
	"fmt"
	"sync"

	"github.com/1broseidon/hoverdrag/internal/modifier"
	"github.com/1broseidon/hoverdrag/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection

	mu      sync.RWMutex
	mapping modifier.Mapping
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
// The modifier mapping is read from the server keymap.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn, mapping: conn.ModifierMapping()}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnectionForDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn), nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// Quit stops EventLoop.
func (b *LinuxBackend) Quit() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Mapping returns the modifier mapping used to decode pointer state.
func (b *LinuxBackend) Mapping() modifier.Mapping {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mapping
}

// SetMapping replaces the modifier mapping, e.g. after a config reload.
func (b *LinuxBackend) SetMapping(m modifier.Mapping) {
	b.mu.Lock()
	b.mapping = m
	b.mu.Unlock()
}

// DetectedMapping returns the mapping the server keymap implies.
func (b *LinuxBackend) DetectedMapping() modifier.Mapping {
	conn, err := b.connection()
	if err != nil {
		return modifier.DefaultMapping()
	}
	return conn.ModifierMapping()
}

// Sample queries the pointer position and the held modifiers. It is one
// round trip; the window beneath is resolved separately by WindowAt.
func (b *LinuxBackend) Sample() (Pointer, error) {
	conn, err := b.connection()
	if err != nil {
		return Pointer{}, err
	}

	state, err := conn.QueryPointer()
	if err != nil {
		return Pointer{}, err
	}

	return Pointer{
		X:         state.RootX,
		Y:         state.RootY,
		Modifiers: b.Mapping().FromState(state.Mask),
	}, nil
}

// WindowAt returns the movable managed client whose frame contains the root
// position, or 0 when there is none.
func (b *LinuxBackend) WindowAt(x, y int) (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	child, err := conn.ChildAt(x, y)
	if err != nil {
		return 0, err
	}
	client, ok := conn.ClientAt(child)
	if !ok || !conn.IsMovableWindow(client) {
		return 0, nil
	}
	return WindowID(client), nil
}

// Geometry returns the frame origin and client size of a window.
func (b *LinuxBackend) Geometry(windowID WindowID) (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}

	x, y, w, h, err := conn.WindowGeometry(xproto.Window(windowID))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	return conn.MoveResizeWindow(
		xproto.Window(windowID),
		bounds.X,
		bounds.Y,
		bounds.Width,
		bounds.Height,
	)
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}
