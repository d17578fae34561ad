package platform

import "github.com/1broseidon/hoverdrag/internal/modifier"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a window frame origin and client size in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Pointer is one sample of the pointer and the keyboard modifiers held with it.
type Pointer struct {
	X         int
	Y         int
	Modifiers modifier.Flags
}

// Backend abstracts the window-system operations hover dragging needs.
type Backend interface {
	Sample() (Pointer, error)
	// WindowAt returns the movable client at a root position, or 0.
	WindowAt(x, y int) (WindowID, error)
	Geometry(windowID WindowID) (Rect, error)
	MoveResize(windowID WindowID, bounds Rect) error
}
