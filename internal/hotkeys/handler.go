package hotkeys

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Actions are the authority operations reachable from the keyboard.
type Actions interface {
	ToggleDisabled()
	ShowPreferences()
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	actions Actions
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler. backend must expose X11
// internals for registration to succeed.
func NewHandler(backend any, actions Actions) *Handler {
	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := backend.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}

	if xu != nil {
		ignoreModsOnce.Do(func() {
			configureIgnoreMods(xu)
		})
	}

	return &Handler{
		xu:      xu,
		root:    root,
		actions: actions,
	}
}

// RegisterToggle binds the enable/disable hotkey.
func (h *Handler) RegisterToggle(keySequence string) error {
	return h.RegisterFunc(keySequence, func() {
		log.Println("Toggle hotkey triggered")
		h.actions.ToggleDisabled()
	})
}

// RegisterPreferences binds the hotkey that opens the preferences window.
func (h *Handler) RegisterPreferences(keySequence string) error {
	return h.RegisterFunc(keySequence, func() {
		h.actions.ShowPreferences()
	})
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	if keySequence == "" {
		return fmt.Errorf("empty key sequence")
	}
	if h.xu == nil {
		return fmt.Errorf("hotkeys need an X11 backend")
	}
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	xevent.IgnoreMods = ignoreMasks(
		uint16(xproto.ModMaskLock),
		modMaskForKeysym(xu, "Num_Lock"),
		modMaskForKeysym(xu, "Scroll_Lock"),
	)
}

// ignoreMasks returns every combination of the lock modifiers, including
// none, so a grab fires whether or not CapsLock/NumLock/ScrollLock is on.
func ignoreMasks(caps, numLock, scrollLock uint16) []uint16 {
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	unique := map[uint16]struct{}{0: {}}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}
	sort.Slice(ignore, func(i, j int) bool { return ignore[i] < ignore[j] })
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
