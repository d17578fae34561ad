// Package authority owns the live modifier configuration and the global
// enable switch that the tracker, tray menu and IPC server all consult.
package authority

import (
	"log"
	"sync"
	"time"

	"github.com/1broseidon/hoverdrag/internal/modifier"
	"github.com/1broseidon/hoverdrag/internal/prefs"
)

const (
	// DefaultMoveFilterInterval is the minimum time between applied move updates.
	DefaultMoveFilterInterval = 10 * time.Millisecond
	// DefaultResizeFilterInterval is the minimum time between applied resize updates.
	DefaultResizeFilterInterval = 20 * time.Millisecond
)

// MenuItem is a checkable menu entry.
type MenuItem interface {
	SetChecked(checked bool)
}

// State is a point-in-time view of the configuration.
type State struct {
	Move    modifier.Flags
	Resize  modifier.Flags
	Enabled bool
}

// Options configures a new Authority.
type Options struct {
	MoveDefaults   modifier.Flags
	ResizeDefaults modifier.Flags
	StartDisabled  bool
	// ShowPreferences opens the preferences window.
	ShowPreferences func()
}

// Authority is the in-memory view of the modifier configuration. The
// preferences store is the source of truth: the Authority loads from it at
// construction, writes every change through, and re-reads on Reload.
type Authority struct {
	store prefs.Store

	mu           sync.Mutex
	move         modifier.Flags
	resize       modifier.Flags
	enabled      bool
	defaults     State
	items        map[modifier.Flags]MenuItem
	disabledItem MenuItem
	showPrefs    func()
	listeners    []func(State)
}

// New loads the current sets from store. A store that cannot be read leaves
// both sets empty.
func New(store prefs.Store, opts Options) *Authority {
	a := &Authority{
		store:   store,
		enabled: !opts.StartDisabled,
		defaults: State{
			Move:   opts.MoveDefaults,
			Resize: opts.ResizeDefaults,
		},
		items:     make(map[modifier.Flags]MenuItem),
		showPrefs: opts.ShowPreferences,
	}
	a.move, a.resize = a.load()
	return a
}

func (a *Authority) load() (modifier.Flags, modifier.Flags) {
	move, err := prefs.ReadFlags(a.store, prefs.Move)
	if err != nil {
		log.Printf("Warning: failed to read move modifiers: %v", err)
		move = modifier.None
	}
	resize, err := prefs.ReadFlags(a.store, prefs.Resize)
	if err != nil {
		log.Printf("Warning: failed to read resize modifiers: %v", err)
		resize = modifier.None
	}
	return move, resize
}

// ModifierFlags returns the modifier bitmask that arms a move.
func (a *Authority) ModifierFlags() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return int(a.move)
}

// Flags returns the set armed for gesture g.
func (a *Authority) Flags(g prefs.Gesture) modifier.Flags {
	a.mu.Lock()
	defer a.mu.Unlock()
	if g == prefs.Resize {
		return a.resize
	}
	return a.move
}

// Enabled reports whether gestures are currently active.
func (a *Authority) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

// Snapshot returns the current state.
func (a *Authority) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stateLocked()
}

// Defaults returns the sets ResetModifiersToDefaults applies.
func (a *Authority) Defaults() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.defaults
}

// SetDefaults replaces the reset targets, e.g. after a config reload.
func (a *Authority) SetDefaults(move, resize modifier.Flags) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.defaults.Move = move
	a.defaults.Resize = resize
}

// SetPreferencesOpener replaces the function ShowPreferences calls.
func (a *Authority) SetPreferencesOpener(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.showPrefs = fn
}

// BindMenuItem associates a single-modifier tag with its menu item.
// Tags that are not exactly one modifier are ignored.
func (a *Authority) BindMenuItem(tag modifier.Flags, item MenuItem) {
	if !tag.IsSingle() || item == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items[tag] = item
}

// BindDisabledItem associates the "Disabled" menu item.
func (a *Authority) BindDisabledItem(item MenuItem) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.disabledItem = item
}

// Subscribe registers fn to run after every change.
func (a *Authority) Subscribe(fn func(State)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// InitModifierMenuItems renders every bound item from the current state.
func (a *Authority) InitModifierMenuItems() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.renderLocked()
}

// ModifierToggle flips one modifier in the move set. Tags that are not
// exactly one known modifier are ignored.
func (a *Authority) ModifierToggle(tag modifier.Flags) {
	if !tag.IsSingle() {
		return
	}

	a.mu.Lock()
	a.move = a.move.Toggle(tag)
	key := prefs.Key{Gesture: prefs.Move, Modifier: tag}
	if err := a.store.SetBool(key, a.move.Has(tag)); err != nil {
		log.Printf("Warning: failed to save %s: %v", key, err)
	}
	if item, ok := a.items[tag]; ok {
		item.SetChecked(a.move.Has(tag))
	}
	state, listeners := a.stateLocked(), a.listenersLocked()
	a.mu.Unlock()

	notify(listeners, state)
}

// ResetModifiersToDefaults sets both gestures back to their default sets.
func (a *Authority) ResetModifiersToDefaults() {
	a.mu.Lock()
	a.move = a.defaults.Move
	a.resize = a.defaults.Resize
	if err := prefs.WriteFlags(a.store, prefs.Move, a.move); err != nil {
		log.Printf("Warning: failed to save move modifiers: %v", err)
	}
	if err := prefs.WriteFlags(a.store, prefs.Resize, a.resize); err != nil {
		log.Printf("Warning: failed to save resize modifiers: %v", err)
	}
	a.renderLocked()
	state, listeners := a.stateLocked(), a.listenersLocked()
	a.mu.Unlock()

	notify(listeners, state)
}

// ToggleDisabled flips the global enable switch. Modifier sets are untouched.
func (a *Authority) ToggleDisabled() {
	a.mu.Lock()
	a.enabled = !a.enabled
	if a.disabledItem != nil {
		a.disabledItem.SetChecked(!a.enabled)
	}
	state, listeners := a.stateLocked(), a.listenersLocked()
	a.mu.Unlock()

	notify(listeners, state)
}

// ShowPreferences opens the preferences window if an opener is set.
func (a *Authority) ShowPreferences() {
	a.mu.Lock()
	open := a.showPrefs
	a.mu.Unlock()
	if open != nil {
		open()
	}
}

// Reload re-reads both sets from the store, typically after the preferences
// file changed on disk.
func (a *Authority) Reload() {
	move, resize := a.load()

	a.mu.Lock()
	changed := move != a.move || resize != a.resize
	a.move, a.resize = move, resize
	a.renderLocked()
	state, listeners := a.stateLocked(), a.listenersLocked()
	a.mu.Unlock()

	if changed {
		notify(listeners, state)
	}
}

func (a *Authority) renderLocked() {
	for tag, item := range a.items {
		item.SetChecked(a.move.Has(tag))
	}
	if a.disabledItem != nil {
		a.disabledItem.SetChecked(!a.enabled)
	}
}

func (a *Authority) stateLocked() State {
	return State{Move: a.move, Resize: a.resize, Enabled: a.enabled}
}

func (a *Authority) listenersLocked() []func(State) {
	out := make([]func(State), len(a.listeners))
	copy(out, a.listeners)
	return out
}

func notify(listeners []func(State), state State) {
	for _, fn := range listeners {
		fn(state)
	}
}
