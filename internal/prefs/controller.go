package prefs

import (
	"log"
	"sync"
)

// ButtonID identifies a toggle button in a preferences window.
type ButtonID string

// Button is a checkable control that mirrors one persisted key.
type Button interface {
	SetChecked(checked bool)
}

type binding struct {
	key    Key
	button Button
}

// Controller binds preference buttons to store keys. Each click is a
// read-modify-write of exactly one key.
type Controller struct {
	store Store

	mu       sync.Mutex
	order    []ButtonID
	bindings map[ButtonID]binding
}

// NewController returns a controller over store with no buttons registered.
func NewController(store Store) *Controller {
	return &Controller{
		store:    store,
		bindings: make(map[ButtonID]binding),
	}
}

// StandardID returns the button id RegisterStandard uses for key.
func StandardID(key Key) ButtonID {
	return ButtonID(key.String())
}

// Register binds id to key. Re-registering an id replaces its binding.
func (c *Controller) Register(id ButtonID, key Key, button Button) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.bindings[id]; !exists {
		c.order = append(c.order, id)
	}
	c.bindings[id] = binding{key: key, button: button}
}

// RegisterStandard registers one button per persisted key, created by newButton.
func (c *Controller) RegisterStandard(newButton func(Key) Button) {
	for _, key := range AllKeys() {
		c.Register(StandardID(key), key, newButton(key))
	}
}

// IDs returns the registered button ids in registration order.
func (c *Controller) IDs() []ButtonID {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ButtonID, len(c.order))
	copy(out, c.order)
	return out
}

// Key returns the key bound to id.
func (c *Controller) Key(id ButtonID) (Key, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.bindings[id]
	return b.key, ok
}

// Open syncs every button from the store, re-reading a file-backed store
// first. Call before the window is shown and to refresh it.
func (c *Controller) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshLocked()
	for _, id := range c.order {
		b := c.bindings[id]
		b.button.SetChecked(c.readLocked(b.key))
	}
}

// State returns the durable value behind id.
func (c *Controller) State(id ButtonID) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.bindings[id]
	if !ok {
		return false, false
	}
	c.refreshLocked()
	return c.readLocked(b.key), true
}

// ModifierClicked flips the key bound to id and re-renders its button from
// the store. Unknown ids are ignored.
func (c *Controller) ModifierClicked(id ButtonID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.bindings[id]
	if !ok {
		return
	}

	c.refreshLocked()
	current := c.readLocked(b.key)
	if err := c.store.SetBool(b.key, !current); err != nil {
		log.Printf("Warning: prefs: failed to save %s: %v", b.key, err)
	}
	b.button.SetChecked(c.readLocked(b.key))
}

// refreshLocked picks up writes made through other handles on the same file.
func (c *Controller) refreshLocked() {
	r, ok := c.store.(Reloader)
	if !ok {
		return
	}
	if err := r.Reload(); err != nil {
		log.Printf("Warning: prefs: reload failed: %v", err)
	}
}

func (c *Controller) readLocked(key Key) bool {
	v, err := c.store.Bool(key)
	if err != nil {
		log.Printf("Warning: prefs: failed to read %s: %v", key, err)
		return false
	}
	return v
}
