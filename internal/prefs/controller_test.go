package prefs

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/1broseidon/hoverdrag/internal/modifier"
)

type fakeButton struct {
	checked bool
	renders int
}

func (b *fakeButton) SetChecked(checked bool) {
	b.checked = checked
	b.renders++
}

type failingStore struct {
	*MemoryStore
}

func (s failingStore) SetBool(Key, bool) error {
	return errors.New("disk full")
}

func newStandard(store Store) (*Controller, map[ButtonID]*fakeButton) {
	c := NewController(store)
	buttons := make(map[ButtonID]*fakeButton)
	c.RegisterStandard(func(k Key) Button {
		b := &fakeButton{}
		buttons[StandardID(k)] = b
		return b
	})
	return c, buttons
}

func TestController_OpenRendersStoredValues(t *testing.T) {
	store := NewMemoryStore()
	_ = WriteFlags(store, Resize, modifier.Alt|modifier.Fn)

	c, buttons := newStandard(store)
	c.Open()

	for id, b := range buttons {
		key, _ := c.Key(id)
		want := key.Gesture == Resize && (key.Modifier == modifier.Alt || key.Modifier == modifier.Fn)
		if b.checked != want {
			t.Fatalf("%s checked = %v, want %v", id, b.checked, want)
		}
		if b.renders != 1 {
			t.Fatalf("%s rendered %d times", id, b.renders)
		}
	}
}

func TestController_ClickTwiceRestoresAndTracksStore(t *testing.T) {
	store := NewMemoryStore()
	c, buttons := newStandard(store)
	c.Open()

	for _, key := range AllKeys() {
		id := StandardID(key)
		before, _ := store.Bool(key)

		c.ModifierClicked(id)
		after, _ := store.Bool(key)
		if after == before {
			t.Fatalf("%s: click did not flip stored value", id)
		}
		if buttons[id].checked != after {
			t.Fatalf("%s: button %v, store %v", id, buttons[id].checked, after)
		}

		c.ModifierClicked(id)
		restored, _ := store.Bool(key)
		if restored != before {
			t.Fatalf("%s: double click = %v, want %v", id, restored, before)
		}
		if buttons[id].checked != restored {
			t.Fatalf("%s: button %v, store %v", id, buttons[id].checked, restored)
		}
	}
}

func TestController_ClickTouchesOnlyItsKey(t *testing.T) {
	store := NewMemoryStore()
	c, _ := newStandard(store)

	c.ModifierClicked(StandardID(Key{Gesture: Resize, Modifier: modifier.Command}))

	for _, key := range AllKeys() {
		v, _ := store.Bool(key)
		want := key == Key{Gesture: Resize, Modifier: modifier.Command}
		if v != want {
			t.Fatalf("%s = %v, want %v", key, v, want)
		}
	}
}

func TestController_UnknownIDIsNoop(t *testing.T) {
	store := NewMemoryStore()
	c, buttons := newStandard(store)

	c.ModifierClicked("move.hyperdrive")

	for _, key := range AllKeys() {
		if v, _ := store.Bool(key); v {
			t.Fatalf("%s changed", key)
		}
	}
	for id, b := range buttons {
		if b.renders != 0 {
			t.Fatalf("%s re-rendered", id)
		}
	}
}

func TestController_WriteFailureKeepsButtonOnDurableValue(t *testing.T) {
	store := failingStore{NewMemoryStore()}
	c, buttons := newStandard(store)
	id := StandardID(Key{Gesture: Move, Modifier: modifier.Shift})

	c.ModifierClicked(id)

	if buttons[id].checked {
		t.Fatal("button shows a value that was never stored")
	}
}

func TestController_CustomRegistration(t *testing.T) {
	store := NewMemoryStore()
	c := NewController(store)
	b := &fakeButton{}
	c.Register("resize-cmd-button", Key{Gesture: Resize, Modifier: modifier.Command}, b)

	c.ModifierClicked("resize-cmd-button")

	resize, _ := ReadFlags(store, Resize)
	move, _ := ReadFlags(store, Move)
	if resize != modifier.Command || !move.IsEmpty() {
		t.Fatalf("move=%v resize=%v", move, resize)
	}
	if state, ok := c.State("resize-cmd-button"); !ok || !state {
		t.Fatalf("State = %v, %v", state, ok)
	}
}

func TestController_ClickUsesValueOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	mine, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	other, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	c, buttons := newStandard(mine)
	c.Open()

	key := Key{Gesture: Move, Modifier: modifier.Alt}
	id := StandardID(key)
	if err := other.SetBool(key, true); err != nil {
		t.Fatalf("SetBool: %v", err)
	}

	// The click flips the value another handle wrote, not the stale cache.
	c.ModifierClicked(id)
	if buttons[id].checked {
		t.Fatal("button should be unchecked after flipping the durable true")
	}
	if err := other.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got, _ := other.Bool(key); got {
		t.Fatal("file should hold false after the click")
	}

	if err := other.SetBool(Key{Gesture: Resize, Modifier: modifier.Fn}, true); err != nil {
		t.Fatalf("SetBool: %v", err)
	}
	c.Open()
	if !buttons[StandardID(Key{Gesture: Resize, Modifier: modifier.Fn})].checked {
		t.Fatal("Open should re-read the file")
	}
}
