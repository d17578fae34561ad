// Package dialog shows the preferences window as native checklists.
package dialog

import (
	"errors"
	"fmt"

	"github.com/1broseidon/hoverdrag/internal/modifier"
	"github.com/1broseidon/hoverdrag/internal/prefs"
	"github.com/ncruces/zenity"
)

// checkbox records the state the controller renders into it.
type checkbox struct {
	checked bool
}

func (c *checkbox) SetChecked(checked bool) { c.checked = checked }

// Window is a preferences window backed by a prefs.Controller.
type Window struct {
	ctrl  *prefs.Controller
	boxes map[prefs.Key]*checkbox
	// list is swapped out in tests.
	list func(title, text string, items, defaults []string) ([]string, error)
}

// New registers one checkbox per persisted key on a fresh controller over store.
func New(store prefs.Store) *Window {
	w := &Window{
		ctrl:  prefs.NewController(store),
		boxes: make(map[prefs.Key]*checkbox),
		list:  zenityList,
	}
	w.ctrl.RegisterStandard(func(k prefs.Key) prefs.Button {
		box := &checkbox{}
		w.boxes[k] = box
		return box
	})
	return w
}

// Controller returns the controller behind the window.
func (w *Window) Controller() *prefs.Controller {
	return w.ctrl
}

// Show asks for the move set and then the resize set. Every checkbox that
// changed is applied as a click. Cancelling either list leaves the store
// untouched for that gesture.
func (w *Window) Show() error {
	w.ctrl.Open()

	for _, g := range prefs.Gestures {
		items, defaults := w.options(g)
		selected, err := w.list(
			"hoverdrag preferences",
			fmt.Sprintf("Modifiers that %s the window under the pointer:", g),
			items, defaults,
		)
		if errors.Is(err, zenity.ErrCanceled) {
			continue
		}
		if err != nil {
			return fmt.Errorf("preferences dialog: %w", err)
		}
		for _, id := range w.clicks(g, selected) {
			w.ctrl.ModifierClicked(id)
		}
	}
	return nil
}

func (w *Window) options(g prefs.Gesture) (items, defaults []string) {
	for _, m := range modifier.All {
		title := m.Title()
		items = append(items, title)
		if w.boxes[prefs.Key{Gesture: g, Modifier: m}].checked {
			defaults = append(defaults, title)
		}
	}
	return items, defaults
}

// clicks returns the buttons whose rendered state differs from selected.
func (w *Window) clicks(g prefs.Gesture, selected []string) []prefs.ButtonID {
	want := make(map[string]bool, len(selected))
	for _, s := range selected {
		want[s] = true
	}

	var ids []prefs.ButtonID
	for _, m := range modifier.All {
		key := prefs.Key{Gesture: g, Modifier: m}
		if w.boxes[key].checked != want[m.Title()] {
			ids = append(ids, prefs.StandardID(key))
		}
	}
	return ids
}

func zenityList(title, text string, items, defaults []string) ([]string, error) {
	return zenity.ListMultiple(text, items,
		zenity.Title(title),
		zenity.CheckList(),
		zenity.DefaultItems(defaults...),
	)
}

// ShowError shows an error message.
func ShowError(title, message string) {
	zenity.Error(message, zenity.Title(title))
}
