// Package tray provides the status-bar menu.
package tray

import (
	_ "embed"
	"strings"

	"github.com/1broseidon/hoverdrag/internal/authority"
	"github.com/1broseidon/hoverdrag/internal/modifier"
	"github.com/getlantern/systray"
)

//go:embed icon.png
var icon []byte

// Authority is the subset of the modifier authority the menu drives.
type Authority interface {
	BindMenuItem(tag modifier.Flags, item authority.MenuItem)
	BindDisabledItem(item authority.MenuItem)
	InitModifierMenuItems()
	ModifierToggle(tag modifier.Flags)
	ResetModifiersToDefaults()
	ToggleDisabled()
	ShowPreferences()
	Subscribe(fn func(authority.State))
	Snapshot() authority.State
}

// Callbacks holds handlers for menu entries the authority does not own.
type Callbacks struct {
	OnQuit func()
}

// checkItem adapts a systray checkbox to authority.MenuItem.
type checkItem struct {
	item *systray.MenuItem
}

func (c checkItem) SetChecked(checked bool) {
	if checked {
		c.item.Check()
	} else {
		c.item.Uncheck()
	}
}

type modifierItem struct {
	tag  modifier.Flags
	item *systray.MenuItem
}

// Tray owns the status icon and its menu.
type Tray struct {
	auth      Authority
	callbacks Callbacks

	status    *systray.MenuItem
	modifiers []modifierItem
	disabled  *systray.MenuItem
	prefsBtn  *systray.MenuItem
	resetBtn  *systray.MenuItem
	quitBtn   *systray.MenuItem
}

// New creates a Tray bound to auth.
func New(auth Authority, callbacks Callbacks) *Tray {
	return &Tray{auth: auth, callbacks: callbacks}
}

// Run starts the tray. It blocks and must be called from the main goroutine.
func (t *Tray) Run(onReady func()) {
	systray.Run(func() {
		t.onReady()
		if onReady != nil {
			onReady()
		}
	}, t.onExit)
}

// Quit closes the tray and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetIcon(icon)
	systray.SetTitle("hoverdrag")

	t.status = systray.AddMenuItem("", "")
	t.status.Disable()
	systray.AddSeparator()

	for _, tag := range menuOrder {
		item := systray.AddMenuItemCheckbox(tag.Title(), "Hold to move the window under the pointer", false)
		t.modifiers = append(t.modifiers, modifierItem{tag: tag, item: item})
		t.auth.BindMenuItem(tag, checkItem{item: item})
	}

	systray.AddSeparator()
	t.disabled = systray.AddMenuItemCheckbox("Disabled", "Ignore all modifier gestures", false)
	t.auth.BindDisabledItem(checkItem{item: t.disabled})
	t.resetBtn = systray.AddMenuItem("Reset to Defaults", "Restore the configured default modifiers")
	t.prefsBtn = systray.AddMenuItem("Preferences…", "Edit move and resize modifiers")

	systray.AddSeparator()
	t.quitBtn = systray.AddMenuItem("Quit", "Stop hoverdrag")

	t.auth.InitModifierMenuItems()
	t.render(t.auth.Snapshot())
	t.auth.Subscribe(t.render)

	for _, m := range t.modifiers {
		go t.watchModifier(m)
	}
	go t.handleMenuEvents()
}

func (t *Tray) watchModifier(m modifierItem) {
	for range m.item.ClickedCh {
		t.auth.ModifierToggle(m.tag)
	}
}

func (t *Tray) handleMenuEvents() {
	for {
		select {
		case <-t.disabled.ClickedCh:
			t.auth.ToggleDisabled()
		case <-t.resetBtn.ClickedCh:
			t.auth.ResetModifiersToDefaults()
		case <-t.prefsBtn.ClickedCh:
			t.auth.ShowPreferences()
		case <-t.quitBtn.ClickedCh:
			if t.callbacks.OnQuit != nil {
				t.callbacks.OnQuit()
			}
			systray.Quit()
			return
		}
	}
}

func (t *Tray) render(state authority.State) {
	tip := Tooltip(state)
	systray.SetTooltip(tip)
	if t.status != nil {
		t.status.SetTitle(tip)
	}
}

func (t *Tray) onExit() {}

// menuOrder is the order modifiers appear in the menu.
var menuOrder = []modifier.Flags{
	modifier.Shift,
	modifier.Control,
	modifier.Alt,
	modifier.Command,
	modifier.Fn,
}

// Tooltip summarises state for the status icon.
func Tooltip(state authority.State) string {
	if !state.Enabled {
		return "hoverdrag: disabled"
	}
	return "hoverdrag: move " + joinSet(state.Move) + ", resize " + joinSet(state.Resize)
}

func joinSet(f modifier.Flags) string {
	if f.IsEmpty() {
		return "off"
	}
	return strings.Join(f.Names(), "+")
}
