package metrics

import (
	"sync/atomic"

	"github.com/gen2brain/beeep"
)

const appName = "hoverdrag"

// Notifier delivers a desktop notification.
type Notifier interface {
	Notify(title, body string) error
}

// DesktopNotifier sends notifications through the desktop notification service.
type DesktopNotifier struct {
	enabled atomic.Bool
}

// NewDesktopNotifier returns a notifier that is silent when enabled is false.
func NewDesktopNotifier(enabled bool) *DesktopNotifier {
	n := &DesktopNotifier{}
	n.enabled.Store(enabled)
	return n
}

// SetEnabled turns notifications on or off.
func (n *DesktopNotifier) SetEnabled(enabled bool) {
	n.enabled.Store(enabled)
}

func (n *DesktopNotifier) Notify(title, body string) error {
	if !n.enabled.Load() {
		return nil
	}
	if title == "" {
		title = appName
	}
	return beeep.Notify(title, body, "")
}
