// Package tui implements the terminal preferences window and setup wizard.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/hoverdrag/internal/ipc"
	"github.com/1broseidon/hoverdrag/internal/prefs"
)

// requireTTY fails unless stdin and stdout are terminals.
func requireTTY() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	return nil
}

// Run shows the preferences grid over store. client may be nil; when the
// daemon answers, its status is shown and reset goes through it.
func Run(store prefs.Store, client *ipc.Client) error {
	if err := requireTTY(); err != nil {
		return err
	}

	p := tea.NewProgram(newModel(store, client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
