package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/hoverdrag/internal/ipc"
	"github.com/1broseidon/hoverdrag/internal/modifier"
	"github.com/1broseidon/hoverdrag/internal/prefs"
)

// cell is one toggle in the grid. The controller renders into it.
type cell struct {
	checked bool
}

func (c *cell) SetChecked(checked bool) { c.checked = checked }

// grid is shared by every copy of the model.
type grid struct {
	ctrl  *prefs.Controller
	cells map[prefs.Key]*cell
}

func newGrid(store prefs.Store) *grid {
	g := &grid{
		ctrl:  prefs.NewController(store),
		cells: make(map[prefs.Key]*cell),
	}
	g.ctrl.RegisterStandard(func(k prefs.Key) prefs.Button {
		c := &cell{}
		g.cells[k] = c
		return c
	})
	g.ctrl.Open()
	return g
}

// model is the root bubbletea model for the preferences window.
type model struct {
	grid   *grid
	client *ipc.Client

	row int // index into modifier.All
	col int // index into prefs.Gestures

	daemonConnected bool
	enabled         bool
	message         string

	width  int
	height int
}

func newModel(store prefs.Store, client *ipc.Client) model {
	m := model{
		grid:   newGrid(store),
		client: client,
	}
	m.refreshDaemonStatus()
	return m
}

func (m *model) refreshDaemonStatus() {
	if m.client == nil {
		m.daemonConnected = false
		return
	}
	status, err := m.client.GetStatus()
	if err != nil {
		m.daemonConnected = false
		return
	}
	m.daemonConnected = true
	m.enabled = status.Enabled
}

func (m model) selectedKey() prefs.Key {
	return prefs.Key{Gesture: prefs.Gestures[m.col], Modifier: modifier.All[m.row]}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			m.row = (m.row - 1 + len(modifier.All)) % len(modifier.All)
		case "down", "j":
			m.row = (m.row + 1) % len(modifier.All)
		case "left", "h", "right", "l", "tab":
			m.col = (m.col + 1) % len(prefs.Gestures)
		case " ", "space", "enter", "x":
			key := m.selectedKey()
			m.grid.ctrl.ModifierClicked(prefs.StandardID(key))
			m.message = fmt.Sprintf("%s %s", key, onOff(m.grid.cells[key].checked))
		case "r":
			m.grid.ctrl.Open()
			m.refreshDaemonStatus()
			m.message = "reloaded"
		case "R":
			m.resetDefaults()
		}
	}
	return m, nil
}

func (m *model) resetDefaults() {
	if !m.daemonConnected {
		m.message = "reset needs the daemon (hoverdrag daemon)"
		return
	}
	status, err := m.client.ResetModifiers()
	if err != nil {
		m.message = err.Error()
		return
	}
	m.enabled = status.Enabled
	m.grid.ctrl.Open()
	m.message = "reset to defaults"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("250"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62"))

	checkedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const labelWidth = 18

// View implements tea.Model.
func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("hoverdrag preferences"))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s", labelWidth, "")))
	for _, g := range prefs.Gestures {
		b.WriteString(headerStyle.Render(fmt.Sprintf("  %-8s", g)))
	}
	b.WriteString("\n")

	for r, mod := range modifier.All {
		b.WriteString(fmt.Sprintf("%-*s", labelWidth, mod.Title()))
		for c, g := range prefs.Gestures {
			box := "[ ]"
			if m.grid.cells[prefs.Key{Gesture: g, Modifier: mod}].checked {
				box = checkedStyle.Render("[x]")
			}
			if r == m.row && c == m.col {
				box = cursorStyle.Render(box)
			}
			b.WriteString("  " + box + "     ")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderStatus(m.daemonConnected, m.enabled))
	if m.message != "" {
		b.WriteString("\n" + mutedStyle.Render(m.message))
	}
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("↑/↓ modifier  ←/→ gesture  space toggle  r reload  R reset  q quit"))

	return b.String()
}

func renderStatus(connected, enabled bool) string {
	if !connected {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		return dot + " daemon not running"
	}
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
	state := "enabled"
	if !enabled {
		state = "disabled"
	}
	return dot + " daemon connected  " + state
}
