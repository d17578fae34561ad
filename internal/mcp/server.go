package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/hoverdrag/internal/ipc"
	"github.com/1broseidon/hoverdrag/internal/prefs"
)

const (
	ServerName    = "hoverdrag"
	ServerVersion = "0.1.0"
)

// Daemon is the running hoverdrag daemon as reached over IPC.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	ToggleModifier(name string) (*ipc.StatusData, error)
	ResetModifiers() (*ipc.StatusData, error)
	ToggleDisabled() (*ipc.StatusData, error)
	GetMetrics(days int) (*ipc.MetricsData, error)
}

// Server is the MCP server exposing modifier configuration to agents.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	prefs     *prefs.Controller
}

// NewServer creates a server that talks to daemon and writes preferences
// to store. The daemon picks up store writes through its file watcher.
func NewServer(daemon Daemon, store prefs.Store) *Server {
	ctrl := prefs.NewController(store)
	ctrl.RegisterStandard(func(prefs.Key) prefs.Button { return nopButton{} })

	s := &Server{
		daemon: daemon,
		prefs:  ctrl,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

type nopButton struct{}

func (nopButton) SetChecked(bool) {}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report whether hoverdrag is enabled and which modifiers move and resize the window under the pointer.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_modifier",
		Description: "Flip one modifier in the move set, exactly like clicking its entry in the tray menu. The change is saved.",
	}, s.handleToggleModifier)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reset_modifiers",
		Description: "Restore the move and resize sets to the configured defaults.",
	}, s.handleResetModifiers)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_disabled",
		Description: "Flip the global enable switch. Modifier sets are left untouched. Not saved across restarts.",
	}, s.handleToggleDisabled)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_metrics",
		Description: "Return today's distance moved and area resized, the average of previous days, and a per-day list.",
	}, s.handleGetMetrics)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_preference",
		Description: "Set one persisted preference such as move.control or resize.shift. Works without a running daemon; a running daemon reloads it automatically.",
	}, s.handleSetPreference)
}
