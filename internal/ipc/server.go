package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/hoverdrag/internal/authority"
	"github.com/1broseidon/hoverdrag/internal/metrics"
	"github.com/1broseidon/hoverdrag/internal/modifier"
)

// Controller is the modifier authority as seen by IPC clients.
type Controller interface {
	Snapshot() authority.State
	ModifierToggle(tag modifier.Flags)
	ResetModifiersToDefaults()
	ToggleDisabled()
}

// MetricsSource serves GET_METRICS.
type MetricsSource interface {
	History(ctx context.Context) (*metrics.History, error)
}

// Options wires optional collaborators into a Server.
type Options struct {
	// Metrics may be nil when metrics are disabled.
	Metrics MetricsSource
	// Reload re-reads configuration and preferences.
	Reload func() error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	ctrl         Controller
	metrics      MetricsSource
	reload       func() error
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server bound to socketPath.
func NewServer(socketPath string, ctrl Controller, opts Options) *Server {
	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		metrics:    opts.Metrics,
		reload:     opts.Reload,
		startTime:  time.Now(),
	}
}

// SocketPath returns the socket the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// Remove a stale socket left by a crashed daemon.
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isShuttingDown() {
				return
			}
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) isShuttingDown() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(10 * time.Second))

	// One JSON request per line.
	data, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.statusResponse()
	case CommandToggleModifier:
		return s.handleToggleModifier(req.Payload)
	case CommandResetModifiers:
		s.ctrl.ResetModifiersToDefaults()
		return s.statusResponse()
	case CommandToggleDisabled:
		s.ctrl.ToggleDisabled()
		return s.statusResponse()
	case CommandGetMetrics:
		return s.handleGetMetrics(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")
	if s.reload == nil {
		return NewErrorResponse("reload is not supported")
	}
	if err := s.reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	log.Println("IPC: Config reloaded successfully")
	return s.statusResponse()
}

func (s *Server) handleToggleModifier(payload json.RawMessage) *Response {
	var req ToggleModifierPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid toggle payload: %v", err))
	}
	tag, err := modifier.Parse(req.Modifier)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	s.ctrl.ModifierToggle(tag)
	return s.statusResponse()
}

func (s *Server) handleGetMetrics(payload json.RawMessage) *Response {
	if s.metrics == nil {
		return NewErrorResponse("metrics are disabled")
	}
	var req GetMetricsPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid metrics payload: %v", err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	h, err := s.metrics.History(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to load metrics: %v", err))
	}

	resp, err := NewOKResponse(metrics.Summarize(h, time.Now(), req.Days))
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) statusResponse() *Response {
	state := s.ctrl.Snapshot()
	status := StatusData{
		Enabled:         state.Enabled,
		ModifierFlags:   int(state.Move),
		MoveModifiers:   state.Move.Names(),
		ResizeModifiers: state.Resize.Names(),
		UptimeSeconds:   int64(time.Since(s.startTime).Seconds()),
		DaemonRunning:   true,
	}

	resp, _ := NewOKResponse(status)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
		s.wg.Wait()
	}
	os.Remove(s.socketPath)
}
