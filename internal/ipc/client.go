package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/hoverdrag/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default daemon socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientForSocket(socketPath)
}

// NewClientForSocket creates a client for an explicit socket path.
func NewClientForSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	respData, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) status(req *Request) (*StatusData, error) {
	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// Reload asks the daemon to re-read its config and preferences.
func (c *Client) Reload() (*StatusData, error) {
	return c.status(&Request{Command: CommandReload})
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	return c.status(&Request{Command: CommandGetStatus})
}

// ToggleModifier flips one modifier in the move set.
func (c *Client) ToggleModifier(name string) (*StatusData, error) {
	payload, err := json.Marshal(ToggleModifierPayload{Modifier: name})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal toggle payload: %w", err)
	}
	return c.status(&Request{Command: CommandToggleModifier, Payload: payload})
}

// ResetModifiers restores both sets to their configured defaults.
func (c *Client) ResetModifiers() (*StatusData, error) {
	return c.status(&Request{Command: CommandResetModifiers})
}

// ToggleDisabled flips the global enable switch.
func (c *Client) ToggleDisabled() (*StatusData, error) {
	return c.status(&Request{Command: CommandToggleDisabled})
}

// GetMetrics retrieves usage metrics for the most recent days.
func (c *Client) GetMetrics(days int) (*MetricsData, error) {
	payload, err := json.Marshal(GetMetricsPayload{Days: days})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metrics payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandGetMetrics, Payload: payload})
	if err != nil {
		return nil, err
	}

	var data MetricsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse metrics data: %w", err)
	}
	return &data, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
