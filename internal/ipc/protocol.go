package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/hoverdrag/internal/metrics"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload         CommandType = "RELOAD"
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandToggleModifier CommandType = "TOGGLE_MODIFIER"
	CommandResetModifiers CommandType = "RESET_MODIFIERS"
	CommandToggleDisabled CommandType = "TOGGLE_DISABLED"
	CommandGetMetrics     CommandType = "GET_METRICS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS and by every
// command that changes modifier state.
type StatusData struct {
	Enabled         bool     `json:"enabled"`
	ModifierFlags   int      `json:"modifier_flags"`
	MoveModifiers   []string `json:"move_modifiers"`
	ResizeModifiers []string `json:"resize_modifiers"`
	UptimeSeconds   int64    `json:"uptime_seconds"`
	DaemonRunning   bool     `json:"daemon_running"`
}

// ToggleModifierPayload is the payload for TOGGLE_MODIFIER.
type ToggleModifierPayload struct {
	Modifier string `json:"modifier"`
}

// GetMetricsPayload is the payload for GET_METRICS.
type GetMetricsPayload struct {
	Days int `json:"days,omitempty"`
}

// MetricsData is the data returned by GET_METRICS.
type MetricsData = metrics.Summary

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
