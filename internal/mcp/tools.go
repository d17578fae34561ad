package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/hoverdrag/internal/ipc"
	"github.com/1broseidon/hoverdrag/internal/metrics"
	"github.com/1broseidon/hoverdrag/internal/prefs"
)

const defaultMetricsDays = 7

func statusOutput(st *ipc.StatusData) StatusOutput {
	return StatusOutput{
		Enabled:         st.Enabled,
		ModifierFlags:   st.ModifierFlags,
		MoveModifiers:   nonNil(st.MoveModifiers),
		ResizeModifiers: nonNil(st.ResizeModifiers),
		UptimeSeconds:   st.UptimeSeconds,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.daemon.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, statusOutput(st), nil
}

func (s *Server) handleToggleModifier(_ context.Context, _ *mcpsdk.CallToolRequest, args ToggleModifierInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	if args.Modifier == "" {
		return nil, StatusOutput{}, fmt.Errorf("modifier is required")
	}
	st, err := s.daemon.ToggleModifier(args.Modifier)
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, statusOutput(st), nil
}

func (s *Server) handleResetModifiers(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.daemon.ResetModifiers()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, statusOutput(st), nil
}

func (s *Server) handleToggleDisabled(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.daemon.ToggleDisabled()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, statusOutput(st), nil
}

func dayValue(day string, m metrics.Metrics) DayValue {
	return DayValue{Day: day, DistanceMoved: m.DistanceMoved, AreaResized: m.AreaResized}
}

func (s *Server) handleGetMetrics(_ context.Context, _ *mcpsdk.CallToolRequest, args GetMetricsInput) (*mcpsdk.CallToolResult, GetMetricsOutput, error) {
	days := args.Days
	if days <= 0 {
		days = defaultMetricsDays
	}
	data, err := s.daemon.GetMetrics(days)
	if err != nil {
		return nil, GetMetricsOutput{}, err
	}

	out := GetMetricsOutput{
		Today:       dayValue("today", data.Today),
		Average:     dayValue("average", data.Average),
		AverageDays: data.AverageDays,
		Days:        make([]DayValue, 0, len(data.Days)),
	}
	for _, d := range data.Days {
		out.Days = append(out.Days, dayValue(d.Day, d.Metrics))
	}
	return nil, out, nil
}

func (s *Server) handleSetPreference(_ context.Context, _ *mcpsdk.CallToolRequest, args SetPreferenceInput) (*mcpsdk.CallToolResult, SetPreferenceOutput, error) {
	key, err := prefs.ParseKey(args.Key)
	if err != nil {
		return nil, SetPreferenceOutput{}, err
	}
	id := prefs.StandardID(key)

	current, _ := s.prefs.State(id)
	changed := current != args.Value
	if changed {
		s.prefs.ModifierClicked(id)
	}

	value, _ := s.prefs.State(id)
	if value != args.Value {
		return nil, SetPreferenceOutput{}, fmt.Errorf("failed to save %s", key)
	}
	return nil, SetPreferenceOutput{Key: key.String(), Value: value, Changed: changed}, nil
}
