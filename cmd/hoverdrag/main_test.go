package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/hoverdrag/internal/authority"
	"github.com/1broseidon/hoverdrag/internal/config"
	"github.com/1broseidon/hoverdrag/internal/ipc"
	"github.com/1broseidon/hoverdrag/internal/metrics"
	"github.com/1broseidon/hoverdrag/internal/modifier"
	"github.com/1broseidon/hoverdrag/internal/prefs"
)

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceFile, File: "/etc/h.yaml"}, "file:/etc/h.yaml"},
		{config.Source{Kind: config.SourceFile, File: "/etc/h.yaml", Line: 3, Column: 5}, "file:/etc/h.yaml:3:5"},
		{config.Source{Kind: config.SourceDefault}, "default"},
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, &ipc.StatusData{
		Enabled:         true,
		ModifierFlags:   12,
		MoveModifiers:   []string{"control", "command"},
		ResizeModifiers: nil,
		DaemonRunning:   true,
	})
	out := buf.String()
	for _, want := range []string{
		"enabled:          true",
		"modifier_flags:   12",
		"move_modifiers:   control+command",
		"resize_modifiers: (none)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &metrics.Summary{
		Today: metrics.Metrics{DistanceMoved: 10},
	})
	if !strings.Contains(buf.String(), "average: (no earlier days)") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}

	buf.Reset()
	printSummary(&buf, &metrics.Summary{
		Today:       metrics.Metrics{DistanceMoved: 10},
		Average:     metrics.Metrics{DistanceMoved: 4},
		AverageDays: 2,
		Days: []metrics.DayMetrics{
			{Day: "2024-05-10", Metrics: metrics.Metrics{DistanceMoved: 10}},
		},
	})
	out := buf.String()
	if !strings.Contains(out, "(over 2 days)") || !strings.Contains(out, "2024-05-10  ") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

type fakeWindow struct {
	store *prefs.FileStore
	err   error
}

func (w *fakeWindow) Show() error {
	if err := w.store.SetBool(prefs.Key{Gesture: prefs.Move, Modifier: modifier.Fn}, true); err != nil {
		return err
	}
	return w.err
}

func TestShowPreferencesReloadsAuthority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	daemonStore, err := prefs.OpenFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	windowStore, err := prefs.OpenFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	auth := authority.New(daemonStore, authority.Options{})

	// The window writes through its own handle, as the dialog process would.
	if err := showPreferences(&fakeWindow{store: windowStore}, daemonStore, auth); err != nil {
		t.Fatalf("showPreferences: %v", err)
	}
	if got := auth.Flags(prefs.Move); got != modifier.Fn {
		t.Fatalf("move = %v after the window closed, want fn", got)
	}

	wantErr := errors.New("no display")
	if err := showPreferences(&fakeWindow{store: windowStore, err: wantErr}, daemonStore, auth); !errors.Is(err, wantErr) {
		t.Fatalf("showPreferences error = %v, want %v", err, wantErr)
	}
}

func TestConfigPrintRejectsEffectiveFlag(t *testing.T) {
	if code := runConfig([]string{"print", "--effective"}); code != 2 {
		t.Fatalf("runConfig(print --effective) = %d, want 2", code)
	}
}
