package prefs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/hoverdrag/internal/modifier"
)

func TestParseKey(t *testing.T) {
	key, err := ParseKey("resize.shift")
	if err != nil {
		t.Fatalf("ParseKey error: %v", err)
	}
	if key != (Key{Gesture: Resize, Modifier: modifier.Shift}) {
		t.Fatalf("ParseKey = %+v", key)
	}
	if key.String() != "resize.shift" {
		t.Fatalf("String() = %q", key.String())
	}
	for _, bad := range []string{"resize", "drag.alt", "move.meta"} {
		if _, err := ParseKey(bad); err == nil {
			t.Fatalf("ParseKey(%q) expected error", bad)
		}
	}
}

func TestAllKeys_TenDistinct(t *testing.T) {
	keys := AllKeys()
	if len(keys) != 10 {
		t.Fatalf("len(AllKeys()) = %d, want 10", len(keys))
	}
	seen := make(map[string]bool)
	for _, k := range keys {
		if seen[k.String()] {
			t.Fatalf("duplicate key %s", k)
		}
		seen[k.String()] = true
	}
}

func TestFlagsRoundTripThroughStore(t *testing.T) {
	s := NewMemoryStore()
	if err := WriteFlags(s, Move, modifier.Control|modifier.Command); err != nil {
		t.Fatalf("WriteFlags: %v", err)
	}
	if err := WriteFlags(s, Resize, modifier.Shift); err != nil {
		t.Fatalf("WriteFlags: %v", err)
	}

	move, err := ReadFlags(s, Move)
	if err != nil {
		t.Fatalf("ReadFlags: %v", err)
	}
	resize, err := ReadFlags(s, Resize)
	if err != nil {
		t.Fatalf("ReadFlags: %v", err)
	}
	if move != modifier.Control|modifier.Command {
		t.Fatalf("move = %v", move)
	}
	if resize != modifier.Shift {
		t.Fatalf("resize = %v", resize)
	}
}

func TestFileStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")

	s, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := Key{Gesture: Resize, Modifier: modifier.Command}
	if err := s.SetBool(key, true); err != nil {
		t.Fatalf("SetBool: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "resize.command: true") {
		t.Fatalf("unexpected file contents:\n%s", data)
	}

	reopened, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Bool(key)
	if err != nil {
		t.Fatalf("Bool: %v", err)
	}
	if !got {
		t.Fatal("expected resize.command to persist")
	}
}

func TestFileStore_CorruptFileFallsBackToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("move.alt: [not a bool\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	flags, err := ReadFlags(s, Move)
	if err != nil {
		t.Fatalf("ReadFlags: %v", err)
	}
	if !flags.IsEmpty() {
		t.Fatalf("expected empty flags, got %v", flags)
	}
}

func TestFileStore_PreservesUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("experimental.flag: true\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.SetBool(Key{Gesture: Move, Modifier: modifier.Alt}, true); err != nil {
		t.Fatalf("SetBool: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "experimental.flag: true") {
		t.Fatalf("unknown key dropped:\n%s", data)
	}
}

func TestStores_RejectInvalidKey(t *testing.T) {
	bad := Key{Gesture: Move, Modifier: modifier.Alt | modifier.Shift}
	if err := NewMemoryStore().SetBool(bad, true); err == nil {
		t.Fatal("expected error from MemoryStore")
	}
	s, _ := OpenFileStore(filepath.Join(t.TempDir(), "prefs.yaml"))
	if _, err := s.Bool(bad); err == nil {
		t.Fatal("expected error from FileStore")
	}
}

func TestWatch_ReloadsOnExternalWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	s, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, s, nil, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Let the watcher register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("move.shift: true\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	on, err := s.Bool(Key{Gesture: Move, Modifier: modifier.Shift})
	if err != nil {
		t.Fatalf("Bool: %v", err)
	}
	if !on {
		t.Fatal("expected move.shift after reload")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch returned %v", err)
	}
}

func TestFileStore_TwoHandlesKeepEachOthersWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	a, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("open a: %v", err)
	}
	b, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("open b: %v", err)
	}

	moveAlt := Key{Gesture: Move, Modifier: modifier.Alt}
	resizeShift := Key{Gesture: Resize, Modifier: modifier.Shift}
	if err := a.SetBool(moveAlt, true); err != nil {
		t.Fatalf("a.SetBool: %v", err)
	}
	if err := b.SetBool(resizeShift, true); err != nil {
		t.Fatalf("b.SetBool: %v", err)
	}

	reopened, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	for _, key := range []Key{moveAlt, resizeShift} {
		got, err := reopened.Bool(key)
		if err != nil {
			t.Fatalf("Bool(%s): %v", key, err)
		}
		if !got {
			t.Errorf("%s = false on disk, want true", key)
		}
	}

	// b's cache now reflects a's write too.
	if got, _ := b.Bool(moveAlt); !got {
		t.Fatal("b should see move.alt after its own write")
	}
}
