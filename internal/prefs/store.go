package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/1broseidon/hoverdrag/internal/modifier"
	"golang.org/x/sys/unix"
	"gopkg.in/yaml.v3"
)

// Store persists the per-gesture modifier booleans. Missing keys read as false.
type Store interface {
	Bool(key Key) (bool, error)
	SetBool(key Key, value bool) error
}

// ReadFlags assembles a gesture's modifier set from the store.
func ReadFlags(s Store, g Gesture) (modifier.Flags, error) {
	var out modifier.Flags
	for _, m := range modifier.All {
		on, err := s.Bool(Key{Gesture: g, Modifier: m})
		if err != nil {
			return modifier.None, err
		}
		if on {
			out |= m
		}
	}
	return out, nil
}

// WriteFlags writes all five keys of a gesture. The first error is returned
// after every key has been attempted.
func WriteFlags(s Store, g Gesture, flags modifier.Flags) error {
	var firstErr error
	for _, m := range modifier.All {
		if err := s.SetBool(Key{Gesture: g, Modifier: m}, flags.Has(m)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Reloader is implemented by stores that cache a file other processes write.
type Reloader interface {
	Reload() error
}

// MemoryStore is a Store that lives only in memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]bool)}
}

func (s *MemoryStore) Bool(key Key) (bool, error) {
	if !key.Valid() {
		return false, fmt.Errorf("invalid preference key %v", key)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key.String()], nil
}

func (s *MemoryStore) SetBool(key Key, value bool) error {
	if !key.Valid() {
		return fmt.Errorf("invalid preference key %v", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key.String()] = value
	return nil
}

// FileStore is a Store backed by a YAML file of "gesture.modifier: bool" entries.
// Reads are served from a cache refreshed by Reload; every SetBool rewrites
// the file atomically.
type FileStore struct {
	path string

	mu     sync.RWMutex
	values map[string]bool
}

// DefaultPath returns ~/.config/hoverdrag/prefs.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "hoverdrag", "prefs.yaml")
	}
	return filepath.Join(home, ".config", "hoverdrag", "prefs.yaml")
}

// OpenFileStore loads path into a new FileStore. A missing file is an empty
// store; an unreadable or corrupt file is logged and also treated as empty.
func OpenFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("prefs path is empty")
	}
	s := &FileStore{path: path, values: make(map[string]bool)}
	if err := s.Reload(); err != nil {
		log.Printf("Warning: prefs: %v; starting from defaults", err)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Reload re-reads the backing file. On error the previous values are kept.
func (s *FileStore) Reload() error {
	values, err := s.readFile()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

// readFile parses the backing file. A missing file is empty.
func (s *FileStore) readFile() (map[string]bool, error) {
	values := make(map[string]bool)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("parse %s: %w", s.path, err)
		}
	}
	return values, nil
}

func (s *FileStore) Bool(key Key) (bool, error) {
	if !key.Valid() {
		return false, fmt.Errorf("invalid preference key %v", key)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key.String()], nil
}

// SetBool changes one key in the file. Other processes may hold their own
// FileStore on the same path, so the file is re-read under an exclusive
// lock and only this key is changed before it is replaced. The cache is
// left matching the file whether or not the write succeeds.
func (s *FileStore) SetBool(key Key, value bool) error {
	if !key.Valid() {
		return fmt.Errorf("invalid preference key %v", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lockFile()
	if err != nil {
		return err
	}
	defer unlock()

	values, err := s.readFile()
	if err != nil {
		// Same recovery as OpenFileStore: a corrupt file is replaced.
		log.Printf("Warning: prefs: %v; rewriting", err)
		values = make(map[string]bool)
	}
	s.values = values

	next := make(map[string]bool, len(values)+1)
	for k, v := range values {
		next[k] = v
	}
	next[key.String()] = value
	if err := s.writeFile(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

// lockFile takes an exclusive flock on a sidecar of the prefs file.
func (s *FileStore) lockFile() (func(), error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create prefs directory: %w", err)
	}
	f, err := os.OpenFile(s.path+".lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open prefs lock: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to lock prefs: %w", err)
	}
	return func() {
		unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
	}, nil
}

func (s *FileStore) writeFile(values map[string]bool) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".prefs-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp prefs file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace prefs file: %w", err)
	}
	return nil
}
