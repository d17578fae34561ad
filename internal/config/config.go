package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/1broseidon/hoverdrag/internal/authority"
	"github.com/1broseidon/hoverdrag/internal/modifier"
	"gopkg.in/yaml.v3"
)

const (
	// MaxFilterInterval is the largest accepted filter interval.
	MaxFilterInterval = time.Second

	DefaultHistoryDays = 30
)

// MetricsConfig configures usage metrics collection.
type MetricsConfig struct {
	// Enabled records distance moved and area resized per day.
	Enabled bool `yaml:"enabled"`
	// Database is the SQLite file (default: ~/.local/share/hoverdrag/metrics.db)
	Database string `yaml:"database,omitempty"`
	// HistoryDays is how many days of history are kept.
	HistoryDays int `yaml:"history_days"`
	// NotifyMilestones shows a desktop notification when today beats the average.
	NotifyMilestones bool `yaml:"notify_milestones"`
}

// Config is the effective daemon configuration.
type Config struct {
	ToggleHotkey      string `yaml:"toggle_hotkey"`
	PreferencesHotkey string `yaml:"preferences_hotkey"`

	MoveFilterInterval   time.Duration `yaml:"move_filter_interval"`
	ResizeFilterInterval time.Duration `yaml:"resize_filter_interval"`

	// Sets applied by "Reset to Defaults".
	DefaultMoveModifiers   []string `yaml:"default_move_modifiers"`
	DefaultResizeModifiers []string `yaml:"default_resize_modifiers"`

	// ModifierMapping overrides which X11 modifier mask a key is read from,
	// e.g. {fn: mod5}.
	ModifierMapping map[string]string `yaml:"modifier_mapping,omitempty"`

	PrefsFile     string `yaml:"prefs_file,omitempty"`
	StartDisabled bool   `yaml:"start_disabled"`
	Tray          bool   `yaml:"tray"`

	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`
	LogLevel   string `yaml:"log_level"`

	Metrics MetricsConfig `yaml:"metrics"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		ToggleHotkey:           "Mod4-Mod1-d", // Super+Alt+D
		PreferencesHotkey:      "",
		MoveFilterInterval:     authority.DefaultMoveFilterInterval,
		ResizeFilterInterval:   authority.DefaultResizeFilterInterval,
		DefaultMoveModifiers:   []string{"control", "command"},
		DefaultResizeModifiers: []string{"control", "command", "shift"},
		ModifierMapping:        map[string]string{},
		StartDisabled:          false,
		Tray:                   true,
		LogLevel:               "info",
		Metrics: MetricsConfig{
			Enabled:          true,
			HistoryDays:      DefaultHistoryDays,
			NotifyMilestones: true,
		},
	}
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "hoverdrag", "config.yaml"), nil
}

// MoveDefaults returns the parsed default move set.
func (c *Config) MoveDefaults() modifier.Flags {
	f, _ := modifier.ParseList(c.DefaultMoveModifiers)
	return f
}

// ResizeDefaults returns the parsed default resize set.
func (c *Config) ResizeDefaults() modifier.Flags {
	f, _ := modifier.ParseList(c.DefaultResizeModifiers)
	return f
}

// Mapping applies modifier_mapping overrides on top of base.
func (c *Config) Mapping(base modifier.Mapping) modifier.Mapping {
	names := make([]string, 0, len(c.ModifierMapping))
	for name := range c.ModifierMapping {
		names = append(names, name)
	}
	sort.Strings(names)

	out := base
	for _, name := range names {
		f, err := modifier.Parse(name)
		if err != nil {
			continue
		}
		mask, err := modifier.ParseMask(c.ModifierMapping[name])
		if err != nil {
			continue
		}
		out = out.With(f, mask)
	}
	return out
}

// PrefsPath returns the preferences file, expanding a leading "~/".
func (c *Config) PrefsPath() string {
	if strings.TrimSpace(c.PrefsFile) == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "hoverdrag", "prefs.yaml")
		}
		return filepath.Join(home, ".config", "hoverdrag", "prefs.yaml")
	}
	return expandHome(c.PrefsFile)
}

// MetricsDatabasePath returns the metrics database file, expanding a leading "~/".
func (c *Config) MetricsDatabasePath() string {
	if strings.TrimSpace(c.Metrics.Database) == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".local", "share", "hoverdrag", "metrics.db")
		}
		return filepath.Join(home, ".local", "share", "hoverdrag", "metrics.db")
	}
	return expandHome(c.Metrics.Database)
}

// SlogLevel maps log_level onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := validateInterval(c.MoveFilterInterval); err != nil {
		return &ValidationError{Path: "move_filter_interval", Err: err}
	}
	if err := validateInterval(c.ResizeFilterInterval); err != nil {
		return &ValidationError{Path: "resize_filter_interval", Err: err}
	}

	move, err := validateModifierList(c.DefaultMoveModifiers)
	if err != nil {
		return &ValidationError{Path: "default_move_modifiers", Err: err}
	}
	resize, err := validateModifierList(c.DefaultResizeModifiers)
	if err != nil {
		return &ValidationError{Path: "default_resize_modifiers", Err: err}
	}
	if move == resize {
		return &ValidationError{Path: "default_resize_modifiers", Err: fmt.Errorf("default_resize_modifiers must differ from default_move_modifiers")}
	}

	for name, mask := range c.ModifierMapping {
		if _, err := modifier.Parse(name); err != nil {
			return &ValidationError{Path: "modifier_mapping", Err: err}
		}
		if _, err := modifier.ParseMask(mask); err != nil {
			return &ValidationError{Path: "modifier_mapping." + name, Err: err}
		}
	}

	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.Metrics.HistoryDays < 1 {
		return &ValidationError{Path: "metrics.history_days", Err: fmt.Errorf("history_days must be >= 1")}
	}

	if warnings := c.validationWarnings(); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}

	return nil
}

func (c *Config) validationWarnings() []string {
	var warnings []string
	if strings.TrimSpace(c.ToggleHotkey) == "" {
		warnings = append(warnings, "toggle_hotkey is empty; hoverdrag can only be disabled from the tray or CLI")
	}
	if c.ToggleHotkey != "" && c.ToggleHotkey == c.PreferencesHotkey {
		warnings = append(warnings, fmt.Sprintf("toggle_hotkey and preferences_hotkey are both %q; only the first registration wins", c.ToggleHotkey))
	}
	if c.ResizeFilterInterval < c.MoveFilterInterval {
		warnings = append(warnings, "resize_filter_interval is shorter than move_filter_interval; resizing may stutter on slow window managers")
	}
	return warnings
}

func validateInterval(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("interval must be > 0")
	}
	if d > MaxFilterInterval {
		return fmt.Errorf("interval must be <= %s", MaxFilterInterval)
	}
	return nil
}

func validateModifierList(list []string) (modifier.Flags, error) {
	if len(list) == 0 {
		return modifier.None, fmt.Errorf("at least one modifier is required")
	}
	return modifier.ParseList(list)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
