package config

import (
	"fmt"
	"strings"
)

// ValidationError reports an invalid config value at a YAML path.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig layers raw over DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.ToggleHotkey != nil {
		cfg.ToggleHotkey = strings.TrimSpace(*raw.ToggleHotkey)
	}
	if raw.PreferencesHotkey != nil {
		cfg.PreferencesHotkey = strings.TrimSpace(*raw.PreferencesHotkey)
	}
	if raw.MoveFilterInterval != nil {
		cfg.MoveFilterInterval = *raw.MoveFilterInterval
	}
	if raw.ResizeFilterInterval != nil {
		cfg.ResizeFilterInterval = *raw.ResizeFilterInterval
	}
	if raw.DefaultMoveModifiers != nil {
		cfg.DefaultMoveModifiers = normalizeNames(raw.DefaultMoveModifiers)
	}
	if raw.DefaultResizeModifiers != nil {
		cfg.DefaultResizeModifiers = normalizeNames(raw.DefaultResizeModifiers)
	}
	if raw.ModifierMapping != nil {
		for name, mask := range raw.ModifierMapping {
			cfg.ModifierMapping[strings.ToLower(strings.TrimSpace(name))] = strings.ToLower(strings.TrimSpace(mask))
		}
	}
	if raw.PrefsFile != nil {
		cfg.PrefsFile = strings.TrimSpace(*raw.PrefsFile)
	}
	if raw.StartDisabled != nil {
		cfg.StartDisabled = *raw.StartDisabled
	}
	if raw.Tray != nil {
		cfg.Tray = *raw.Tray
	}
	if raw.Display != nil {
		cfg.Display = strings.TrimSpace(*raw.Display)
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = strings.TrimSpace(*raw.XAuthority)
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.Metrics != nil {
		if raw.Metrics.Enabled != nil {
			cfg.Metrics.Enabled = *raw.Metrics.Enabled
		}
		if raw.Metrics.Database != nil {
			cfg.Metrics.Database = strings.TrimSpace(*raw.Metrics.Database)
		}
		if raw.Metrics.HistoryDays != nil {
			cfg.Metrics.HistoryDays = *raw.Metrics.HistoryDays
		}
		if raw.Metrics.NotifyMilestones != nil {
			cfg.Metrics.NotifyMilestones = *raw.Metrics.NotifyMilestones
		}
	}

	return cfg, nil
}

func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}
