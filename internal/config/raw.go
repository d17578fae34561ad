package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawMetricsConfig struct {
	Enabled          *bool   `yaml:"enabled"`
	Database         *string `yaml:"database"`
	HistoryDays      *int    `yaml:"history_days"`
	NotifyMilestones *bool   `yaml:"notify_milestones"`
}

// RawConfig mirrors Config with optional fields so files can be layered.
type RawConfig struct {
	Include                IncludeList       `yaml:"include"`
	ToggleHotkey           *string           `yaml:"toggle_hotkey"`
	PreferencesHotkey      *string           `yaml:"preferences_hotkey"`
	MoveFilterInterval     *time.Duration    `yaml:"move_filter_interval"`
	ResizeFilterInterval   *time.Duration    `yaml:"resize_filter_interval"`
	DefaultMoveModifiers   []string          `yaml:"default_move_modifiers"`
	DefaultResizeModifiers []string          `yaml:"default_resize_modifiers"`
	ModifierMapping        map[string]string `yaml:"modifier_mapping"`
	PrefsFile              *string           `yaml:"prefs_file"`
	StartDisabled          *bool             `yaml:"start_disabled"`
	Tray                   *bool             `yaml:"tray"`
	Display                *string           `yaml:"display"`
	XAuthority             *string           `yaml:"xauthority"`
	LogLevel               *string           `yaml:"log_level"`
	Metrics                *RawMetricsConfig `yaml:"metrics"`
}

func (r RawConfig) merge(overlay RawConfig) RawConfig {
	out := r

	if overlay.ToggleHotkey != nil {
		out.ToggleHotkey = overlay.ToggleHotkey
	}
	if overlay.PreferencesHotkey != nil {
		out.PreferencesHotkey = overlay.PreferencesHotkey
	}
	if overlay.MoveFilterInterval != nil {
		out.MoveFilterInterval = overlay.MoveFilterInterval
	}
	if overlay.ResizeFilterInterval != nil {
		out.ResizeFilterInterval = overlay.ResizeFilterInterval
	}
	if overlay.DefaultMoveModifiers != nil {
		out.DefaultMoveModifiers = overlay.DefaultMoveModifiers
	}
	if overlay.DefaultResizeModifiers != nil {
		out.DefaultResizeModifiers = overlay.DefaultResizeModifiers
	}
	if overlay.ModifierMapping != nil {
		if out.ModifierMapping == nil {
			out.ModifierMapping = make(map[string]string)
		} else {
			merged := make(map[string]string, len(out.ModifierMapping))
			for k, v := range out.ModifierMapping {
				merged[k] = v
			}
			out.ModifierMapping = merged
		}
		for k, v := range overlay.ModifierMapping {
			out.ModifierMapping[k] = v
		}
	}
	if overlay.PrefsFile != nil {
		out.PrefsFile = overlay.PrefsFile
	}
	if overlay.StartDisabled != nil {
		out.StartDisabled = overlay.StartDisabled
	}
	if overlay.Tray != nil {
		out.Tray = overlay.Tray
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.XAuthority != nil {
		out.XAuthority = overlay.XAuthority
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Metrics != nil {
		if out.Metrics == nil {
			m := *overlay.Metrics
			out.Metrics = &m
		} else {
			m := *out.Metrics
			if overlay.Metrics.Enabled != nil {
				m.Enabled = overlay.Metrics.Enabled
			}
			if overlay.Metrics.Database != nil {
				m.Database = overlay.Metrics.Database
			}
			if overlay.Metrics.HistoryDays != nil {
				m.HistoryDays = overlay.Metrics.HistoryDays
			}
			if overlay.Metrics.NotifyMilestones != nil {
				m.NotifyMilestones = overlay.Metrics.NotifyMilestones
			}
			out.Metrics = &m
		}
	}

	return out
}
