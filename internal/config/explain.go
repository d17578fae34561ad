package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	toggle_hotkey
//	preferences_hotkey
//	move_filter_interval
//	resize_filter_interval
//	default_move_modifiers
//	default_resize_modifiers
//	modifier_mapping.<key>
//	prefs_file
//	metrics.history_days
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	scalar := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return v, nil
	}

	switch parts[0] {
	case "toggle_hotkey":
		return scalar(cfg.ToggleHotkey)
	case "preferences_hotkey":
		return scalar(cfg.PreferencesHotkey)
	case "move_filter_interval":
		return scalar(cfg.MoveFilterInterval.String())
	case "resize_filter_interval":
		return scalar(cfg.ResizeFilterInterval.String())
	case "default_move_modifiers":
		return scalar(cfg.DefaultMoveModifiers)
	case "default_resize_modifiers":
		return scalar(cfg.DefaultResizeModifiers)
	case "prefs_file":
		return scalar(cfg.PrefsPath())
	case "start_disabled":
		return scalar(cfg.StartDisabled)
	case "tray":
		return scalar(cfg.Tray)
	case "display":
		return scalar(cfg.Display)
	case "xauthority":
		return scalar(cfg.XAuthority)
	case "log_level":
		return scalar(cfg.LogLevel)
	case "modifier_mapping":
		if len(parts) == 1 {
			return cfg.ModifierMapping, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		mask, ok := cfg.ModifierMapping[parts[1]]
		if !ok {
			return nil, fmt.Errorf("modifier %q is not remapped", parts[1])
		}
		return mask, nil
	case "metrics":
		if len(parts) == 1 {
			return cfg.Metrics, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "enabled":
			return cfg.Metrics.Enabled, nil
		case "database":
			return cfg.MetricsDatabasePath(), nil
		case "history_days":
			return cfg.Metrics.HistoryDays, nil
		case "notify_milestones":
			return cfg.Metrics.NotifyMilestones, nil
		}
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
