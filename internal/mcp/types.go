package mcp

// EmptyInput is the input of tools that take no arguments.
type EmptyInput struct{}

// StatusOutput is returned by every tool that reads or changes modifier state.
type StatusOutput struct {
	Enabled         bool     `json:"enabled" jsonschema:"Whether modifier gestures are active"`
	ModifierFlags   int      `json:"modifier_flags" jsonschema:"Bitmask of the move modifiers"`
	MoveModifiers   []string `json:"move_modifiers" jsonschema:"Modifiers that move the window under the pointer"`
	ResizeModifiers []string `json:"resize_modifiers" jsonschema:"Modifiers that resize the window under the pointer"`
	UptimeSeconds   int64    `json:"uptime_seconds"`
}

// ToggleModifierInput is the input for the toggle_modifier tool.
type ToggleModifierInput struct {
	Modifier string `json:"modifier" jsonschema:"Modifier to flip in the move set: alt, command, control, fn or shift (aliases such as ctrl, super, option are accepted)"`
}

// GetMetricsInput is the input for the get_metrics tool.
type GetMetricsInput struct {
	Days int `json:"days,omitempty" jsonschema:"Number of most recent days to list (default: 7)"`
}

// DayValue is one day of usage.
type DayValue struct {
	Day           string  `json:"day"`
	DistanceMoved float64 `json:"distance_moved"`
	AreaResized   float64 `json:"area_resized"`
}

// GetMetricsOutput is the output for the get_metrics tool.
type GetMetricsOutput struct {
	Today       DayValue   `json:"today"`
	Average     DayValue   `json:"average" jsonschema:"Mean of the days before today"`
	AverageDays int        `json:"average_days"`
	Days        []DayValue `json:"days" jsonschema:"Most recent days, newest first"`
}

// SetPreferenceInput is the input for the set_preference tool.
type SetPreferenceInput struct {
	Key   string `json:"key" jsonschema:"Preference key such as move.control or resize.shift"`
	Value bool   `json:"value" jsonschema:"Whether the modifier is part of the set"`
}

// SetPreferenceOutput is the output for the set_preference tool.
type SetPreferenceOutput struct {
	Key     string `json:"key"`
	Value   bool   `json:"value"`
	Changed bool   `json:"changed"`
}
