// Package metrics tracks how far windows were moved and how much area was
// resized, bucketed by day.
package metrics

import (
	"fmt"
	"math"
	"strconv"
)

// Metrics accumulates gesture totals in pixels (distance) and square pixels (area).
type Metrics struct {
	DistanceMoved float64 `json:"distance_moved"`
	AreaResized   float64 `json:"area_resized"`
}

// Add returns the component-wise sum.
func (m Metrics) Add(o Metrics) Metrics {
	return Metrics{
		DistanceMoved: m.DistanceMoved + o.DistanceMoved,
		AreaResized:   m.AreaResized + o.AreaResized,
	}
}

// Scale returns m divided by n. Dividing by zero yields the zero value.
func (m Metrics) Scale(n float64) Metrics {
	if n == 0 {
		return Metrics{}
	}
	return Metrics{
		DistanceMoved: m.DistanceMoved / n,
		AreaResized:   m.AreaResized / n,
	}
}

// IsZero reports whether nothing was recorded.
func (m Metrics) IsZero() bool {
	return m.DistanceMoved == 0 && m.AreaResized == 0
}

func (m Metrics) String() string {
	return fmt.Sprintf("Distance: %s, Area: %s", formatAmount(m.DistanceMoved), formatAmount(m.AreaResized))
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', -1, 64)
}

// Distance returns the length of a pointer delta.
func Distance(dx, dy float64) float64 {
	return math.Hypot(dx, dy)
}

// AreaDelta is the area swept when a w x h rectangle grows by (dx, dy).
func AreaDelta(w, h, dx, dy float64) float64 {
	return dx*dy + math.Abs(dx)*h + w*math.Abs(dy)
}
