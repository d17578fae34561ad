package metrics

import (
	"sort"
	"time"
)

// DefaultDepth is how many days of history are kept.
const DefaultDepth = 30

const dayLayout = "2006-01-02"

// Milestone is a notable usage event.
type Milestone int

const (
	// MilestoneExceededAverage means today's usage is above the daily average.
	MilestoneExceededAverage Milestone = iota + 1
)

func (m Milestone) String() string {
	switch m {
	case MilestoneExceededAverage:
		return "exceeded_average"
	default:
		return "none"
	}
}

// DayKey truncates t to its calendar day in t's location.
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// History holds per-day metrics for a sliding window of Depth days.
type History struct {
	Depth  int
	values map[string]Metrics
}

// NewHistory returns an empty history keeping depth days.
func NewHistory(depth int) *History {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &History{Depth: depth, values: make(map[string]Metrics)}
}

// Cutoff is the first day still inside the window ending at now.
func (h *History) Cutoff(now time.Time) time.Time {
	return truncateDay(now).AddDate(0, 0, -h.Depth)
}

// Set stores m for date's day. Dates before the cutoff are ignored and
// Set reports false.
func (h *History) Set(now, date time.Time, m Metrics) bool {
	day := truncateDay(date)
	if day.Before(h.Cutoff(now)) {
		return false
	}
	h.values[DayKey(day)] = m
	return true
}

// Get returns the value recorded for date's day.
func (h *History) Get(date time.Time) (Metrics, bool) {
	m, ok := h.values[DayKey(date)]
	return m, ok
}

// Current returns today's value.
func (h *History) Current(now time.Time) Metrics {
	return h.values[DayKey(now)]
}

// AddCurrent adds m to today's value and returns the new total.
func (h *History) AddCurrent(now time.Time, m Metrics) Metrics {
	total := h.Current(now).Add(m)
	h.values[DayKey(now)] = total
	return total
}

// Len returns the number of recorded days.
func (h *History) Len() int {
	return len(h.values)
}

// Days returns the recorded day keys, oldest first.
func (h *History) Days() []string {
	days := make([]string, 0, len(h.values))
	for d := range h.values {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}

// Value returns the metrics recorded under a day key.
func (h *History) Value(day string) Metrics {
	return h.values[day]
}

// Average returns the mean over the days before today, and how many days
// contributed.
func (h *History) Average(now time.Time) (Metrics, int) {
	today := DayKey(now)
	var sum Metrics
	n := 0
	for day, m := range h.values {
		if day == today {
			continue
		}
		sum = sum.Add(m)
		n++
	}
	return sum.Scale(float64(n)), n
}

// CheckMilestone reports MilestoneExceededAverage when today's distance or
// area is above the average of the previous days.
func (h *History) CheckMilestone(now time.Time) (Milestone, bool) {
	avg, n := h.Average(now)
	if n == 0 || avg.IsZero() {
		return 0, false
	}
	cur := h.Current(now)
	if (avg.DistanceMoved > 0 && cur.DistanceMoved > avg.DistanceMoved) ||
		(avg.AreaResized > 0 && cur.AreaResized > avg.AreaResized) {
		return MilestoneExceededAverage, true
	}
	return 0, false
}
