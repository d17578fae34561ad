package metrics

import "time"

// DayMetrics is one day's totals.
type DayMetrics struct {
	Day string `json:"day"`
	Metrics
}

// Summary is a reporting view over a History.
type Summary struct {
	Today       Metrics      `json:"today"`
	Average     Metrics      `json:"average"`
	AverageDays int          `json:"average_days"`
	Days        []DayMetrics `json:"days"`
}

// Summarize reports today's totals, the prior-day average and the most
// recent limit days, newest first. limit <= 0 includes every day.
func Summarize(h *History, now time.Time, limit int) Summary {
	avg, n := h.Average(now)
	s := Summary{
		Today:       h.Current(now),
		Average:     avg,
		AverageDays: n,
	}

	days := h.Days()
	for i := len(days) - 1; i >= 0; i-- {
		if limit > 0 && len(s.Days) >= limit {
			break
		}
		s.Days = append(s.Days, DayMetrics{Day: days[i], Metrics: h.Value(days[i])})
	}
	return s
}
