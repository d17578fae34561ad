package metrics

import (
	"testing"
	"time"
)

func TestMetricsString(t *testing.T) {
	m := Metrics{DistanceMoved: 42, AreaResized: 99}
	if got := m.String(); got != "Distance: 42, Area: 99" {
		t.Fatalf("String() = %q", got)
	}
}

func TestMetricsAddAndScale(t *testing.T) {
	sum := Metrics{DistanceMoved: 1, AreaResized: 2}.Add(Metrics{DistanceMoved: 3, AreaResized: 4})
	if sum != (Metrics{DistanceMoved: 4, AreaResized: 6}) {
		t.Fatalf("Add = %+v", sum)
	}
	if half := sum.Scale(2); half != (Metrics{DistanceMoved: 2, AreaResized: 3}) {
		t.Fatalf("Scale = %+v", half)
	}
	if zero := sum.Scale(0); !zero.IsZero() {
		t.Fatalf("Scale(0) = %+v", zero)
	}
}

func TestAreaDelta(t *testing.T) {
	tests := []struct {
		w, h, dx, dy float64
		want         float64
	}{
		{2, 2, 2, 1, 8},
		{2, 2, 2, -1, 4},
		{10, 5, 0, 0, 0},
	}
	for _, tt := range tests {
		if got := AreaDelta(tt.w, tt.h, tt.dx, tt.dy); got != tt.want {
			t.Fatalf("AreaDelta(%v,%v,%v,%v) = %v, want %v", tt.w, tt.h, tt.dx, tt.dy, got, tt.want)
		}
	}
}

func TestDistance(t *testing.T) {
	if got := Distance(3, -4); got != 5 {
		t.Fatalf("Distance = %v", got)
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
}

func TestHistory_IgnoresWritesBeforeCutoff(t *testing.T) {
	now := day(2024, time.May, 10)
	h := NewHistory(30)

	if h.Set(now, now.AddDate(0, 0, -31), Metrics{DistanceMoved: 1}) {
		t.Fatal("expected write before cutoff to be ignored")
	}
	if !h.Set(now, now.AddDate(0, 0, -30), Metrics{DistanceMoved: 2}) {
		t.Fatal("expected write on the cutoff day to be kept")
	}
	if !h.Set(now, now, Metrics{DistanceMoved: 3}) {
		t.Fatal("expected write for today to be kept")
	}
	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}
	if got := h.Current(now); got.DistanceMoved != 3 {
		t.Fatalf("Current = %+v", got)
	}
}

func TestHistory_TruncatesToDay(t *testing.T) {
	now := day(2024, time.May, 10)
	h := NewHistory(30)
	h.AddCurrent(now, Metrics{DistanceMoved: 1})
	h.AddCurrent(now.Add(-10*time.Hour), Metrics{DistanceMoved: 2})

	if h.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", h.Len())
	}
	if got, _ := h.Get(now); got.DistanceMoved != 3 {
		t.Fatalf("Get = %+v", got)
	}
	if days := h.Days(); len(days) != 1 || days[0] != "2024-05-10" {
		t.Fatalf("Days = %v", days)
	}
}

func TestHistory_CheckMilestone(t *testing.T) {
	now := day(2024, time.May, 10)
	h := NewHistory(30)

	if _, ok := h.CheckMilestone(now); ok {
		t.Fatal("empty history has no milestone")
	}

	h.Set(now, now.AddDate(0, 0, -1), Metrics{DistanceMoved: 100, AreaResized: 1000})
	h.Set(now, now.AddDate(0, 0, -2), Metrics{DistanceMoved: 300, AreaResized: 3000})
	h.Set(now, now, Metrics{DistanceMoved: 150})

	avg, n := h.Average(now)
	if n != 2 || avg.DistanceMoved != 200 || avg.AreaResized != 2000 {
		t.Fatalf("Average = %+v over %d", avg, n)
	}
	if _, ok := h.CheckMilestone(now); ok {
		t.Fatal("below average should not be a milestone")
	}

	h.Set(now, now, Metrics{DistanceMoved: 250})
	m, ok := h.CheckMilestone(now)
	if !ok || m != MilestoneExceededAverage {
		t.Fatalf("CheckMilestone = %v, %v", m, ok)
	}
}

func TestSummarize(t *testing.T) {
	now := day(2024, time.May, 10)
	h := NewHistory(30)
	h.Set(now, now.AddDate(0, 0, -2), Metrics{DistanceMoved: 10})
	h.Set(now, now.AddDate(0, 0, -1), Metrics{DistanceMoved: 30})
	h.Set(now, now, Metrics{DistanceMoved: 5, AreaResized: 7})

	s := Summarize(h, now, 2)
	if s.Today != (Metrics{DistanceMoved: 5, AreaResized: 7}) {
		t.Fatalf("Today = %+v", s.Today)
	}
	if s.AverageDays != 2 || s.Average.DistanceMoved != 20 {
		t.Fatalf("Average = %+v over %d", s.Average, s.AverageDays)
	}
	if len(s.Days) != 2 || s.Days[0].Day != "2024-05-10" || s.Days[1].Day != "2024-05-09" {
		t.Fatalf("Days = %+v", s.Days)
	}
	if all := Summarize(h, now, 0); len(all.Days) != 3 {
		t.Fatalf("unlimited Days = %d, want 3", len(all.Days))
	}
}
