package metrics

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "metrics.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_AddAccumulates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := day(2024, time.May, 10)

	if _, err := s.Add(ctx, now, Metrics{DistanceMoved: 10, AreaResized: 5}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	total, err := s.Add(ctx, now.Add(time.Hour), Metrics{DistanceMoved: 2, AreaResized: 1})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if total != (Metrics{DistanceMoved: 12, AreaResized: 6}) {
		t.Fatalf("total = %+v", total)
	}
}

func TestStore_HistoryRespectsDepthAndPrune(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := day(2024, time.May, 10)

	for _, offset := range []int{0, -1, -5, -40} {
		if _, err := s.Add(ctx, now.AddDate(0, 0, offset), Metrics{DistanceMoved: 1}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	h, err := s.History(ctx, 30, now)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if h.Len() != 3 {
		t.Fatalf("History len = %d, want 3 (days %v)", h.Len(), h.Days())
	}

	n, err := s.Prune(ctx, h.Cutoff(now))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 1 {
		t.Fatalf("pruned %d rows, want 1", n)
	}

	wide, err := s.History(ctx, 365, now)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if wide.Len() != 3 {
		t.Fatalf("after prune len = %d, want 3", wide.Len())
	}
}

func TestStore_LastNotified(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, found, err := s.LastNotified(ctx); err != nil || found {
		t.Fatalf("LastNotified = found %v, err %v", found, err)
	}
	if err := s.SetLastNotified(ctx, day(2024, time.May, 10)); err != nil {
		t.Fatalf("SetLastNotified: %v", err)
	}
	if err := s.SetLastNotified(ctx, day(2024, time.May, 11)); err != nil {
		t.Fatalf("SetLastNotified: %v", err)
	}
	last, found, err := s.LastNotified(ctx)
	if err != nil || !found || last != "2024-05-11" {
		t.Fatalf("LastNotified = %q, %v, %v", last, found, err)
	}
}

type recordingNotifier struct {
	calls []string
	err   error
}

func (n *recordingNotifier) Notify(title, body string) error {
	n.calls = append(n.calls, body)
	return n.err
}

func TestRecorder_NotifiesOncePerDay(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := day(2024, time.May, 10)

	if _, err := s.Add(ctx, now.AddDate(0, 0, -1), Metrics{DistanceMoved: 100}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	notifier := &recordingNotifier{}
	r := NewRecorder(s, notifier, 30, nil)
	r.now = func() time.Time { return now }

	if err := r.Record(ctx, Metrics{DistanceMoved: 50}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("notified below average: %v", notifier.calls)
	}

	if err := r.Record(ctx, Metrics{DistanceMoved: 60}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := r.Record(ctx, Metrics{DistanceMoved: 70}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("notified %d times, want 1", len(notifier.calls))
	}
	if notifier.calls[0] != "Above average mousing today: Distance: 110, Area: 0" {
		t.Fatalf("body = %q", notifier.calls[0])
	}

	next := now.AddDate(0, 0, 1)
	r.now = func() time.Time { return next }
	if err := r.Record(ctx, Metrics{DistanceMoved: 500}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(notifier.calls) != 2 {
		t.Fatalf("expected a new notification the next day, got %d", len(notifier.calls))
	}
}

func TestRecorder_FailedNotificationIsRetried(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := day(2024, time.May, 10)
	if _, err := s.Add(ctx, now.AddDate(0, 0, -1), Metrics{AreaResized: 10}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	notifier := &recordingNotifier{err: errors.New("no notification daemon")}
	r := NewRecorder(s, notifier, 30, nil)
	r.now = func() time.Time { return now }

	if err := r.Record(ctx, Metrics{AreaResized: 20}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	notifier.err = nil
	if err := r.Record(ctx, Metrics{AreaResized: 1}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(notifier.calls) != 2 {
		t.Fatalf("expected retry after failure, got %d calls", len(notifier.calls))
	}
}
