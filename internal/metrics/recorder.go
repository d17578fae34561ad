package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const milestoneTitle = "New window fiddling milestone"

// Recorder adds finished gestures to today's totals and announces milestones
// at most once per day.
type Recorder struct {
	store    *Store
	notifier Notifier
	logger   *slog.Logger

	mu    sync.Mutex
	depth int
	now   func() time.Time
}

// NewRecorder returns a recorder writing to store. notifier may be nil.
func NewRecorder(store *Store, notifier Notifier, depth int, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Recorder{
		store:    store,
		notifier: notifier,
		logger:   logger,
		depth:    depth,
		now:      time.Now,
	}
}

// SetDepth changes how many days count toward the average.
func (r *Recorder) SetDepth(depth int) {
	if depth <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.depth = depth
}

// Record adds m to today's row and checks for a milestone.
func (r *Recorder) Record(ctx context.Context, m Metrics) error {
	if m.IsZero() {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	total, err := r.store.Add(ctx, now, m)
	if err != nil {
		return err
	}
	r.logger.Debug("metrics recorded", "day", DayKey(now), "total", total.String())

	history, err := r.store.History(ctx, r.depth, now)
	if err != nil {
		return err
	}
	milestone, ok := history.CheckMilestone(now)
	if !ok || r.notifier == nil {
		return nil
	}

	last, found, err := r.store.LastNotified(ctx)
	if err != nil {
		return err
	}
	if found && last == DayKey(now) {
		return nil
	}

	if err := r.notifier.Notify(milestoneTitle, "Above average mousing today: "+total.String()); err != nil {
		r.logger.Warn("milestone notification failed", "milestone", milestone.String(), "error", err)
		return nil
	}
	r.logger.Info("milestone reached", "milestone", milestone.String(), "total", total.String())
	return r.store.SetLastNotified(ctx, now)
}

// History returns the current window of daily metrics.
func (r *Recorder) History(ctx context.Context) (*History, error) {
	r.mu.Lock()
	depth, now := r.depth, r.now()
	r.mu.Unlock()
	return r.store.History(ctx, depth, now)
}
