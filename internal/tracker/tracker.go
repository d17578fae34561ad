// Package tracker turns pointer samples into window moves and resizes.
package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/hoverdrag/internal/metrics"
	"github.com/1broseidon/hoverdrag/internal/modifier"
	"github.com/1broseidon/hoverdrag/internal/platform"
	"github.com/1broseidon/hoverdrag/internal/prefs"
)

// Phase is the tracker's gesture state.
type Phase int

const (
	Idle Phase = iota
	Moving
	Resizing
)

func (p Phase) String() string {
	switch p {
	case Moving:
		return "moving"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Sample is a pointer reading at a point in time.
type Sample struct {
	X    int
	Y    int
	Held modifier.Flags
	Time time.Time
}

// Settings supplies the armed modifier sets and the global switch.
type Settings interface {
	Flags(g prefs.Gesture) modifier.Flags
	Enabled() bool
}

// WindowSystem finds windows and reads and writes their geometry.
type WindowSystem interface {
	// WindowAt returns the window under a root position, or 0.
	WindowAt(x, y int) (platform.WindowID, error)
	Geometry(windowID platform.WindowID) (platform.Rect, error)
	MoveResize(windowID platform.WindowID, bounds platform.Rect) error
}

// Pointer produces samples for Run.
type Pointer interface {
	Sample() (platform.Pointer, error)
}

// Sink receives the metrics of each finished gesture.
type Sink interface {
	Record(ctx context.Context, m metrics.Metrics) error
}

type tracking struct {
	window     platform.WindowID
	rect       platform.Rect
	lastX      int
	lastY      int
	lastApply  time.Time
	totals     metrics.Metrics
	haveWindow bool
}

// Tracker is the gesture state machine. Handle is safe for concurrent use
// but samples are expected from a single poller.
type Tracker struct {
	settings Settings
	windows  WindowSystem
	sink     Sink
	logger   *slog.Logger

	mu             sync.Mutex
	phase          Phase
	info           tracking
	moveInterval   time.Duration
	resizeInterval time.Duration
}

// New creates a tracker. sink and logger may be nil.
func New(settings Settings, windows WindowSystem, sink Sink, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		settings:       settings,
		windows:        windows,
		sink:           sink,
		logger:         logger,
		moveInterval:   10 * time.Millisecond,
		resizeInterval: 20 * time.Millisecond,
	}
}

// SetIntervals replaces the move and resize throttles. Non-positive values
// are ignored.
func (t *Tracker) SetIntervals(move, resize time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if move > 0 {
		t.moveInterval = move
	}
	if resize > 0 {
		t.resizeInterval = resize
	}
}

// Intervals returns the move and resize throttles.
func (t *Tracker) Intervals() (move, resize time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.moveInterval, t.resizeInterval
}

// Phase returns the current phase.
func (t *Tracker) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// NextPhase maps held modifiers onto a phase given the armed sets.
func NextPhase(move, resize, held modifier.Flags, enabled bool) Phase {
	if !enabled || (move.IsEmpty() && resize.IsEmpty()) {
		return Idle
	}
	isMove := move.ExclusivelySetIn(held)
	isResize := resize.ExclusivelySetIn(held)
	switch {
	case isMove:
		// Both only match when the sets are identical; moving wins.
		return Moving
	case isResize:
		return Resizing
	default:
		return Idle
	}
}

// Handle advances the state machine by one sample.
func (t *Tracker) Handle(ctx context.Context, s Sample) {
	next := NextPhase(
		t.settings.Flags(prefs.Move),
		t.settings.Flags(prefs.Resize),
		s.Held,
		t.settings.Enabled(),
	)

	t.mu.Lock()
	prev := t.phase
	var finished metrics.Metrics
	var flush bool

	switch {
	case prev == Idle && next == Idle:
	case prev == Idle:
		t.startLocked(s)
	case prev == Resizing && next == Moving:
		totals := t.info.totals
		t.startLocked(s)
		t.info.totals = totals
	case next == Idle:
		finished, flush = t.info.totals, true
		t.info = tracking{}
	case prev == Moving && next == Resizing:
		t.refreshLocked()
		t.info.lastX, t.info.lastY = s.X, s.Y
	case prev == Moving:
		t.moveLocked(s)
	case prev == Resizing:
		t.resizeLocked(s)
	}
	t.phase = next
	t.mu.Unlock()

	if prev != next {
		t.logger.Debug("tracker phase changed", "from", prev.String(), "to", next.String())
	}
	if flush && !finished.IsZero() && t.sink != nil {
		if err := t.sink.Record(ctx, finished); err != nil {
			t.logger.Warn("failed to record metrics", "error", err)
		}
	}
}

func (t *Tracker) startLocked(s Sample) {
	t.info = tracking{lastX: s.X, lastY: s.Y, lastApply: s.Time}
	window, err := t.windows.WindowAt(s.X, s.Y)
	if err != nil {
		t.logger.Debug("failed to find window under pointer", "x", s.X, "y", s.Y, "error", err)
		return
	}
	if window == 0 {
		return
	}
	rect, err := t.windows.Geometry(window)
	if err != nil {
		t.logger.Debug("failed to read window geometry", "window", uint32(window), "error", err)
		return
	}
	t.info.window = window
	t.info.rect = rect
	t.info.haveWindow = true
}

func (t *Tracker) refreshLocked() {
	if !t.info.haveWindow {
		return
	}
	rect, err := t.windows.Geometry(t.info.window)
	if err != nil {
		t.logger.Debug("failed to read window geometry", "window", uint32(t.info.window), "error", err)
		return
	}
	t.info.rect.Width, t.info.rect.Height = rect.Width, rect.Height
}

func (t *Tracker) delta(s Sample) (int, int) {
	dx, dy := s.X-t.info.lastX, s.Y-t.info.lastY
	t.info.lastX, t.info.lastY = s.X, s.Y
	return dx, dy
}

func (t *Tracker) moveLocked(s Sample) {
	dx, dy := t.delta(s)
	if !t.info.haveWindow {
		return
	}
	t.info.totals.DistanceMoved += metrics.Distance(float64(dx), float64(dy))
	t.info.rect.X += dx
	t.info.rect.Y += dy

	if s.Time.Sub(t.info.lastApply) <= t.moveInterval {
		return
	}
	t.applyLocked(s.Time)
}

func (t *Tracker) resizeLocked(s Sample) {
	dx, dy := t.delta(s)
	if !t.info.haveWindow {
		return
	}
	r := &t.info.rect
	t.info.totals.DistanceMoved += metrics.Distance(float64(dx), float64(dy))
	t.info.totals.AreaResized += metrics.AreaDelta(float64(r.Width), float64(r.Height), float64(dx), float64(dy))
	r.Width = max(1, r.Width+dx)
	r.Height = max(1, r.Height+dy)

	if s.Time.Sub(t.info.lastApply) <= t.resizeInterval {
		return
	}
	t.applyLocked(s.Time)
}

func (t *Tracker) applyLocked(now time.Time) {
	if err := t.windows.MoveResize(t.info.window, t.info.rect); err != nil {
		t.logger.Debug("failed to move window", "window", uint32(t.info.window), "error", err)
		return
	}
	t.info.lastApply = now
}

// Run polls pointer at half the move interval and feeds Handle until ctx
// is done.
func (t *Tracker) Run(ctx context.Context, pointer Pointer) error {
	interval := t.pollInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	t.logger.Info("tracker started", "interval", interval)
	defer t.logger.Info("tracker stopped")

	for {
		select {
		case <-ctx.Done():
			// Flush an in-flight gesture.
			t.Handle(context.WithoutCancel(ctx), Sample{Time: time.Now()})
			return ctx.Err()
		case now := <-ticker.C:
			p, err := pointer.Sample()
			if err != nil {
				t.logger.Debug("pointer sample failed", "error", err)
				continue
			}
			t.Handle(ctx, Sample{X: p.X, Y: p.Y, Held: p.Modifiers, Time: now})

			if current := t.pollInterval(); current != interval {
				interval = current
				ticker.Reset(interval)
			}
		}
	}
}

func (t *Tracker) pollInterval() time.Duration {
	move, _ := t.Intervals()
	if move < 2*time.Millisecond {
		return time.Millisecond
	}
	return move / 2
}
