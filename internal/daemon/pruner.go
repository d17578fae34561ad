package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// PruneStore deletes metrics rows older than a cutoff day.
type PruneStore interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// PrunerConfig holds configuration for the pruner.
type PrunerConfig struct {
	Interval time.Duration
	// Depth is the number of days of history to keep.
	Depth  int
	Logger *slog.Logger
}

// Pruner periodically drops metrics history that has aged out.
type Pruner struct {
	interval time.Duration
	store    PruneStore
	logger   *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	depth int
}

// NewPruner creates a new pruner with the given configuration.
func NewPruner(cfg PrunerConfig, store PruneStore) *Pruner {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	depth := cfg.Depth
	if depth <= 0 {
		depth = 30
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pruner{
		interval: interval,
		store:    store,
		logger:   logger,
		now:      time.Now,
		depth:    depth,
	}
}

// SetDepth changes how many days are kept, e.g. after a config reload.
func (p *Pruner) SetDepth(depth int) {
	if depth <= 0 {
		return
	}
	p.mu.Lock()
	p.depth = depth
	p.mu.Unlock()
}

// Run prunes once immediately, then on every tick. Blocks until ctx is cancelled.
func (p *Pruner) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("pruner started", "interval", p.interval)
	p.PruneNow(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pruner stopped")
			return
		case <-ticker.C:
			p.PruneNow(ctx)
		}
	}
}

// PruneNow performs a single pass and returns the number of rows removed.
func (p *Pruner) PruneNow(ctx context.Context) int64 {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			p.logger.Error("pruner panic recovered", "error", err)
		}
	}()

	p.mu.Lock()
	depth := p.depth
	p.mu.Unlock()

	y, m, d := p.now().Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.Local).AddDate(0, 0, -depth)

	n, err := p.store.Prune(ctx, cutoff)
	if err != nil {
		p.logger.Warn("pruner: failed to prune metrics", "error", err)
		return 0
	}
	if n > 0 {
		p.logger.Info("pruner: removed old metrics", "rows", n, "cutoff", cutoff.Format("2006-01-02"))
	}
	return n
}
