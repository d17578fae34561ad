package daemon

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakePruneStore struct {
	cutoffs []time.Time
	n       int64
	err     error
}

func (f *fakePruneStore) Prune(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.n, f.err
}

func TestPruneNowUsesDepth(t *testing.T) {
	store := &fakePruneStore{n: 4}
	p := NewPruner(PrunerConfig{Depth: 7}, store)
	p.now = func() time.Time { return time.Date(2024, time.May, 10, 15, 0, 0, 0, time.Local) }

	if n := p.PruneNow(context.Background()); n != 4 {
		t.Fatalf("PruneNow = %d, want 4", n)
	}
	want := time.Date(2024, time.May, 3, 0, 0, 0, 0, time.Local)
	if !store.cutoffs[0].Equal(want) {
		t.Fatalf("cutoff = %v, want %v", store.cutoffs[0], want)
	}

	p.SetDepth(1)
	p.PruneNow(context.Background())
	if want := time.Date(2024, time.May, 9, 0, 0, 0, 0, time.Local); !store.cutoffs[1].Equal(want) {
		t.Fatalf("cutoff after SetDepth = %v", store.cutoffs[1])
	}
}

func TestPruneNowSurvivesErrors(t *testing.T) {
	store := &fakePruneStore{err: errors.New("database is locked")}
	p := NewPruner(PrunerConfig{}, store)
	if n := p.PruneNow(context.Background()); n != 0 {
		t.Fatalf("PruneNow = %d on error", n)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	store := &fakePruneStore{}
	p := NewPruner(PrunerConfig{Interval: time.Hour}, store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not stop")
	}
	if len(store.cutoffs) != 1 {
		t.Fatalf("expected one immediate prune, got %d", len(store.cutoffs))
	}
}
