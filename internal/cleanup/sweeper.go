package cleanup

import (
	"context"
	"log/slog"
	"time"
)

// Sweepable is any store that can drop its expired entries on demand.
// The in-memory session store implements it; Redis-backed sessions expire
// natively and need no sweeper.
type Sweepable interface {
	SweepExpired() int
}

// Sweeper periodically removes expired sessions from an in-memory store
type Sweeper struct {
	store    Sweepable
	interval time.Duration
}

// NewSweeper creates a new session sweeper
func NewSweeper(store Sweepable, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	return &Sweeper{
		store:    store,
		interval: interval,
	}
}

// Start begins the sweeper in a goroutine
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
}

// run is the main loop for the sweeper
func (s *Sweeper) run(ctx context.Context) {
	slog.Info("session sweeper started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			if removed := s.store.SweepExpired(); removed > 0 {
				slog.Info("expired sessions removed", "count", removed)
			}
		}
	}
}
