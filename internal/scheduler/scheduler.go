// Package scheduler drives the periodic notification sweep.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"zolta/internal/pkg/clock"
	"zolta/internal/usecase/commands"
)

// Scheduler runs the sweep on a fixed interval. Sweeps are idempotent, so an
// overlapping or duplicated run is harmless; only the stamp winner delivers.
type Scheduler struct {
	sweep    commands.SweepCommands
	clock    clock.Clock
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func New(sweep commands.SweepCommands, clk clock.Clock, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		sweep:    sweep,
		clock:    clk,
		interval: interval,
	}
}

func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx)
}

func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// First sweep immediately so restarts do not delay owed notifications.
	s.runOnce(ctx)

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if err := s.sweep.RunSweep(ctx, s.clock.Now()); err != nil {
		slog.Error("notification sweep failed", "error", err)
	}
}
