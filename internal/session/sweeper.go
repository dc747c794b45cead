// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"
)

// Sweeper periodically deletes expired sessions.
type Sweeper struct {
	repo     Repository
	interval time.Duration
	logger   *slog.Logger
	clock    Clock

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSweeper creates a sweeper that runs every interval.
func NewSweeper(repo Repository, interval time.Duration) *Sweeper {
	return &Sweeper{
		repo:     repo,
		interval: interval,
		logger:   slog.Default(),
		clock:    time.Now,
	}
}

// SetClock replaces the clock used to decide what is expired.
func (w *Sweeper) SetClock(now Clock) { w.clock = now }

// SetLogger replaces the logger.
func (w *Sweeper) SetLogger(l *slog.Logger) { w.logger = l }

// SweepOnce deletes every session that expired before now.
func (w *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	n, err := w.repo.DeleteExpired(ctx, w.clock())
	if err != nil {
		return 0, oops.Code("SESSION_SWEEP_FAILED").Wrap(err)
	}
	if n > 0 {
		SessionsSwept.Add(float64(n))
		w.logger.InfoContext(ctx, "deleted expired sessions", "count", n)
	}
	return n, nil
}

// Run sweeps once, then every interval until ctx is cancelled. A
// non-positive interval only sweeps once.
func (w *Sweeper) Run(ctx context.Context) {
	if w.interval <= 0 {
		w.sweep(ctx)
		return
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// Start runs the sweeper in a background goroutine.
func (w *Sweeper) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return oops.Code("SESSION_SWEEP_INVALID").
			With("interval", w.interval).
			Errorf("sweep interval must be positive")
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.Run(ctx)
	}()
	return nil
}

// Stop stops the sweeper and waits for the running sweep to finish.
func (w *Sweeper) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *Sweeper) sweep(ctx context.Context) {
	if _, err := w.SweepOnce(ctx); err != nil && ctx.Err() == nil {
		w.logger.ErrorContext(ctx, "session sweep failed", "error", err)
	}
}
