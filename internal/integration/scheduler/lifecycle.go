// Package scheduler triggers the budget lifecycle sweep periodically.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/lifecycle"
)

// ErrSweepLocked is returned by RunNow when another instance holds the sweep lock.
var ErrSweepLocked = errors.New("lifecycle sweep already running")

// Sweeper runs one lifecycle sweep.
type Sweeper interface {
	Execute(ctx context.Context, input lifecycle.RunSweepInput) (*lifecycle.RunSweepOutput, error)
}

// Config holds the scheduler timings.
type Config struct {
	Interval   time.Duration
	LockTTL    time.Duration
	RunOnStart bool
}

// DefaultConfig returns the default scheduler timings.
func DefaultConfig() Config {
	return Config{
		Interval:   time.Hour,
		LockTTL:    5 * time.Minute,
		RunOnStart: true,
	}
}

// LifecycleScheduler runs the sweep on a ticker under a distributed lock.
type LifecycleScheduler struct {
	sweeper Sweeper
	lock    adapter.SweepLock
	clock   adapter.Clock
	config  Config
}

// NewLifecycleScheduler creates a new scheduler. Zero config values fall back to the defaults.
func NewLifecycleScheduler(sweeper Sweeper, lock adapter.SweepLock, clock adapter.Clock, config Config) *LifecycleScheduler {
	defaults := DefaultConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.LockTTL <= 0 {
		config.LockTTL = defaults.LockTTL
	}
	return &LifecycleScheduler{
		sweeper: sweeper,
		lock:    lock,
		clock:   clock,
		config:  config,
	}
}

// Start runs the sweep every interval. It blocks until the context is cancelled.
func (s *LifecycleScheduler) Start(ctx context.Context) {
	slog.Info("Lifecycle scheduler started",
		"interval", s.config.Interval,
		"run_on_start", s.config.RunOnStart,
	)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	if s.config.RunOnStart {
		s.tick(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Lifecycle scheduler shutting down")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *LifecycleScheduler) tick(ctx context.Context) {
	_, err := s.RunNow(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrSweepLocked):
		slog.DebugContext(ctx, "Lifecycle sweep skipped, lock held elsewhere")
	default:
		slog.ErrorContext(ctx, "Lifecycle sweep failed", "error", err)
	}
}

// RunNow runs one sweep at the clock's current time if the lock can be taken.
func (s *LifecycleScheduler) RunNow(ctx context.Context) (*lifecycle.RunSweepOutput, error) {
	acquired, err := s.lock.Acquire(ctx, s.config.LockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrSweepLocked
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx)); err != nil {
			slog.WarnContext(ctx, "Failed to release sweep lock", "error", err)
		}
	}()

	return s.sweeper.Execute(ctx, lifecycle.RunSweepInput{Now: s.clock.Now()})
}
