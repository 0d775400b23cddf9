package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SweepScheduler drives the cron sweep on a fixed interval. Expressions
// resolve to the minute, so the interval defaults to one minute.
type SweepScheduler struct {
	mu       sync.RWMutex
	sweep    *SweepService
	interval time.Duration
	onChange func(*SweepResult)
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSweepScheduler creates a scheduler. onChange fires after any sweep
// that latched or cleared a chore; pass nil to ignore.
func NewSweepScheduler(sweep *SweepService, onChange func(*SweepResult), logger *slog.Logger) *SweepScheduler {
	return &SweepScheduler{
		sweep:    sweep,
		interval: 60 * time.Second,
		onChange: onChange,
		logger:   logger.With("component", "sweep-scheduler"),
	}
}

// Start begins the sweep loop.
func (s *SweepScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *SweepScheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *SweepScheduler) tick() {
	result, err := s.sweep.Sweep()
	if err != nil {
		s.logger.Error("sweep failed", "error", err)
		return
	}
	if result.Changed && s.onChange != nil {
		s.onChange(result)
	}
}
