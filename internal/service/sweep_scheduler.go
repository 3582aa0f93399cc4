package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"invoicegate/internal/domain"
	"invoicegate/internal/logging"
	"invoicegate/internal/schedule"
)

const defaultSchedulerRetry = time.Hour

// SweepScheduler runs one scheduled sweep per day at a fixed wall-clock time.
type SweepScheduler struct {
	sweeps     SweepService
	at         schedule.TimeOfDay
	loc        *time.Location
	retryDelay time.Duration
	now        func() time.Time
	log        *zap.Logger

	mu   sync.RWMutex
	next time.Time
}

// NewSweepScheduler creates a scheduler firing daily at the given time in loc.
func NewSweepScheduler(sweeps SweepService, at schedule.TimeOfDay, loc *time.Location, logger *zap.Logger) *SweepScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &SweepScheduler{
		sweeps:     sweeps,
		at:         at,
		loc:        loc,
		retryDelay: defaultSchedulerRetry,
		now:        time.Now,
		log:        logging.Component(logger, "scheduler"),
	}
}

// WithClock overrides the time source and retry delay; used by tests.
func (s *SweepScheduler) WithClock(now func() time.Time, retryDelay time.Duration) *SweepScheduler {
	s.now = now
	s.retryDelay = retryDelay
	return s
}

// NextRun returns the upcoming scheduled sweep, computed from the current clock.
func (s *SweepScheduler) NextRun() time.Time {
	s.mu.RLock()
	next := s.next
	s.mu.RUnlock()
	if !next.IsZero() && next.After(s.now()) {
		return next
	}
	return schedule.NextDailyRun(s.now().In(s.loc), s.at)
}

// Start blocks, sweeping once per day, until ctx is canceled.
func (s *SweepScheduler) Start(ctx context.Context) {
	s.log.Info("scheduler started", zap.String("daily_check_time", s.at.String()), zap.String("timezone", s.loc.String()))

	for {
		now := s.now().In(s.loc)
		next := schedule.NextDailyRun(now, s.at)
		s.mu.Lock()
		s.next = next
		s.mu.Unlock()

		wait := next.Sub(now)
		s.log.Info("next scheduled check", zap.Time("at", next), zap.Duration("in", wait))
		if !sleep(ctx, wait) {
			s.log.Info("scheduler stopped")
			return
		}

		if _, err := s.sweeps.Sweep(ctx, domain.SweepTriggerScheduled, SweepOverrides{}); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Error("scheduled sweep failed", zap.Error(err), zap.Duration("retry_in", s.retryDelay))
			if !sleep(ctx, s.retryDelay) {
				return
			}
		}
	}
}

// sleep waits for d or ctx, reporting false when ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
