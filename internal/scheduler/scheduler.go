package scheduler

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Runner is the unit of work the scheduler triggers, stamped with the trigger time
type Runner func(now time.Time)

// Scheduler triggers the runner once per day at a fixed local time. Runs are
// invoked from a single goroutine, so at most one run is in flight at a time.
type Scheduler struct {
	hour   int
	minute int
	loc    *time.Location
	runner Runner
	logger *zap.Logger
	stopCh chan struct{}
}

// New creates a scheduler for a daily HH:MM trigger in the given timezone
func New(timeOfDay, timezone string, runner Runner, logger *zap.Logger) (*Scheduler, error) {
	t, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule time %q: %w", timeOfDay, err)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	return &Scheduler{
		hour:   t.Hour(),
		minute: t.Minute(),
		loc:    loc,
		runner: runner,
		logger: logger,
		stopCh: make(chan struct{}),
	}, nil
}

// Start begins the scheduling loop in a background goroutine
func (s *Scheduler) Start() {
	s.logger.Info("Scheduler started",
		zap.String("time", fmt.Sprintf("%02d:%02d", s.hour, s.minute)),
		zap.String("timezone", s.loc.String()))
	go s.loop()
}

// Stop terminates the scheduling loop. A run already in progress finishes.
func (s *Scheduler) Stop() {
	close(s.stopCh)
}

func (s *Scheduler) loop() {
	for {
		next := s.nextRun(time.Now().In(s.loc))
		timer := time.NewTimer(time.Until(next))
		s.logger.Debug("Next run scheduled", zap.Time("at", next))

		select {
		case now := <-timer.C:
			s.runner(now.In(s.loc))
		case <-s.stopCh:
			timer.Stop()
			s.logger.Info("Scheduler stopped")
			return
		}
	}
}

// nextRun returns the next occurrence of the configured time after now
func (s *Scheduler) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, s.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// RunOnce triggers the runner immediately with the current time in the given timezone
func RunOnce(timezone string, runner Runner) error {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	runner(time.Now().In(loc))
	return nil
}
