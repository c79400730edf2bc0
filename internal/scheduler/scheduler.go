package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// CronSpec returns the schedule for a job that runs every intervalHours.
// Intervals that divide a day use a top-of-the-hour cron expression; longer
// ones fall back to a fixed delay.
func CronSpec(intervalHours int) (string, error) {
	if intervalHours < 1 {
		return "", fmt.Errorf("interval must be at least one hour, got %d", intervalHours)
	}
	if intervalHours < 24 {
		return fmt.Sprintf("0 */%d * * *", intervalHours), nil
	}
	return fmt.Sprintf("@every %dh", intervalHours), nil
}

// Scheduler triggers a job periodically. Once stopped it never starts again.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	logger  *slog.Logger
	started bool
	stopped bool
}

func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:   cron.New(),
		logger: logger.With("component", "scheduler"),
	}
}

// Every registers job to run every intervalHours and starts the scheduler.
func (s *Scheduler) Every(intervalHours int, job func()) error {
	spec, err := CronSpec(intervalHours)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return fmt.Errorf("scheduler is stopped")
	}
	if _, err := s.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("failed to schedule job %q: %w", spec, err)
	}
	if !s.started {
		s.cron.Start()
		s.started = true
	}
	s.logger.Info("Job scheduled", "spec", spec)
	return nil
}

// Stop halts future triggers and waits for a running job to return or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	done := s.cron.Stop()
	s.mu.Unlock()

	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out waiting for running job")
	}
}

func (s *Scheduler) Entries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cron.Entries())
}
