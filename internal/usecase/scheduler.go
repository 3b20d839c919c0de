package usecase

import (
	"context"
	"time"

	"course-nudge/internal/ports"
)

// Scheduler wires the daily driver with the nudge job for daemon mode.
type Scheduler struct {
	driver ports.Scheduler
	job    *Job
}

// NewScheduler returns a helper to start/stop the recurring job.
func NewScheduler(driver ports.Scheduler, job *Job) *Scheduler {
	return &Scheduler{driver: driver, job: job}
}

// Start registers the job with the provided scheduler. Each trigger processes
// the day before the trigger time.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.job == nil {
		return nil
	}

	run := func(trigger time.Time) {
		day := trigger.AddDate(0, 0, -1)
		if _, err := s.job.Run(ctx, day); err != nil {
			s.job.logger.Error("scheduled nudge run failed", "error", err)
		}
	}

	return s.driver.Start(ctx, run)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
