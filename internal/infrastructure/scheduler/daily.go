package scheduler

import (
	"context"
	"time"

	"course-nudge/internal/ports"
)

// DailyScheduler triggers the nudge job once per day in daemon mode. The
// first run fires immediately, subsequent runs every 24 hours.
type DailyScheduler struct {
	interval time.Duration
	stop     chan struct{}
}

var _ ports.Scheduler = (*DailyScheduler)(nil)

// NewDailyScheduler builds a scheduler with a fixed daily interval.
func NewDailyScheduler() *DailyScheduler {
	return &DailyScheduler{interval: 24 * time.Hour}
}

// Start begins ticking; calling Start on a running scheduler is a no-op.
func (s *DailyScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if s.stop != nil {
		return nil
	}

	s.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		job(time.Now())
		for {
			select {
			case t := <-ticker.C:
				job(t)
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine.
func (s *DailyScheduler) Stop(ctx context.Context) error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}
