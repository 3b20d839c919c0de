package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"course-nudge/internal/domain"
)

// GradeStore reads persisted course grades.
type GradeStore interface {
	// PassedCourses returns, for the given calendar day, each course passed
	// on that day mapped to the distinct users who passed it.
	PassedCourses(ctx context.Context, day time.Time) (map[string][]domain.User, error)
}

// Catalog fetches program details from the discovery service.
type Catalog interface {
	// ProgramsByCourse returns the active programs containing the course,
	// with courses and course runs fully materialized.
	ProgramsByCourse(ctx context.Context, courseKey string) ([]domain.Program, error)
}

// ProgressMeter partitions program courses by one learner's progress.
type ProgressMeter interface {
	Partition(ctx context.Context, user domain.User, programUUIDs []uuid.UUID) ([]domain.ProgramProgress, error)
}

// EnterpriseLookup resolves the enterprise customer a learner belongs to.
// A nil customer with nil error means the learner is not enterprise-linked.
type EnterpriseLookup interface {
	Learner(ctx context.Context, user domain.User) (*domain.EnterpriseCustomer, error)
}

// EventSink delivers analytics events. Delivery is fire-and-forget; the job
// never awaits downstream confirmation.
type EventSink interface {
	Track(ctx context.Context, userID int64, event string, properties map[string]string) error
}

// NudgeMarker remembers which (course, user) pairs were already nudged so a
// re-run inside the retention window does not emit duplicates.
type NudgeMarker interface {
	AlreadyNudged(ctx context.Context, courseKey string, userID int64) (bool, error)
	MarkNudged(ctx context.Context, courseKey string, userID int64) error
}

// Scheduler controls when the job executes in daemon mode.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
