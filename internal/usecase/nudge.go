package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"time"

	"github.com/google/uuid"

	"course-nudge/internal/domain"
	"course-nudge/internal/ports"
	"course-nudge/internal/selection"
)

// JobDeps wires all driven adapters into the nudge job.
type JobDeps struct {
	Grades     ports.GradeStore
	Catalog    ports.Catalog
	Progress   ports.ProgressMeter
	Enterprise ports.EnterpriseLookup
	Events     ports.EventSink
	Marker     ports.NudgeMarker
	Logger     *slog.Logger

	MarketingRootURL string
	PortalBaseURL    string

	// Commit controls whether events are actually emitted. With Commit
	// false the job still selects and audits but never calls the sink.
	Commit bool
}

// Job runs one pass of the program course nudge batch: find yesterday's
// passing learners, pick the next unstarted course in the highest-revenue
// program containing the completed course, and emit one suggestion event
// per learner.
type Job struct {
	grades     ports.GradeStore
	catalog    ports.Catalog
	progress   ports.ProgressMeter
	enterprise ports.EnterpriseLookup
	events     ports.EventSink
	marker     ports.NudgeMarker
	logger     *slog.Logger

	marketingRootURL string
	portalBaseURL    string
	commit           bool
}

// NewJob constructs the orchestration component.
func NewJob(deps JobDeps) *Job {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Job{
		grades:           deps.Grades,
		catalog:          deps.Catalog,
		progress:         deps.Progress,
		enterprise:       deps.Enterprise,
		events:           deps.Events,
		marker:           deps.Marker,
		logger:           logger,
		marketingRootURL: deps.MarketingRootURL,
		portalBaseURL:    deps.PortalBaseURL,
		commit:           deps.Commit,
	}
}

// Run processes every (course, user) pair that passed on the given day and
// returns the audit records of sent (or would-send) nudges. Processing is
// strictly sequential; the first collaborator failure aborts the run.
func (j *Job) Run(ctx context.Context, day time.Time) ([]domain.AuditRecord, error) {
	courseToUsers, err := j.grades.PassedCourses(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("load passed courses: %w", err)
	}

	distinctUsers := map[int64]struct{}{}
	for _, users := range courseToUsers {
		for _, user := range users {
			distinctUsers[user.ID] = struct{}{}
		}
	}
	j.logger.Info("found passing grades",
		"day", day.Format("2006-01-02"),
		"courses", len(courseToUsers),
		"users", len(distinctUsers))

	courseKeys := make([]string, 0, len(courseToUsers))
	for key := range courseToUsers {
		courseKeys = append(courseKeys, key)
	}
	sort.Strings(courseKeys)

	audit := make([]domain.AuditRecord, 0)
	for _, completedCourseID := range courseKeys {
		records, err := j.processCourse(ctx, completedCourseID, courseToUsers[completedCourseID])
		if err != nil {
			return audit, err
		}
		audit = append(audit, records...)
	}

	j.logger.Info("nudge run finished", "sent", len(audit), "records", audit)
	return audit, nil
}

func (j *Job) processCourse(ctx context.Context, completedCourseID string, users []domain.User) ([]domain.AuditRecord, error) {
	programs, err := j.catalog.ProgramsByCourse(ctx, completedCourseID)
	if err != nil {
		return nil, fmt.Errorf("programs for %s: %w", completedCourseID, err)
	}
	if len(programs) == 0 {
		j.logger.Debug("course not part of any program", "course", completedCourseID)
		return nil, nil
	}

	ranked := selection.RankPrograms(programs)
	byUUID := make(map[uuid.UUID]domain.Program, len(ranked))
	uuids := make([]uuid.UUID, 0, len(ranked))
	for _, program := range ranked {
		byUUID[program.UUID] = program
		uuids = append(uuids, program.UUID)
	}

	var audit []domain.AuditRecord
	for _, user := range users {
		record, err := j.processUser(ctx, user, completedCourseID, uuids, byUUID)
		if err != nil {
			return audit, err
		}
		if record != nil {
			audit = append(audit, *record)
		}
	}
	return audit, nil
}

func (j *Job) processUser(ctx context.Context, user domain.User, completedCourseID string, uuids []uuid.UUID, byUUID map[uuid.UUID]domain.Program) (*domain.AuditRecord, error) {
	if j.marker != nil {
		nudged, err := j.marker.AlreadyNudged(ctx, completedCourseID, user.ID)
		if err != nil {
			j.logger.Warn("nudge marker check failed", "user", user.Username, "error", err)
		} else if nudged {
			j.logger.Debug("user already nudged", "user", user.Username, "course", completedCourseID)
			return nil, nil
		}
	}

	partitions, err := j.progress.Partition(ctx, user, uuids)
	if err != nil {
		return nil, fmt.Errorf("progress for %s: %w", user.Username, err)
	}

	match, found := selection.NextCourse(partitions, byUUID, completedCourseID)
	if !found {
		return nil, nil
	}

	completedRun, ok := match.Program.FindCourseRun(completedCourseID)
	if !ok {
		j.logger.Warn("completed run missing from suggested program",
			"course", completedCourseID, "program", match.Program.UUID)
		return nil, nil
	}

	if j.commit {
		if err := j.emit(ctx, user, completedRun, match); err != nil {
			return nil, err
		}
	}

	return &domain.AuditRecord{
		Username:        user.Username,
		CompletedCourse: completedCourseID,
		SuggestedCourse: match.Run.Key,
	}, nil
}

func (j *Job) emit(ctx context.Context, user domain.User, completedRun domain.CourseRun, match selection.Match) error {
	customer, err := j.enterprise.Learner(ctx, user)
	if err != nil {
		return fmt.Errorf("enterprise lookup for %s: %w", user.Username, err)
	}

	courseURL, err := j.suggestedCourseURL(customer, match)
	if err != nil {
		return err
	}

	event := domain.NudgeEvent{
		User:               user,
		Program:            match.Program,
		CompletedRun:       completedRun,
		SuggestedRun:       match.Run,
		SuggestedCourseURL: courseURL,
	}

	if err := j.events.Track(ctx, user.ID, domain.NudgeEventName, event.Properties()); err != nil {
		return fmt.Errorf("track nudge for %s: %w", user.Username, err)
	}

	j.logger.Info("nudge event fired",
		"completed_course", completedRun.Key,
		"program", match.Program.UUID,
		"suggested_course", match.Run.Key,
		"user", user.Username)

	if j.marker != nil {
		if err := j.marker.MarkNudged(ctx, completedRun.Key, user.ID); err != nil {
			j.logger.Warn("nudge marker update failed", "user", user.Username, "error", err)
		}
	}

	return nil
}

// suggestedCourseURL routes enterprise learners with an enabled portal to the
// B2B course landing page; everyone else gets the public marketing page.
func (j *Job) suggestedCourseURL(customer *domain.EnterpriseCustomer, match selection.Match) (string, error) {
	if customer != nil && customer.EnableLearnerPortal {
		return joinURL(j.portalBaseURL, customer.Slug, "course", match.Course.Key)
	}
	return joinURL(j.marketingRootURL, match.Run.MarketingURL)
}

func joinURL(base string, elems ...string) (string, error) {
	// an absolute first element wins outright, mirroring urljoin semantics
	if len(elems) == 1 {
		if parsed, err := url.Parse(elems[0]); err == nil && parsed.IsAbs() {
			return elems[0], nil
		}
	}
	joined, err := url.JoinPath(base, elems...)
	if err != nil {
		return "", fmt.Errorf("join url %s: %w", base, err)
	}
	return joined, nil
}
