package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"course-nudge/internal/config"
	"course-nudge/internal/infrastructure/catalog"
	"course-nudge/internal/infrastructure/dedup"
	"course-nudge/internal/infrastructure/enterprise"
	"course-nudge/internal/infrastructure/progress"
	"course-nudge/internal/infrastructure/scheduler"
	"course-nudge/internal/infrastructure/segment"
	"course-nudge/internal/infrastructure/storage"
	"course-nudge/internal/logging"
	"course-nudge/internal/ports"
	"course-nudge/internal/usecase"
)

// Options carries the CLI decisions into the wiring.
type Options struct {
	// Commit is the inverse of --no-commit: false keeps the run dry.
	Commit bool

	// Day is the calendar day to evaluate; zero means yesterday.
	Day time.Time

	// Daemon keeps the process alive and re-runs the job daily.
	Daemon bool
}

// Application wires configs to the nudge job and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	opts      Options
	logger    *slog.Logger
	job       *usecase.Job
	scheduler *usecase.Scheduler
	db        *sql.DB
	redis     *redis.Client
}

// New builds a runnable application instance.
func New(cfg config.Config, opts Options, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open grades database: %w", err)
	}

	var (
		redisClient *redis.Client
		marker      ports.NudgeMarker
	)
	if cfg.Dedup.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Dedup.Addr,
			Password: cfg.Dedup.Password,
			DB:       cfg.Dedup.DB,
		})
		marker = dedup.NewMarker(redisClient, cfg.Dedup.Retention())
	}

	job := usecase.NewJob(usecase.JobDeps{
		Grades:           storage.NewGradeRepository(db),
		Catalog:          catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIToken),
		Progress:         progress.NewClient(cfg.Progress.BaseURL),
		Enterprise:       enterprise.NewClient(cfg.Enterprise.BaseURL),
		Events:           segment.NewClient(cfg.Segment.Endpoint, cfg.Segment.WriteKey),
		Marker:           marker,
		Logger:           logging.Component(baseLogger, "nudge"),
		MarketingRootURL: cfg.Marketing.RootURL,
		PortalBaseURL:    cfg.Enterprise.PortalBaseURL,
		Commit:           opts.Commit,
	})

	return &Application{
		cfg:       cfg,
		opts:      opts,
		logger:    baseLogger,
		job:       job,
		scheduler: usecase.NewScheduler(scheduler.NewDailyScheduler(), job),
		db:        db,
		redis:     redisClient,
	}, nil
}

// Run executes one batch pass, or blocks on the daily scheduler in daemon
// mode until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if a.opts.Daemon {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		<-ctx.Done()
		return a.scheduler.Stop(context.Background())
	}

	day := a.opts.Day
	if day.IsZero() {
		day = time.Now().In(a.cfg.Scheduler.Location()).AddDate(0, 0, -1)
	}

	_, err := a.job.Run(ctx, day)
	return err
}

// Close releases the database and Redis connections.
func (a *Application) Close() error {
	var firstErr error
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			firstErr = err
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
