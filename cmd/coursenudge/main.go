package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"course-nudge/internal/app"
	"course-nudge/internal/config"
	"course-nudge/internal/logging"
)

func main() {
	noCommit := flag.Bool("no-commit", false, "dry run: select and log nudges without emitting events")
	dateArg := flag.String("date", "", "evaluate this day (YYYY-MM-DD) instead of yesterday")
	daemon := flag.Bool("daemon", false, "keep running and re-evaluate daily")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	opts := app.Options{Commit: !*noCommit, Daemon: *daemon}
	if *dateArg != "" {
		day, err := time.ParseInLocation("2006-01-02", *dateArg, cfg.Scheduler.Location())
		if err != nil {
			logger.Error("invalid --date value", "value", *dateArg, "error", err)
			os.Exit(2)
		}
		opts.Day = day
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, opts, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
