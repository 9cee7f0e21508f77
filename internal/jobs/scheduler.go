// Package jobs runs scheduled background work.
package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/patrimmo/patrimmo_backend/internal/middleware"
)

// Scheduler owns the cron runner for background jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler creates a scheduler using the standard 5-field cron format.
func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

// RegisterSnapshotJob schedules the periodic portfolio snapshot sweep.
func (s *Scheduler) RegisterSnapshotJob(spec string, snapshots portssvc.SnapshotSvc) error {
	jobLogger := s.logger.With(slog.String("job", "portfolio_snapshots"))

	_, err := s.cron.AddFunc(spec, func() {
		// The sweep runs outside any request, so the logger rides the context
		// the same way the HTTP middleware would put it there.
		ctx := middleware.ContextWithLogger(context.Background(), jobLogger)
		jobLogger.Info("Snapshot sweep starting")
		if err := snapshots.CaptureSnapshots(ctx); err != nil {
			jobLogger.Error("Snapshot sweep failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid snapshot cron spec %q: %w", spec, err)
	}
	return nil
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling new runs and returns a context that closes once
// in-flight jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
