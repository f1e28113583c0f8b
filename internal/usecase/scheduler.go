package usecase

import (
	"context"
	"log/slog"
	"time"

	"NewsLedger/internal/ports"
)

// Scheduler wires the cron driver with the recurring ingest jobs.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	tweets   *TweetPull
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring ingestion.
// tweets may be nil when the side channel is disabled.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, tweets *TweetPull, log *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, tweets: tweets, logger: log}
}

// Start registers the ingest jobs with the driver. A failing run is
// logged and the schedule keeps going; the next trigger gets a clean
// attempt.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	return s.driver.Start(ctx, func(trigger time.Time) {
		s.RunOnce(ctx, trigger)
	})
}

// RunOnce executes one full trigger: the ingest pipeline, then the X
// side channel when it is enabled. Failures are logged, never fatal.
func (s *Scheduler) RunOnce(ctx context.Context, trigger time.Time) {
	if s.pipeline == nil {
		return
	}

	if _, err := s.pipeline.Run(ctx); err != nil {
		s.error("scheduled ingest failed", "trigger", trigger.Format(time.RFC3339), "error", err)
	}
	if s.tweets == nil {
		return
	}
	if _, err := s.tweets.Run(ctx); err != nil {
		s.error("scheduled tweet pull failed", "trigger", trigger.Format(time.RFC3339), "error", err)
	}
}

// Stop gracefully tears down the underlying driver.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}

func (s *Scheduler) error(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Error(msg, args...)
	}
}
