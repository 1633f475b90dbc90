package usecase

import (
	"context"
	"log/slog"
	"time"

	"Wavecrest/internal/ports"
)

// Scheduler runs the ads sync on a recurring driver.
type Scheduler struct {
	driver ports.Scheduler
	ads    *AdsSync
	days   int
	logger *slog.Logger
}

// NewScheduler returns a helper to start and stop the recurring sync.
func NewScheduler(driver ports.Scheduler, ads *AdsSync, days int, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{driver: driver, ads: ads, days: days, logger: logger.With("component", "scheduler")}
}

// Start registers the sync with the driver. Nothing is scheduled when no
// part of the ads sync is configured.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.ads == nil {
		return nil
	}
	if !s.ads.IsConfigured() && !s.ads.IsLeadsConfigured() {
		s.logger.Info("ads sync not configured, scheduler idle")
		return nil
	}

	job := func(trigger time.Time) {
		result, err := s.ads.SyncAll(ctx, s.days)
		if err != nil {
			s.logger.Error("scheduled sync failed", "trigger", trigger, "error", err)
			return
		}
		s.logger.Info("scheduled sync done", "trigger", trigger,
			"campaigns", count(result.Campaigns), "metrics", count(result.Metrics), "leads", count(result.Leads))
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
