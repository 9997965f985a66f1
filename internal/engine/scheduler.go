package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs periodic watch refreshes.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	log    *slog.Logger
}

// NewScheduler creates a Scheduler refreshing watches every interval.
func NewScheduler(
	eng *Engine,
	watchInterval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:   c,
		engine: eng,
		log:    log,
	}

	if _, err := c.AddFunc(
		"@every "+watchInterval.String(),
		s.runWatchRefresh,
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runWatchRefresh() {
	ctx := context.Background()
	s.log.Info("scheduled watch refresh starting")
	if err := s.engine.RunWatchRefresh(ctx); err != nil {
		s.log.Error("scheduled watch refresh failed", "error", err)
	}
}
