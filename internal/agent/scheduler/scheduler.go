package scheduler

import (
	"context"

	"go-news-agent/internal/agent/config"
	"go-news-agent/internal/agent/dto"
	"go-news-agent/internal/agent/service"
	"go-news-agent/internal/agent/tasks"
	"go-news-agent/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers collection and enrichment runs on cron schedules.
// Triggered runs go through the task tracker so they serialize with runs
// started over the API.
type Scheduler struct {
	cfg       *config.Config
	collector service.CollectorService
	enricher  service.EnrichmentService
	tracker   *tasks.Tracker
	logger    *logger.Logger
	cron      *cron.Cron
}

// New creates a new Scheduler.
func New(
	cfg *config.Config,
	collector service.CollectorService,
	enricher service.EnrichmentService,
	tracker *tasks.Tracker,
	log *logger.Logger,
) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		collector: collector,
		enricher:  enricher,
		tracker:   tracker,
		logger:    log,
		cron:      cron.New(),
	}
}

// Start registers the configured cron entries and starts the cron runner.
// Entries with an empty expression are skipped.
func (s *Scheduler) Start(ctx context.Context) error {
	if expr := s.cfg.Scheduler.CollectCron; expr != "" {
		_, err := s.cron.AddFunc(expr, func() {
			id := s.tracker.Run(ctx, "collect", func(ctx context.Context) (interface{}, error) {
				n, err := s.collector.Collect(ctx, 0)
				return &dto.PipelineRunResult{Processed: n}, err
			})
			s.logger.Info("Scheduled collection triggered", logger.StringField("task_id", id))
		})
		if err != nil {
			return err
		}
	}

	if expr := s.cfg.Scheduler.EnrichCron; expr != "" {
		_, err := s.cron.AddFunc(expr, func() {
			id := s.tracker.Run(ctx, "enrich", func(ctx context.Context) (interface{}, error) {
				n, err := s.enricher.Enrich(ctx, 0)
				return &dto.PipelineRunResult{Processed: n}, err
			})
			s.logger.Info("Scheduled enrichment triggered", logger.StringField("task_id", id))
		})
		if err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("Scheduler started",
		logger.StringField("collect_cron", s.cfg.Scheduler.CollectCron),
		logger.StringField("enrich_cron", s.cfg.Scheduler.EnrichCron))
	return nil
}

// Stop stops the cron runner and waits for in-flight entries to return.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}
