package service

import (
	"context"
	"fmt"

	"market-daily/internal/config"
	"market-daily/pkg/logger"
	"market-daily/pkg/utils"

	"github.com/robfig/cron/v3"
)

// SchedulerService runs the background jobs: the daily digest dispatch,
// the hourly news refresh, and the daily retention cleanup. Each tick is
// fire-and-forget; a failing run is logged and the schedule keeps going.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
}

type schedulerService struct {
	cfg          *config.Scheduler
	newsService  NewsService
	emailService EmailService
	cron         *cron.Cron
	log          *logger.Logger
}

// NewSchedulerService creates a new instance of SchedulerService.
func NewSchedulerService(cfg *config.Scheduler, newsService NewsService, emailService EmailService, log *logger.Logger) SchedulerService {
	return &schedulerService{
		cfg:          cfg,
		newsService:  newsService,
		emailService: emailService,
		cron:         cron.New(),
		log:          log,
	}
}

// Start registers the jobs and begins the cron loop. The loop runs until
// Stop is called or ctx is cancelled.
func (s *schedulerService) Start(ctx context.Context) error {
	jobs := []struct {
		name string
		expr string
		run  func()
	}{
		{"daily_digest", s.cfg.DigestCron, func() { s.runDigest(ctx) }},
		{"news_refresh", s.cfg.RefreshCron, func() { s.runRefresh(ctx) }},
		{"news_cleanup", s.cfg.CleanupCron, func() { s.runCleanup(ctx) }},
	}

	for _, job := range jobs {
		if job.expr == "" {
			s.log.Warn("job disabled, no cron expression", logger.StringField("job", job.name))
			continue
		}
		run := job.run
		if _, err := s.cron.AddFunc(job.expr, func() { utils.GoSafe(run) }); err != nil {
			return fmt.Errorf("failed to register %s job: %w", job.name, err)
		}
		s.log.Info("job registered",
			logger.StringField("job", job.name),
			logger.StringField("cron", job.expr))
	}

	s.cron.Start()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop halts the cron loop, waiting for in-flight jobs to finish.
func (s *schedulerService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info("scheduler stopped")
}

func (s *schedulerService) runDigest(ctx context.Context) {
	summary, err := s.emailService.SendDailyReports(ctx)
	if err != nil {
		s.log.Error("daily digest run failed", logger.ErrorField(err))
		return
	}
	s.log.Info("daily digest run finished",
		logger.IntField("subscriptions", summary.Total),
		logger.IntField("portfolio", summary.PortfolioSubscriptions),
		logger.IntField("general", summary.GeneralSubscriptions))
}

func (s *schedulerService) runRefresh(ctx context.Context) {
	stored, err := s.newsService.RefreshNews(ctx)
	if err != nil {
		s.log.Error("news refresh run failed", logger.ErrorField(err))
		return
	}
	s.log.Info("news refresh run finished", logger.IntField("stored", stored))
}

func (s *schedulerService) runCleanup(ctx context.Context) {
	deleted, err := s.newsService.CleanOldNews(ctx)
	if err != nil {
		s.log.Error("news cleanup run failed", logger.ErrorField(err))
		return
	}
	s.log.Info("news cleanup run finished", logger.Field("deleted", deleted))
}
