package service

import (
	"context"
	"fmt"

	"market-daily/internal/dto"
	"market-daily/internal/entity"
	"market-daily/internal/repository"
	"market-daily/pkg/logger"
	"market-daily/pkg/mailer"
)

// EmailService dispatches rendered reports to subscribers and records one
// EmailLog row per attempt. One recipient failing never aborts the batch.
type EmailService interface {
	Dispatch(ctx context.Context, msg dto.EmailMessage, recipients []string, reportID *uint) []dto.DispatchOutcome
	SendDailyReports(ctx context.Context) (*dto.DigestSummary, error)
	SendTopicResearchReport(ctx context.Context, topic string, days int, recipients []string) ([]dto.DispatchOutcome, *dto.TopicResearchData, error)
	SendEnhancedPortfolioReport(ctx context.Context, portfolioID uint, recipients []string) ([]dto.DispatchOutcome, *dto.PortfolioReportData, error)
	DeliveryLog(ctx context.Context, reportID uint) ([]entity.EmailLog, error)
}

type emailService struct {
	notifier         mailer.Notifier
	subscriptionRepo repository.SubscriptionRepository
	emailLogRepo     repository.EmailLogRepository
	reportRepo       repository.ReportRepository
	reportService    ReportService
	adminEmail       string
	useEnhanced      bool
	log              *logger.Logger
}

// NewEmailService creates a new instance of EmailService.
func NewEmailService(
	notifier mailer.Notifier,
	subscriptionRepo repository.SubscriptionRepository,
	emailLogRepo repository.EmailLogRepository,
	reportRepo repository.ReportRepository,
	reportService ReportService,
	adminEmail string,
	useEnhanced bool,
	log *logger.Logger,
) EmailService {
	return &emailService{
		notifier:         notifier,
		subscriptionRepo: subscriptionRepo,
		emailLogRepo:     emailLogRepo,
		reportRepo:       reportRepo,
		reportService:    reportService,
		adminEmail:       adminEmail,
		useEnhanced:      useEnhanced,
		log:              log,
	}
}

// Dispatch sends one copy per recipient sequentially. Every attempt is
// logged regardless of outcome; a log-write failure is itself logged and
// does not change the delivery outcome.
func (s *emailService) Dispatch(ctx context.Context, msg dto.EmailMessage, recipients []string, reportID *uint) []dto.DispatchOutcome {
	outcomes := make([]dto.DispatchOutcome, 0, len(recipients))
	for _, recipient := range recipients {
		outcome := dto.DispatchOutcome{Email: recipient, Status: entity.EmailStatusSent}
		row := &entity.EmailLog{
			Recipient: recipient,
			Subject:   msg.Subject,
			Status:    entity.EmailStatusSent,
			ReportID:  reportID,
		}

		if err := s.notifier.Send(recipient, msg.Subject, msg.Text, msg.HTML); err != nil {
			s.log.Error("email send failed",
				logger.StringField("recipient", recipient),
				logger.StringField("subject", msg.Subject),
				logger.ErrorField(err))
			outcome.Status = entity.EmailStatusFailed
			outcome.Error = err.Error()
			row.Status = entity.EmailStatusFailed
			row.ErrorMessage = err.Error()
		}

		if err := s.emailLogRepo.Create(ctx, row); err != nil {
			s.log.Error("failed to record email log",
				logger.StringField("recipient", recipient),
				logger.ErrorField(err))
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// SendDailyReports generates and dispatches the scheduled digest: one
// report per portfolio that has active subscribers, plus the general
// market report for general subscribers. A failing group is reported to
// the admin address and does not stop the remaining groups.
func (s *emailService) SendDailyReports(ctx context.Context) (*dto.DigestSummary, error) {
	subs, err := s.subscriptionRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	byPortfolio := make(map[uint][]string)
	var general []string
	for _, sub := range subs {
		if sub.PortfolioID == nil {
			general = append(general, sub.Email)
			continue
		}
		byPortfolio[*sub.PortfolioID] = append(byPortfolio[*sub.PortfolioID], sub.Email)
	}

	summary := &dto.DigestSummary{
		Total:                  len(subs),
		PortfolioSubscriptions: len(subs) - len(general),
		GeneralSubscriptions:   len(general),
	}

	for portfolioID, recipients := range byPortfolio {
		if err := s.sendPortfolioDigest(ctx, portfolioID, recipients); err != nil {
			s.log.Error("portfolio digest failed",
				logger.Field("portfolio_id", portfolioID),
				logger.ErrorField(err))
			s.notifyAdmin(fmt.Sprintf("portfolio %d", portfolioID), err)
		}
	}

	if len(general) > 0 {
		if err := s.sendGeneralDigest(ctx, general); err != nil {
			s.log.Error("general digest failed", logger.ErrorField(err))
			s.notifyAdmin("general digest", err)
		}
	}

	return summary, nil
}

func (s *emailService) sendPortfolioDigest(ctx context.Context, portfolioID uint, recipients []string) error {
	var report *entity.Report
	var data *dto.PortfolioReportData
	var err error
	if s.useEnhanced {
		report, data, err = s.reportService.AssembleEnhancedPortfolioReport(ctx, portfolioID, nil)
	} else {
		report, data, err = s.reportService.AssemblePortfolioReport(ctx, portfolioID, nil)
	}
	if err != nil {
		return err
	}

	msg := RenderPortfolioReport(data)
	outcomes := s.Dispatch(ctx, msg, recipients, &report.ID)
	return s.updateReportStatus(ctx, report.ID, outcomes)
}

func (s *emailService) sendGeneralDigest(ctx context.Context, recipients []string) error {
	report, data, err := s.reportService.AssembleGeneralReport(ctx, nil)
	if err != nil {
		return err
	}

	msg := RenderGeneralReport(data)
	outcomes := s.Dispatch(ctx, msg, recipients, &report.ID)
	return s.updateReportStatus(ctx, report.ID, outcomes)
}

// SendTopicResearchReport assembles a topic report and dispatches it to
// the given recipients, returning both the outcomes and the report data.
func (s *emailService) SendTopicResearchReport(ctx context.Context, topic string, days int, recipients []string) ([]dto.DispatchOutcome, *dto.TopicResearchData, error) {
	report, data, err := s.reportService.AssembleTopicResearchReport(ctx, topic, days)
	if err != nil {
		return nil, nil, err
	}

	msg := RenderTopicResearchReport(data, report.CreatedAt.Format("January 2, 2006"))
	outcomes := s.Dispatch(ctx, msg, recipients, &report.ID)
	if err := s.updateReportStatus(ctx, report.ID, outcomes); err != nil {
		return outcomes, data, err
	}
	return outcomes, data, nil
}

// SendEnhancedPortfolioReport assembles an enhanced report on demand and
// dispatches it to the given recipients.
func (s *emailService) SendEnhancedPortfolioReport(ctx context.Context, portfolioID uint, recipients []string) ([]dto.DispatchOutcome, *dto.PortfolioReportData, error) {
	report, data, err := s.reportService.AssembleEnhancedPortfolioReport(ctx, portfolioID, nil)
	if err != nil {
		return nil, nil, err
	}

	msg := RenderPortfolioReport(data)
	outcomes := s.Dispatch(ctx, msg, recipients, &report.ID)
	if err := s.updateReportStatus(ctx, report.ID, outcomes); err != nil {
		return outcomes, data, err
	}
	return outcomes, data, nil
}

// DeliveryLog returns every dispatch attempt recorded for a report.
func (s *emailService) DeliveryLog(ctx context.Context, reportID uint) ([]entity.EmailLog, error) {
	logs, err := s.emailLogRepo.FindByReportID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to load delivery log: %w", err)
	}
	return logs, nil
}

// updateReportStatus marks the report sent when at least one recipient
// received it, failed otherwise.
func (s *emailService) updateReportStatus(ctx context.Context, reportID uint, outcomes []dto.DispatchOutcome) error {
	status := entity.ReportStatusFailed
	for _, outcome := range outcomes {
		if outcome.Status == entity.EmailStatusSent {
			status = entity.ReportStatusSent
			break
		}
	}
	return s.reportRepo.UpdateStatus(ctx, reportID, status)
}

// notifyAdmin is best-effort: its own failure is logged and swallowed.
func (s *emailService) notifyAdmin(scope string, genErr error) {
	if s.adminEmail == "" {
		return
	}
	msg := RenderGenerationError(scope, genErr)
	if err := s.notifier.Send(s.adminEmail, msg.Subject, msg.Text, msg.HTML); err != nil {
		s.log.Error("admin notification failed", logger.ErrorField(err))
	}
}
