package service

import (
	"context"
	"errors"
	"testing"

	"market-daily/internal/dto"
	"market-daily/internal/entity"
	"market-daily/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	failFor map[string]error
	sent    []string
}

func (f *fakeNotifier) Send(to, subject, textBody, htmlBody string) error {
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeEmailLogRepository struct {
	rows []*entity.EmailLog
}

func (f *fakeEmailLogRepository) Create(ctx context.Context, log *entity.EmailLog) error {
	f.rows = append(f.rows, log)
	return nil
}

func (f *fakeEmailLogRepository) FindByReportID(ctx context.Context, reportID uint) ([]entity.EmailLog, error) {
	var logs []entity.EmailLog
	for _, row := range f.rows {
		if row.ReportID != nil && *row.ReportID == reportID {
			logs = append(logs, *row)
		}
	}
	return logs, nil
}

type fakeSubscriptionRepository struct {
	active []entity.EmailSubscription
}

func (f *fakeSubscriptionRepository) Create(ctx context.Context, sub *entity.EmailSubscription) error {
	return nil
}

func (f *fakeSubscriptionRepository) Delete(ctx context.Context, id uint) error { return nil }

func (f *fakeSubscriptionRepository) FindAll(ctx context.Context) ([]entity.EmailSubscription, error) {
	return f.active, nil
}

func (f *fakeSubscriptionRepository) FindActive(ctx context.Context) ([]entity.EmailSubscription, error) {
	return f.active, nil
}

func TestDispatchRecordsEveryRecipient(t *testing.T) {
	notifier := &fakeNotifier{failFor: map[string]error{
		"b@example.com": errors.New("mailbox unavailable"),
	}}
	logRepo := &fakeEmailLogRepository{}
	reportID := uint(7)

	svc := NewEmailService(notifier, &fakeSubscriptionRepository{}, logRepo, &fakeReportRepository{}, nil, "", false, logger.NewNop())
	msg := dto.EmailMessage{Subject: "Digest", HTML: "<p>hi</p>", Text: "hi"}
	recipients := []string{"a@example.com", "b@example.com", "c@example.com"}

	outcomes := svc.Dispatch(context.Background(), msg, recipients, &reportID)

	require.Equal(t, 3, len(outcomes))
	require.Equal(t, 3, len(logRepo.rows))

	sent, failed := 0, 0
	for i, outcome := range outcomes {
		assert.Equal(t, recipients[i], outcome.Email)
		assert.Equal(t, outcome.Status, logRepo.rows[i].Status)
		assert.Equal(t, &reportID, logRepo.rows[i].ReportID)
		switch outcome.Status {
		case entity.EmailStatusSent:
			sent++
		case entity.EmailStatusFailed:
			failed++
			assert.Equal(t, "mailbox unavailable", outcome.Error)
			assert.Equal(t, "mailbox unavailable", logRepo.rows[i].ErrorMessage)
		}
	}
	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, failed)

	// The log is queryable per report afterwards.
	logs, err := svc.DeliveryLog(context.Background(), reportID)
	require.NoError(t, err)
	assert.Equal(t, 3, len(logs))

	other, err := svc.DeliveryLog(context.Background(), reportID+1)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestDispatchContinuesPastFirstFailure(t *testing.T) {
	notifier := &fakeNotifier{failFor: map[string]error{
		"a@example.com": errors.New("boom"),
	}}
	logRepo := &fakeEmailLogRepository{}

	svc := NewEmailService(notifier, &fakeSubscriptionRepository{}, logRepo, &fakeReportRepository{}, nil, "", false, logger.NewNop())
	outcomes := svc.Dispatch(context.Background(), dto.EmailMessage{Subject: "s"}, []string{"a@example.com", "b@example.com"}, nil)

	require.Equal(t, 2, len(outcomes))
	assert.Equal(t, entity.EmailStatusFailed, outcomes[0].Status)
	assert.Equal(t, entity.EmailStatusSent, outcomes[1].Status)
	assert.Equal(t, []string{"b@example.com"}, notifier.sent)
}

func newDigestFixture(notifier *fakeNotifier, subs []entity.EmailSubscription) (EmailService, *fakeReportRepository, *fakeEmailLogRepository) {
	sentiment := 0.4
	newsRepo := &fakeNewsRepository{
		recent: []entity.News{
			{Title: "Apple beats estimates", URL: "https://example.com/aapl", Symbols: []string{"AAPL"}, Sentiment: &sentiment},
		},
	}
	portfolioRepo := &fakePortfolioRepository{
		portfolio: &entity.Portfolio{
			ID:     1,
			Name:   "Tech",
			Stocks: []entity.PortfolioStock{{Symbol: "AAPL", Name: "Apple"}},
		},
	}
	reportRepo := &fakeReportRepository{}
	logRepo := &fakeEmailLogRepository{}
	log := logger.NewNop()
	reportSvc := NewReportService(newsRepo, portfolioRepo, reportRepo, &fakeGateway{}, NewAnalyzerService(nil, log), log)
	subRepo := &fakeSubscriptionRepository{active: subs}
	return NewEmailService(notifier, subRepo, logRepo, reportRepo, reportSvc, "admin@example.com", false, log), reportRepo, logRepo
}

func TestSendDailyReportsMarksReportSent(t *testing.T) {
	portfolioID := uint(1)
	notifier := &fakeNotifier{}
	svc, reportRepo, logRepo := newDigestFixture(notifier, []entity.EmailSubscription{
		{Email: "a@example.com", PortfolioID: &portfolioID, IsActive: true},
		{Email: "b@example.com", PortfolioID: &portfolioID, IsActive: true},
	})

	summary, err := svc.SendDailyReports(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.PortfolioSubscriptions)
	assert.Equal(t, 0, summary.GeneralSubscriptions)

	require.Equal(t, 1, len(reportRepo.created))
	assert.Equal(t, entity.ReportStatusSent, reportRepo.statuses[reportRepo.created[0].ID])
	assert.Equal(t, 2, len(logRepo.rows))
}

func TestSendDailyReportsMarksReportFailedWhenAllSendsFail(t *testing.T) {
	portfolioID := uint(1)
	notifier := &fakeNotifier{failFor: map[string]error{
		"a@example.com": errors.New("boom"),
	}}
	svc, reportRepo, _ := newDigestFixture(notifier, []entity.EmailSubscription{
		{Email: "a@example.com", PortfolioID: &portfolioID, IsActive: true},
	})

	_, err := svc.SendDailyReports(context.Background())

	require.NoError(t, err)
	require.Equal(t, 1, len(reportRepo.created))
	assert.Equal(t, entity.ReportStatusFailed, reportRepo.statuses[reportRepo.created[0].ID])
}

func TestSendDailyReportsGeneralGroup(t *testing.T) {
	notifier := &fakeNotifier{}
	svc, reportRepo, _ := newDigestFixture(notifier, []entity.EmailSubscription{
		{Email: "g@example.com", IsActive: true},
	})

	summary, err := svc.SendDailyReports(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, summary.GeneralSubscriptions)
	require.Equal(t, 1, len(reportRepo.created))
	assert.Equal(t, entity.ReportTypeGeneral, reportRepo.created[0].Type)
	assert.Equal(t, []string{"g@example.com"}, notifier.sent)
}
