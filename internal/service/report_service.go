package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"market-daily/internal/dto"
	"market-daily/internal/entity"
	"market-daily/internal/repository"
	"market-daily/pkg/logger"
	"market-daily/pkg/utils"
)

const (
	recentNewsLimitPortfolio = 30
	recentNewsLimitGeneral   = 15
	topicLocalNewsLimit      = 30
	topicDisplayNewsLimit    = 50
	mergedNewsDisplayLimit   = 20
	externalNewsDisplayLimit = 10
	publicPortfolioLimit     = 5
	externalLookbackDays     = 7
	highConcentrationShare   = 0.5
)

// ReportService assembles the four report kinds and persists each result
// as a Report row with status generated. Store errors are fatal to
// assembly; narrative analysis never is.
type ReportService interface {
	AssemblePortfolioReport(ctx context.Context, portfolioID uint, date *time.Time) (*entity.Report, *dto.PortfolioReportData, error)
	AssembleEnhancedPortfolioReport(ctx context.Context, portfolioID uint, date *time.Time) (*entity.Report, *dto.PortfolioReportData, error)
	AssembleTopicResearchReport(ctx context.Context, topic string, days int) (*entity.Report, *dto.TopicResearchData, error)
	AssembleGeneralReport(ctx context.Context, date *time.Time) (*entity.Report, *dto.GeneralReportData, error)
	ListReports(ctx context.Context, limit int) ([]entity.Report, error)
	GetReport(ctx context.Context, id uint) (*entity.Report, error)
}

type reportService struct {
	newsRepo      repository.NewsRepository
	portfolioRepo repository.PortfolioRepository
	reportRepo    repository.ReportRepository
	gateway       NewsGateway
	analyzer      AnalyzerService
	log           *logger.Logger
}

// NewReportService creates a new instance of ReportService.
func NewReportService(
	newsRepo repository.NewsRepository,
	portfolioRepo repository.PortfolioRepository,
	reportRepo repository.ReportRepository,
	gateway NewsGateway,
	analyzer AnalyzerService,
	log *logger.Logger,
) ReportService {
	return &reportService{
		newsRepo:      newsRepo,
		portfolioRepo: portfolioRepo,
		reportRepo:    reportRepo,
		gateway:       gateway,
		analyzer:      analyzer,
		log:           log,
	}
}

func reportDate(date *time.Time) time.Time {
	if date != nil {
		return *date
	}
	return time.Now()
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func formatDisplayDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

func (s *reportService) persist(ctx context.Context, reportType, title string, portfolioID *uint, topic string, days int, payload interface{}) (*entity.Report, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report payload: %w", err)
	}
	report := &entity.Report{
		Type:        reportType,
		Title:       title,
		PortfolioID: portfolioID,
		Payload:     raw,
		Topic:       topic,
		Days:        days,
		Status:      entity.ReportStatusGenerated,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to persist report: %w", err)
	}
	return report, nil
}

// AssemblePortfolioReport builds the basic per-portfolio digest. A
// portfolio with no holdings short-circuits to a fixed empty record
// without touching news stores or external providers.
func (s *reportService) AssemblePortfolioReport(ctx context.Context, portfolioID uint, date *time.Time) (*entity.Report, *dto.PortfolioReportData, error) {
	day := reportDate(date)

	portfolio, err := s.portfolioRepo.FindByID(ctx, portfolioID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find portfolio: %w", err)
	}

	if len(portfolio.Stocks) == 0 {
		data := emptyPortfolioReport(portfolio, day)
		report, err := s.persist(ctx, entity.ReportTypePortfolio, portfolioTitle(portfolio.Name, day), &portfolio.ID, "", 0, data)
		if err != nil {
			return nil, nil, err
		}
		return report, data, nil
	}

	data, err := s.assemblePortfolioData(ctx, portfolio, day, date != nil)
	if err != nil {
		return nil, nil, err
	}

	report, err := s.persist(ctx, entity.ReportTypePortfolio, portfolioTitle(portfolio.Name, day), &portfolio.ID, "", 0, data)
	if err != nil {
		return nil, nil, err
	}
	return report, data, nil
}

func (s *reportService) assemblePortfolioData(ctx context.Context, portfolio *entity.Portfolio, day time.Time, pinned bool) (*dto.PortfolioReportData, error) {
	symbols := make([]string, 0, len(portfolio.Stocks))
	stocks := make([]dto.StockEntry, 0, len(portfolio.Stocks))
	for _, stock := range portfolio.Stocks {
		symbols = append(symbols, stock.Symbol)
		stocks = append(stocks, dto.StockEntry{Symbol: stock.Symbol, Name: stock.Name, Sector: stock.Sector})
	}

	var rows []entity.News
	var err error
	if pinned {
		rows, err = s.newsRepo.FindByDateRange(ctx, utils.StartOfDay(day), utils.EndOfDay(day))
	} else {
		rows, err = s.newsRepo.FindRecent(ctx, recentNewsLimitPortfolio)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load news: %w", err)
	}

	portfolioNews := filterBySymbols(dto.NewsItemsFromEntities(rows), symbols)
	avgSentiment := AverageSentiment(portfolioNews)

	metrics, err := s.portfolioMetrics(ctx, symbols, day)
	if err != nil {
		return nil, err
	}

	recommendations := s.analyzer.PortfolioRecommendations(ctx, stocks, portfolioNews)
	risk := analyzePortfolioRisk(stocks, portfolioNews)

	return &dto.PortfolioReportData{
		Date:          formatDate(day),
		FormattedDate: formatDisplayDate(day),
		Portfolio: dto.PortfolioSummary{
			ID:          portfolio.ID,
			Name:        portfolio.Name,
			Description: portfolio.Description,
			Stocks:      stocks,
			StockCount:  len(stocks),
		},
		TotalNews:       len(portfolioNews),
		PortfolioNews:   portfolioNews,
		NewsByCategory:  GroupByCategory(portfolioNews),
		MarketSentiment: avgSentiment,
		Metrics:         metrics,
		Recommendations: recommendations,
		RiskAnalysis:    risk,
		Type:            entity.ReportTypePortfolio,
	}, nil
}

func (s *reportService) portfolioMetrics(ctx context.Context, symbols []string, day time.Time) (dto.PortfolioMetrics, error) {
	weekAgo := day.AddDate(0, 0, -7)
	monthAgo := day.AddDate(0, -1, 0)

	weekly, err := s.newsRepo.CountRelated(ctx, symbols, weekAgo, day)
	if err != nil {
		return dto.PortfolioMetrics{}, fmt.Errorf("failed to count weekly news: %w", err)
	}
	monthly, err := s.newsRepo.CountRelated(ctx, symbols, monthAgo, day)
	if err != nil {
		return dto.PortfolioMetrics{}, fmt.Errorf("failed to count monthly news: %w", err)
	}
	avg, err := s.newsRepo.AvgSentimentRelated(ctx, symbols, weekAgo, day)
	if err != nil {
		return dto.PortfolioMetrics{}, fmt.Errorf("failed to average sentiment: %w", err)
	}

	return dto.PortfolioMetrics{
		WeeklyNewsCount:  weekly,
		MonthlyNewsCount: monthly,
		AvgSentiment:     avg,
		ReportDate:       formatDate(day),
	}, nil
}

// AssembleEnhancedPortfolioReport wraps the basic report with external
// provider news and a deeper narrative. The enhancement never fails the
// operation: provider and analyzer degradation leave the basic report
// fields intact.
func (s *reportService) AssembleEnhancedPortfolioReport(ctx context.Context, portfolioID uint, date *time.Time) (*entity.Report, *dto.PortfolioReportData, error) {
	day := reportDate(date)

	portfolio, err := s.portfolioRepo.FindByID(ctx, portfolioID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find portfolio: %w", err)
	}

	if len(portfolio.Stocks) == 0 {
		data := emptyPortfolioReport(portfolio, day)
		report, err := s.persist(ctx, entity.ReportTypeEnhancedPortfolio, enhancedTitle(portfolio.Name, day), &portfolio.ID, "", 0, data)
		if err != nil {
			return nil, nil, err
		}
		return report, data, nil
	}

	data, err := s.assemblePortfolioData(ctx, portfolio, day, date != nil)
	if err != nil {
		return nil, nil, err
	}

	symbols := make([]string, 0, len(data.Portfolio.Stocks))
	for _, stock := range data.Portfolio.Stocks {
		symbols = append(symbols, stock.Symbol)
	}

	externalNews := s.gateway.FetchPortfolioNews(ctx, symbols, externalLookbackDays)
	merged := append(append([]dto.NewsItem{}, data.PortfolioNews...), externalNews...)

	data.ExternalAnalysis = s.analyzer.ExternalNewsAnalysis(ctx, externalNews)
	data.EnhancedAnalysis = s.analyzer.EnhancedAnalysis(ctx, data.Portfolio.Stocks, merged)
	data.MarketSentiment = AverageSentiment(merged)
	data.PortfolioNews = capItems(merged, mergedNewsDisplayLimit)
	data.ExternalNews = capItems(externalNews, externalNewsDisplayLimit)
	data.TotalExternalNews = len(externalNews)
	data.DataSource = "enhanced"
	data.Type = entity.ReportTypeEnhancedPortfolio

	report, err := s.persist(ctx, entity.ReportTypeEnhancedPortfolio, enhancedTitle(portfolio.Name, day), &portfolio.ID, "", 0, data)
	if err != nil {
		return nil, nil, err
	}
	return report, data, nil
}

// AssembleTopicResearchReport merges local substring matches with external
// provider results over the trailing window. An empty merged set yields a
// fixed "no data" record rather than an error.
func (s *reportService) AssembleTopicResearchReport(ctx context.Context, topic string, days int) (*entity.Report, *dto.TopicResearchData, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -days)

	localRows, err := s.newsRepo.SearchByTopic(ctx, topic, start, now, topicLocalNewsLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search news: %w", err)
	}
	localNews := dto.NewsItemsFromEntities(localRows)
	externalNews := s.gateway.FetchMarketNews(ctx, topic, days)
	merged := append(append([]dto.NewsItem{}, localNews...), externalNews...)

	var data *dto.TopicResearchData
	if len(merged) == 0 {
		data = &dto.TopicResearchData{
			Topic:     topic,
			DateRange: fmt.Sprintf("%s to %s", formatDate(start), formatDate(now)),
			Summary:   fmt.Sprintf("No news found for %q.", topic),
			Analysis:  "Not enough data to generate an analysis.",
			News:      []dto.NewsItem{},
			Type:      entity.ReportTypeTopicResearch,
		}
	} else {
		analysis := s.analyzer.TopicAnalysis(ctx, topic, merged)
		data = &dto.TopicResearchData{
			Topic:             topic,
			DateRange:         fmt.Sprintf("%s to %s", formatDate(start), formatDate(now)),
			NewsCount:         len(merged),
			LocalNewsCount:    len(localNews),
			ExternalNewsCount: len(externalNews),
			News:              capItems(merged, topicDisplayNewsLimit),
			Sentiment:         AverageSentiment(merged),
			Summary:           analysis.Summary,
			Analysis:          analysis.Analysis,
			Trends:            analysis.Trends,
			Recommendations:   analysis.Recommendations,
			RiskFactors:       analysis.RiskFactors,
			Opportunities:     analysis.Opportunities,
			Type:              entity.ReportTypeTopicResearch,
		}
	}

	report, err := s.persist(ctx, entity.ReportTypeTopicResearch, topicTitle(topic, now), nil, topic, days, data)
	if err != nil {
		return nil, nil, err
	}
	return report, data, nil
}

// AssembleGeneralReport builds the market-wide digest from the most recent
// global news plus up to five public portfolios.
func (s *reportService) AssembleGeneralReport(ctx context.Context, date *time.Time) (*entity.Report, *dto.GeneralReportData, error) {
	day := reportDate(date)

	rows, err := s.newsRepo.FindRecent(ctx, recentNewsLimitGeneral)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load news: %w", err)
	}
	news := dto.NewsItemsFromEntities(rows)
	byCategory := GroupByCategory(news)

	portfolios, err := s.portfolioRepo.FindPublic(ctx, publicPortfolioLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load public portfolios: %w", err)
	}
	public := make([]dto.PublicPortfolio, 0, len(portfolios))
	for _, p := range portfolios {
		public = append(public, dto.PublicPortfolio{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			StockCount:  len(p.Stocks),
		})
	}

	data := &dto.GeneralReportData{
		Date:            formatDate(day),
		FormattedDate:   formatDisplayDate(day),
		TotalNews:       len(news),
		NewsByCategory:  byCategory,
		MarketSentiment: AverageSentiment(news),
		Portfolios:      public,
		MarketOverview:  s.analyzer.MarketOverview(ctx, news),
		TrendingTopics:  TrendingTopics(news),
		MarketTrends:    MarketTrends(byCategory),
		IsGeneral:       true,
		Type:            entity.ReportTypeGeneral,
	}

	report, err := s.persist(ctx, entity.ReportTypeGeneral, generalTitle(day), nil, "", 0, data)
	if err != nil {
		return nil, nil, err
	}
	return report, data, nil
}

func (s *reportService) ListReports(ctx context.Context, limit int) ([]entity.Report, error) {
	return s.reportRepo.FindRecent(ctx, limit)
}

func (s *reportService) GetReport(ctx context.Context, id uint) (*entity.Report, error) {
	return s.reportRepo.FindByID(ctx, id)
}

func portfolioTitle(name string, day time.Time) string {
	return fmt.Sprintf("%s Portfolio Daily Report - %s", name, formatDisplayDate(day))
}

func enhancedTitle(name string, day time.Time) string {
	return fmt.Sprintf("%s Enhanced Portfolio Report - %s", name, formatDisplayDate(day))
}

func topicTitle(topic string, day time.Time) string {
	return fmt.Sprintf("Topic Research Report: %s - %s", topic, formatDisplayDate(day))
}

func generalTitle(day time.Time) string {
	return fmt.Sprintf("Daily Market Report - %s", formatDisplayDate(day))
}

func filterBySymbols(items []dto.NewsItem, symbols []string) []dto.NewsItem {
	held := make(map[string]struct{}, len(symbols))
	for _, symbol := range symbols {
		held[symbol] = struct{}{}
	}
	var matched []dto.NewsItem
	for _, item := range items {
		for _, symbol := range item.Symbols {
			if _, ok := held[symbol]; ok {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched
}

func capItems(items []dto.NewsItem, limit int) []dto.NewsItem {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

// analyzePortfolioRisk applies the fixed concentration and news-risk
// rules: any single sector holding more than half the stocks is high
// concentration, and negative items outnumbering positive ones is high
// news risk.
func analyzePortfolioRisk(stocks []dto.StockEntry, news []dto.NewsItem) dto.RiskAnalysis {
	sectors := make(map[string]int)
	for _, stock := range stocks {
		sector := stock.Sector
		if sector == "" {
			sector = "unknown"
		}
		sectors[sector]++
	}

	concentrationRisk := "medium"
	for _, count := range sectors {
		if float64(count)/float64(len(stocks)) > highConcentrationShare {
			concentrationRisk = "high"
			break
		}
	}

	dist := SentimentDistribution(news)
	newsRisk := "medium"
	switch {
	case dist.Negative > dist.Positive:
		newsRisk = "high"
	case dist.Negative == 0:
		newsRisk = "low"
	}

	return dto.RiskAnalysis{
		ConcentrationRisk:     concentrationRisk,
		NewsRisk:              newsRisk,
		SectorDistribution:    sectors,
		SentimentDistribution: dist,
	}
}

func emptyPortfolioReport(portfolio *entity.Portfolio, day time.Time) *dto.PortfolioReportData {
	return &dto.PortfolioReportData{
		Date:          formatDate(day),
		FormattedDate: formatDisplayDate(day),
		Portfolio: dto.PortfolioSummary{
			ID:          portfolio.ID,
			Name:        portfolio.Name,
			Description: portfolio.Description,
			Stocks:      []dto.StockEntry{},
			StockCount:  0,
		},
		TotalNews:       0,
		PortfolioNews:   []dto.NewsItem{},
		NewsByCategory:  map[string][]dto.NewsItem{},
		MarketSentiment: 0,
		Metrics: dto.PortfolioMetrics{
			ReportDate: formatDate(day),
		},
		Recommendations: &dto.PortfolioRecommendations{
			Recommendations: []string{"Add stocks to the portfolio to start receiving coverage."},
			RiskLevel:       "low",
			Summary:         "The portfolio has no holdings, so no news digest was generated.",
		},
		RiskAnalysis: dto.RiskAnalysis{
			ConcentrationRisk:  "low",
			NewsRisk:           "low",
			SectorDistribution: map[string]int{},
		},
		IsEmpty: true,
		Type:    entity.ReportTypePortfolio,
	}
}
