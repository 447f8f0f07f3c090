package service

import (
	"context"
	"errors"
	"fmt"

	"market-daily/internal/dto"
	"market-daily/internal/repository"
	"market-daily/pkg/logger"
)

// AnalyzerService produces narrative analysis for reports. Every method
// returns a usable value: when no provider is configured or the provider
// call fails, a deterministic fallback built from the input data is
// returned instead of an error, so report generation never blocks on the
// LLM.
type AnalyzerService interface {
	MarketAnalysis(ctx context.Context, news []dto.NewsItem) *dto.MarketAnalysis
	PortfolioRecommendations(ctx context.Context, stocks []dto.StockEntry, news []dto.NewsItem) *dto.PortfolioRecommendations
	EnhancedAnalysis(ctx context.Context, stocks []dto.StockEntry, news []dto.NewsItem) *dto.EnhancedAnalysis
	MarketOverview(ctx context.Context, news []dto.NewsItem) string
	ExternalNewsAnalysis(ctx context.Context, news []dto.NewsItem) *dto.ExternalNewsAnalysis
	TopicAnalysis(ctx context.Context, topic string, news []dto.NewsItem) *dto.TopicDeepAnalysis
	NewsItemAnalysis(ctx context.Context, title, content string) *dto.NewsItemAnalysis
}

type analyzerService struct {
	aiRepo repository.AIRepository
	log    *logger.Logger
}

// NewAnalyzerService creates an AnalyzerService. A nil aiRepo is valid and
// means every call resolves to its fallback.
func NewAnalyzerService(aiRepo repository.AIRepository, log *logger.Logger) AnalyzerService {
	return &analyzerService{aiRepo: aiRepo, log: log}
}

func (s *analyzerService) warnFallback(op string, err error) {
	s.log.Warn("analysis fell back to deterministic output",
		logger.StringField("operation", op),
		logger.ErrorField(err))
}

// errIncomplete marks provider output that parsed but is missing its key
// fields. It is treated the same as a failed call.
var errIncomplete = errors.New("provider returned an incomplete record")

func (s *analyzerService) MarketAnalysis(ctx context.Context, news []dto.NewsItem) *dto.MarketAnalysis {
	if s.aiRepo != nil {
		analysis, err := s.aiRepo.GenerateMarketAnalysis(ctx, news)
		if err == nil && analysis != nil && analysis.Summary != "" {
			return analysis
		}
		if err == nil {
			err = errIncomplete
		}
		s.warnFallback("market_analysis", err)
	}
	return s.fallbackMarketAnalysis(news)
}

func (s *analyzerService) fallbackMarketAnalysis(news []dto.NewsItem) *dto.MarketAnalysis {
	avg := AverageSentiment(news)
	return &dto.MarketAnalysis{
		Summary:   fmt.Sprintf("Market summary based on %d news items.", len(news)),
		KeyPoints: []string{fmt.Sprintf("Overall sentiment is %s.", ClassifySentiment(avg))},
		Outlook:   ClassifySentiment(avg),
	}
}

func (s *analyzerService) PortfolioRecommendations(ctx context.Context, stocks []dto.StockEntry, news []dto.NewsItem) *dto.PortfolioRecommendations {
	if s.aiRepo != nil {
		recs, err := s.aiRepo.GeneratePortfolioRecommendations(ctx, stocks, news)
		if err == nil && recs != nil && recs.RiskLevel != "" {
			return recs
		}
		if err == nil {
			err = errIncomplete
		}
		s.warnFallback("portfolio_recommendations", err)
	}
	return s.fallbackRecommendations(stocks, news)
}

func (s *analyzerService) fallbackRecommendations(stocks []dto.StockEntry, news []dto.NewsItem) *dto.PortfolioRecommendations {
	avg := AverageSentiment(news)
	riskLevel := "medium"
	recommendation := "Hold current positions and monitor the news flow."
	switch ClassifySentiment(avg) {
	case "positive":
		riskLevel = "low"
		recommendation = "Sentiment is favorable; maintain positions."
	case "negative":
		riskLevel = "high"
		recommendation = "Sentiment is unfavorable; review exposure."
	}
	return &dto.PortfolioRecommendations{
		Recommendations: []string{recommendation},
		RiskLevel:       riskLevel,
		Summary: fmt.Sprintf("Automated assessment of %d holdings from %d news items.",
			len(stocks), len(news)),
	}
}

func (s *analyzerService) EnhancedAnalysis(ctx context.Context, stocks []dto.StockEntry, news []dto.NewsItem) *dto.EnhancedAnalysis {
	if s.aiRepo != nil {
		analysis, err := s.aiRepo.GenerateEnhancedAnalysis(ctx, stocks, news)
		if err == nil && analysis != nil && analysis.Summary != "" {
			return analysis
		}
		if err == nil {
			err = errIncomplete
		}
		s.warnFallback("enhanced_analysis", err)
	}
	recs := s.fallbackRecommendations(stocks, news)
	return &dto.EnhancedAnalysis{
		Summary:         recs.Summary,
		Recommendations: recs.Recommendations,
		RiskAssessment:  recs.RiskLevel,
		MarketOutlook:   ClassifySentiment(AverageSentiment(news)),
		ActionItems:     []string{"Review the attached news digest."},
	}
}

func (s *analyzerService) MarketOverview(ctx context.Context, news []dto.NewsItem) string {
	if s.aiRepo != nil {
		overview, err := s.aiRepo.GenerateMarketOverview(ctx, news)
		if err == nil && overview != "" {
			return overview
		}
		if err != nil {
			s.warnFallback("market_overview", err)
		}
	}
	avg := AverageSentiment(news)
	return fmt.Sprintf("Today's digest covers %d news items with an overall %s tone.",
		len(news), ClassifySentiment(avg))
}

func (s *analyzerService) ExternalNewsAnalysis(ctx context.Context, news []dto.NewsItem) *dto.ExternalNewsAnalysis {
	if s.aiRepo != nil {
		analysis, err := s.aiRepo.AnalyzeExternalNews(ctx, news)
		if err == nil && analysis != nil && analysis.Summary != "" {
			return analysis
		}
		if err == nil {
			err = errIncomplete
		}
		s.warnFallback("external_news_analysis", err)
	}
	avg := AverageSentiment(news)
	return &dto.ExternalNewsAnalysis{
		Summary:   fmt.Sprintf("External coverage includes %d items.", len(news)),
		KeyTrends: []string{},
		Sentiment: avg,
	}
}

func (s *analyzerService) TopicAnalysis(ctx context.Context, topic string, news []dto.NewsItem) *dto.TopicDeepAnalysis {
	if s.aiRepo != nil {
		analysis, err := s.aiRepo.GenerateTopicAnalysis(ctx, topic, news)
		if err == nil && analysis != nil && analysis.Summary != "" {
			return analysis
		}
		if err == nil {
			err = errIncomplete
		}
		s.warnFallback("topic_analysis", err)
	}
	avg := AverageSentiment(news)
	return &dto.TopicDeepAnalysis{
		Summary: fmt.Sprintf("Research on %q covering %d news items.", topic, len(news)),
		Analysis: fmt.Sprintf("Coverage of %q carries an overall %s tone.",
			topic, ClassifySentiment(avg)),
		Trends:          []string{},
		Recommendations: []string{"Monitor coverage for further developments."},
	}
}

func (s *analyzerService) NewsItemAnalysis(ctx context.Context, title, content string) *dto.NewsItemAnalysis {
	if s.aiRepo != nil {
		analysis, err := s.aiRepo.AnalyzeNewsItem(ctx, title, content)
		if err == nil && analysis != nil && analysis.Category != "" {
			return analysis
		}
		if err == nil {
			err = errIncomplete
		}
		s.warnFallback("news_item_analysis", err)
	}
	summary := content
	if runes := []rune(summary); len(runes) > 200 {
		summary = string(runes[:200])
	}
	return &dto.NewsItemAnalysis{
		Summary:   summary,
		Category:  "general",
		Sentiment: 0,
		Symbols:   []string{},
	}
}
