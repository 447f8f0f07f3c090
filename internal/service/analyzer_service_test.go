package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"market-daily/internal/dto"
	"market-daily/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type fakeAIRepository struct {
	err   error
	calls int

	marketAnalysis  *dto.MarketAnalysis
	recommendations *dto.PortfolioRecommendations
	enhanced        *dto.EnhancedAnalysis
	overview        string
	external        *dto.ExternalNewsAnalysis
	topic           *dto.TopicDeepAnalysis
	item            *dto.NewsItemAnalysis
}

func (f *fakeAIRepository) GenerateMarketAnalysis(ctx context.Context, news []dto.NewsItem) (*dto.MarketAnalysis, error) {
	f.calls++
	return f.marketAnalysis, f.err
}

func (f *fakeAIRepository) GeneratePortfolioRecommendations(ctx context.Context, stocks []dto.StockEntry, news []dto.NewsItem) (*dto.PortfolioRecommendations, error) {
	f.calls++
	return f.recommendations, f.err
}

func (f *fakeAIRepository) GenerateEnhancedAnalysis(ctx context.Context, stocks []dto.StockEntry, news []dto.NewsItem) (*dto.EnhancedAnalysis, error) {
	f.calls++
	return f.enhanced, f.err
}

func (f *fakeAIRepository) GenerateMarketOverview(ctx context.Context, news []dto.NewsItem) (string, error) {
	f.calls++
	return f.overview, f.err
}

func (f *fakeAIRepository) AnalyzeExternalNews(ctx context.Context, news []dto.NewsItem) (*dto.ExternalNewsAnalysis, error) {
	f.calls++
	return f.external, f.err
}

func (f *fakeAIRepository) GenerateTopicAnalysis(ctx context.Context, topic string, news []dto.NewsItem) (*dto.TopicDeepAnalysis, error) {
	f.calls++
	return f.topic, f.err
}

func (f *fakeAIRepository) AnalyzeNewsItem(ctx context.Context, title, content string) (*dto.NewsItemAnalysis, error) {
	f.calls++
	return f.item, f.err
}

func TestAnalyzerUnconfiguredFallsBack(t *testing.T) {
	analyzer := NewAnalyzerService(nil, logger.NewNop())
	ctx := context.Background()

	analysis := analyzer.MarketAnalysis(ctx, nil)
	assert.NotNil(t, analysis)
	assert.NotEmpty(t, analysis.Summary)

	recs := analyzer.PortfolioRecommendations(ctx, nil, nil)
	assert.NotNil(t, recs)
	assert.Equal(t, "low", recs.RiskLevel)

	topic := analyzer.TopicAnalysis(ctx, "blockchain", nil)
	assert.NotNil(t, topic)
	assert.Contains(t, topic.Summary, "blockchain")
}

func TestAnalyzerProviderErrorFallsBack(t *testing.T) {
	fake := &fakeAIRepository{err: errors.New("upstream timeout")}
	analyzer := NewAnalyzerService(fake, logger.NewNop())
	ctx := context.Background()

	news := []dto.NewsItem{{Title: "Rally continues", Sentiment: f64(0.5)}}

	analysis := analyzer.MarketAnalysis(ctx, news)
	assert.NotNil(t, analysis)
	assert.Equal(t, "positive", analysis.Outlook)

	enhanced := analyzer.EnhancedAnalysis(ctx, nil, news)
	assert.NotNil(t, enhanced)
	assert.Equal(t, "positive", enhanced.MarketOutlook)

	external := analyzer.ExternalNewsAnalysis(ctx, news)
	assert.NotNil(t, external)
	assert.InDelta(t, 0.5, external.Sentiment, 1e-9)

	item := analyzer.NewsItemAnalysis(ctx, "title", "content")
	assert.NotNil(t, item)
	assert.Equal(t, "general", item.Category)
	assert.Equal(t, 0.0, item.Sentiment)
}

func TestAnalyzerPassesThroughOnSuccess(t *testing.T) {
	fake := &fakeAIRepository{
		marketAnalysis: &dto.MarketAnalysis{Summary: "from provider"},
		overview:       "overview from provider",
	}
	analyzer := NewAnalyzerService(fake, logger.NewNop())
	ctx := context.Background()

	analysis := analyzer.MarketAnalysis(ctx, nil)
	assert.Equal(t, "from provider", analysis.Summary)

	overview := analyzer.MarketOverview(ctx, nil)
	assert.Equal(t, "overview from provider", overview)
	assert.Equal(t, 2, fake.calls)
}

func TestAnalyzerIncompleteRecordFallsBack(t *testing.T) {
	// A record that parsed but carries no key fields counts as a failure.
	fake := &fakeAIRepository{
		marketAnalysis:  &dto.MarketAnalysis{},
		recommendations: &dto.PortfolioRecommendations{Summary: "text without a risk level"},
	}
	analyzer := NewAnalyzerService(fake, logger.NewNop())
	ctx := context.Background()

	analysis := analyzer.MarketAnalysis(ctx, nil)
	assert.NotEmpty(t, analysis.Summary)

	recs := analyzer.PortfolioRecommendations(ctx, nil, nil)
	assert.NotEmpty(t, recs.RiskLevel)
}

func TestAnalyzerNewsItemFallbackKeepsRuneBoundaries(t *testing.T) {
	analyzer := NewAnalyzerService(nil, logger.NewNop())

	content := strings.Repeat("日", 250)
	item := analyzer.NewsItemAnalysis(context.Background(), "title", content)

	assert.True(t, utf8.ValidString(item.Summary))
	assert.Equal(t, 200, utf8.RuneCountInString(item.Summary))
}

func TestAnalyzerNeutralFallbackRiskLevels(t *testing.T) {
	analyzer := NewAnalyzerService(nil, logger.NewNop())
	ctx := context.Background()

	negative := []dto.NewsItem{{Sentiment: f64(-0.8)}}
	recs := analyzer.PortfolioRecommendations(ctx, nil, negative)
	assert.Equal(t, "high", recs.RiskLevel)

	neutral := []dto.NewsItem{{Sentiment: f64(0.0)}}
	recs = analyzer.PortfolioRecommendations(ctx, nil, neutral)
	assert.Equal(t, "medium", recs.RiskLevel)
}
