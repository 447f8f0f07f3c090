package repository

import (
	"context"

	"market-daily/internal/dto"
)

// AIRepository defines the narrative-analysis operations backed by an LLM
// provider. Implementations make exactly one attempt per call; degradation
// on failure is handled by the analyzer service above them.
type AIRepository interface {
	GenerateMarketAnalysis(ctx context.Context, news []dto.NewsItem) (*dto.MarketAnalysis, error)
	GeneratePortfolioRecommendations(ctx context.Context, stocks []dto.StockEntry, news []dto.NewsItem) (*dto.PortfolioRecommendations, error)
	GenerateEnhancedAnalysis(ctx context.Context, stocks []dto.StockEntry, news []dto.NewsItem) (*dto.EnhancedAnalysis, error)
	GenerateMarketOverview(ctx context.Context, news []dto.NewsItem) (string, error)
	AnalyzeExternalNews(ctx context.Context, news []dto.NewsItem) (*dto.ExternalNewsAnalysis, error)
	GenerateTopicAnalysis(ctx context.Context, topic string, news []dto.NewsItem) (*dto.TopicDeepAnalysis, error)
	AnalyzeNewsItem(ctx context.Context, title, content string) (*dto.NewsItemAnalysis, error)
}
