package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"market-daily/internal/config"
	"market-daily/internal/dto"
	"market-daily/pkg/logger"
	"market-daily/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiAIRepository is an implementation of AIRepository that uses the
// Google Gemini API.
type geminiAIRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	rpm := cfg.Gemini.MaxRequestPerMinute
	if rpm <= 0 {
		rpm = 15
	}
	tpm := cfg.Gemini.MaxTokenPerMinute
	if tpm <= 0 {
		tpm = 100000
	}
	return &geminiAIRepository{
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		tokenLimiter:   ratelimit.NewTokenLimiter(tpm),
		genAiClient:    genAiClient,
	}, nil
}

func (r *geminiAIRepository) GenerateMarketAnalysis(ctx context.Context, news []dto.NewsItem) (*dto.MarketAnalysis, error) {
	result := dto.MarketAnalysis{}
	if err := r.generateJSON(ctx, BuildMarketAnalysisPrompt(news), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *geminiAIRepository) GeneratePortfolioRecommendations(ctx context.Context, stocks []dto.StockEntry, news []dto.NewsItem) (*dto.PortfolioRecommendations, error) {
	result := dto.PortfolioRecommendations{}
	if err := r.generateJSON(ctx, BuildPortfolioRecommendationsPrompt(stocks, news), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *geminiAIRepository) GenerateEnhancedAnalysis(ctx context.Context, stocks []dto.StockEntry, news []dto.NewsItem) (*dto.EnhancedAnalysis, error) {
	result := dto.EnhancedAnalysis{}
	if err := r.generateJSON(ctx, BuildEnhancedAnalysisPrompt(stocks, news), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *geminiAIRepository) GenerateMarketOverview(ctx context.Context, news []dto.NewsItem) (string, error) {
	text, err := r.generateText(ctx, BuildMarketOverviewPrompt(news))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (r *geminiAIRepository) AnalyzeExternalNews(ctx context.Context, news []dto.NewsItem) (*dto.ExternalNewsAnalysis, error) {
	result := dto.ExternalNewsAnalysis{}
	if err := r.generateJSON(ctx, BuildExternalNewsAnalysisPrompt(news), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *geminiAIRepository) GenerateTopicAnalysis(ctx context.Context, topic string, news []dto.NewsItem) (*dto.TopicDeepAnalysis, error) {
	result := dto.TopicDeepAnalysis{}
	if err := r.generateJSON(ctx, BuildTopicDeepAnalysisPrompt(topic, news), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *geminiAIRepository) AnalyzeNewsItem(ctx context.Context, title, content string) (*dto.NewsItemAnalysis, error) {
	result := dto.NewsItemAnalysis{}
	if err := r.generateJSON(ctx, BuildNewsItemAnalysisPrompt(title, content), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *geminiAIRepository) generateText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}

	tokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to count tokens: %w", err)
	}
	if err := r.tokenLimiter.Wait(ctx, int(tokenResp.TotalTokens)); err != nil {
		return "", fmt.Errorf("failed to wait for token limit: %w", err)
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.3),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no content found in Gemini response")
	}
	return text, nil
}

func (r *geminiAIRepository) generateJSON(ctx context.Context, prompt string, result interface{}) error {
	text, err := r.generateText(ctx, prompt)
	if err != nil {
		return err
	}

	rawJSON := strings.TrimSpace(text)
	rawJSON = strings.Trim(rawJSON, "`json\n`")

	if err := json.Unmarshal([]byte(rawJSON), result); err != nil {
		return fmt.Errorf("failed to unmarshal Gemini response: %w", err)
	}
	return nil
}
