package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"market-daily/internal/config"
	"market-daily/internal/dto"
	"market-daily/pkg/logger"
	"market-daily/pkg/ratelimit"

	"golang.org/x/time/rate"
)

type openaiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
}

// NewOpenAIRepository creates an AIRepository backed by an
// OpenAI-compatible chat completion endpoint.
func NewOpenAIRepository(cfg *config.Config, log *logger.Logger) AIRepository {
	rpm := cfg.OpenAI.MaxRequestPerMinute
	if rpm <= 0 {
		rpm = 20
	}
	tpm := cfg.OpenAI.MaxTokenPerMinute
	if tpm <= 0 {
		tpm = 100000
	}
	return &openaiAIRepository{
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		tokenLimiter:   ratelimit.NewTokenLimiter(tpm),
	}
}

func (r *openaiAIRepository) GenerateMarketAnalysis(ctx context.Context, news []dto.NewsItem) (*dto.MarketAnalysis, error) {
	resp, err := r.sendRequest(ctx, BuildMarketAnalysisPrompt(news), 500)
	if err != nil {
		return nil, err
	}
	result := dto.MarketAnalysis{}
	if err := r.parseResponseJSON(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *openaiAIRepository) GeneratePortfolioRecommendations(ctx context.Context, stocks []dto.StockEntry, news []dto.NewsItem) (*dto.PortfolioRecommendations, error) {
	resp, err := r.sendRequest(ctx, BuildPortfolioRecommendationsPrompt(stocks, news), 400)
	if err != nil {
		return nil, err
	}
	result := dto.PortfolioRecommendations{}
	if err := r.parseResponseJSON(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *openaiAIRepository) GenerateEnhancedAnalysis(ctx context.Context, stocks []dto.StockEntry, news []dto.NewsItem) (*dto.EnhancedAnalysis, error) {
	resp, err := r.sendRequest(ctx, BuildEnhancedAnalysisPrompt(stocks, news), 800)
	if err != nil {
		return nil, err
	}
	result := dto.EnhancedAnalysis{}
	if err := r.parseResponseJSON(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *openaiAIRepository) GenerateMarketOverview(ctx context.Context, news []dto.NewsItem) (string, error) {
	resp, err := r.sendRequest(ctx, BuildMarketOverviewPrompt(news), 300)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no content found in chat completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (r *openaiAIRepository) AnalyzeExternalNews(ctx context.Context, news []dto.NewsItem) (*dto.ExternalNewsAnalysis, error) {
	resp, err := r.sendRequest(ctx, BuildExternalNewsAnalysisPrompt(news), 600)
	if err != nil {
		return nil, err
	}
	result := dto.ExternalNewsAnalysis{}
	if err := r.parseResponseJSON(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *openaiAIRepository) GenerateTopicAnalysis(ctx context.Context, topic string, news []dto.NewsItem) (*dto.TopicDeepAnalysis, error) {
	resp, err := r.sendRequest(ctx, BuildTopicDeepAnalysisPrompt(topic, news), 1000)
	if err != nil {
		return nil, err
	}
	result := dto.TopicDeepAnalysis{}
	if err := r.parseResponseJSON(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *openaiAIRepository) AnalyzeNewsItem(ctx context.Context, title, content string) (*dto.NewsItemAnalysis, error) {
	resp, err := r.sendRequest(ctx, BuildNewsItemAnalysisPrompt(title, content), 300)
	if err != nil {
		return nil, err
	}
	result := dto.NewsItemAnalysis{}
	if err := r.parseResponseJSON(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *openaiAIRepository) sendRequest(ctx context.Context, prompt string, maxTokens int) (*dto.OpenAPIRes, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.OpenAPIReq{
		Model: r.cfg.OpenAI.Model,
		Messages: []dto.Message{
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.OpenAI.BaseURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", r.cfg.OpenAI.APIKey))

	r.logger.Debug("Sending chat completion request", logger.StringField("url", r.cfg.OpenAI.BaseURL), logger.StringField("model", r.cfg.OpenAI.Model))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send chat completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from chat completion API", logger.IntField("status_code", resp.StatusCode))
		return nil, fmt.Errorf("received non-OK response from chat completion API: %d - %s", resp.StatusCode, string(body))
	}

	var apiRes dto.OpenAPIRes
	if err := json.NewDecoder(resp.Body).Decode(&apiRes); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	if err := r.tokenLimiter.Wait(ctx, apiRes.Usage.TotalTokens); err != nil {
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}

	return &apiRes, nil
}

func (r *openaiAIRepository) parseResponseJSON(resp *dto.OpenAPIRes, result interface{}) error {
	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.Content) == 0 {
		return fmt.Errorf("no content found in chat completion response")
	}

	rawJSON := strings.TrimSpace(resp.Choices[0].Message.Content)
	rawJSON = strings.Trim(rawJSON, "`json\n`")

	if err := json.Unmarshal([]byte(rawJSON), result); err != nil {
		return fmt.Errorf("failed to unmarshal chat completion response: %w", err)
	}

	return nil
}
