package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"market-daily/internal/config"
	"market-daily/internal/dto"
)

const (
	finnhubGeneralLimit = 10
	finnhubCompanyLimit = 5
)

type finnhubArticle struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
	Source   string `json:"source"`
	Datetime int64  `json:"datetime"`
	Related  string `json:"related"`
}

type finnhubRepository struct {
	cfg    *config.Finnhub
	client *http.Client
}

// NewFinnhubRepository creates a NewsProvider backed by finnhub.io.
func NewFinnhubRepository(cfg *config.Finnhub) NewsProvider {
	return &finnhubRepository{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (r *finnhubRepository) Name() string {
	return "finnhub"
}

// SearchNews returns general market headlines. Finnhub has no free-text
// search, so the query is ignored and the general category feed is used.
func (r *finnhubRepository) SearchNews(ctx context.Context, query string, days int) ([]dto.ExternalNewsItem, error) {
	params := url.Values{}
	params.Set("category", "general")

	articles, err := r.get(ctx, "/news", params)
	if err != nil {
		return nil, err
	}
	return r.normalize(articles, finnhubGeneralLimit, nil), nil
}

func (r *finnhubRepository) CompanyNews(ctx context.Context, symbol string, days int) ([]dto.ExternalNewsItem, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", time.Now().AddDate(0, 0, -days).Format("2006-01-02"))
	params.Set("to", time.Now().Format("2006-01-02"))

	articles, err := r.get(ctx, "/company-news", params)
	if err != nil {
		return nil, err
	}
	return r.normalize(articles, finnhubCompanyLimit, []string{symbol}), nil
}

func (r *finnhubRepository) get(ctx context.Context, path string, params url.Values) ([]finnhubArticle, error) {
	params.Set("token", r.cfg.APIKey)
	endpoint := fmt.Sprintf("%s%s?%s", r.cfg.BaseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finnhub returned status %d", resp.StatusCode)
	}

	var articles []finnhubArticle
	if err := json.NewDecoder(resp.Body).Decode(&articles); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return articles, nil
}

func (r *finnhubRepository) normalize(articles []finnhubArticle, limit int, symbols []string) []dto.ExternalNewsItem {
	if len(articles) > limit {
		articles = articles[:limit]
	}
	items := make([]dto.ExternalNewsItem, 0, len(articles))
	for _, article := range articles {
		if article.Headline == "" || article.URL == "" {
			continue
		}
		items = append(items, dto.ExternalNewsItem{
			Title:       article.Headline,
			Summary:     article.Summary,
			URL:         article.URL,
			Source:      article.Source,
			Provider:    r.Name(),
			Symbols:     symbols,
			PublishedAt: time.Unix(article.Datetime, 0),
		})
	}
	return items
}
