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
	newsAPISearchPageSize  = 20
	newsAPICompanyPageSize = 5
)

type newsAPIArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIRepository struct {
	cfg    *config.NewsAPI
	client *http.Client
}

// NewNewsAPIRepository creates a NewsProvider backed by newsapi.org.
func NewNewsAPIRepository(cfg *config.NewsAPI) NewsProvider {
	return &newsAPIRepository{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (r *newsAPIRepository) Name() string {
	return "newsapi"
}

func (r *newsAPIRepository) SearchNews(ctx context.Context, query string, days int) ([]dto.ExternalNewsItem, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("from", time.Now().AddDate(0, 0, -days).Format("2006-01-02"))
	params.Set("sortBy", "relevancy")
	params.Set("language", "en")
	params.Set("pageSize", fmt.Sprintf("%d", newsAPISearchPageSize))

	return r.everything(ctx, params)
}

func (r *newsAPIRepository) CompanyNews(ctx context.Context, symbol string, days int) ([]dto.ExternalNewsItem, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%q stock OR %q shares", symbol, symbol))
	params.Set("from", time.Now().AddDate(0, 0, -days).Format("2006-01-02"))
	params.Set("sortBy", "relevancy")
	params.Set("language", "en")
	params.Set("pageSize", fmt.Sprintf("%d", newsAPICompanyPageSize))

	items, err := r.everything(ctx, params)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Symbols = []string{symbol}
	}
	return items, nil
}

func (r *newsAPIRepository) everything(ctx context.Context, params url.Values) ([]dto.ExternalNewsItem, error) {
	endpoint := fmt.Sprintf("%s/everything?%s", r.cfg.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", r.cfg.APIKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi returned status %d", resp.StatusCode)
	}

	var payload newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if payload.Status != "ok" {
		return nil, fmt.Errorf("newsapi error: %s", payload.Message)
	}

	items := make([]dto.ExternalNewsItem, 0, len(payload.Articles))
	for _, article := range payload.Articles {
		if article.Title == "" || article.URL == "" {
			continue
		}
		publishedAt, _ := time.Parse(time.RFC3339, article.PublishedAt)
		items = append(items, dto.ExternalNewsItem{
			Title:       article.Title,
			Summary:     article.Description,
			URL:         article.URL,
			Source:      article.Source.Name,
			Provider:    r.Name(),
			PublishedAt: publishedAt,
		})
	}
	return items, nil
}
