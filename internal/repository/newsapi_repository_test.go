package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"market-daily/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsAPISearchNews(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"articles": []map[string]interface{}{
				{
					"title":       "Fed Holds Rates Steady",
					"description": "The Federal Reserve kept interest rates unchanged.",
					"url":         "https://example.com/fed-rates",
					"publishedAt": "2026-08-30T12:00:00Z",
					"source":      map[string]string{"name": "Reuters"},
				},
				{
					// Missing title, dropped during normalization.
					"url": "https://example.com/broken",
				},
			},
		})
	}))
	defer srv.Close()

	provider := NewNewsAPIRepository(&config.NewsAPI{APIKey: "test-key", BaseURL: srv.URL})
	items, err := provider.SearchNews(context.Background(), "inflation", 7)

	require.NoError(t, err)
	assert.Equal(t, "/everything", gotPath)
	assert.Equal(t, []string{"inflation"}, gotQuery["q"])
	assert.Equal(t, []string{"relevancy"}, gotQuery["sortBy"])
	assert.Equal(t, []string{"en"}, gotQuery["language"])
	assert.Equal(t, []string{"20"}, gotQuery["pageSize"])

	require.Equal(t, 1, len(items))
	assert.Equal(t, "Fed Holds Rates Steady", items[0].Title)
	assert.Equal(t, "The Federal Reserve kept interest rates unchanged.", items[0].Summary)
	assert.Equal(t, "Reuters", items[0].Source)
	assert.Equal(t, "newsapi", items[0].Provider)
	assert.Equal(t, 2026, items[0].PublishedAt.Year())
}

func TestNewsAPICompanyNewsTagsSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `"AAPL" stock OR "AAPL" shares`, r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("pageSize"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"articles": []map[string]interface{}{
				{"title": "Apple earnings", "url": "https://example.com/aapl"},
			},
		})
	}))
	defer srv.Close()

	provider := NewNewsAPIRepository(&config.NewsAPI{APIKey: "k", BaseURL: srv.URL})
	items, err := provider.CompanyNews(context.Background(), "AAPL", 7)

	require.NoError(t, err)
	require.Equal(t, 1, len(items))
	assert.Equal(t, []string{"AAPL"}, items[0].Symbols)
}

func TestNewsAPIErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "error",
			"message": "apiKeyInvalid",
		})
	}))
	defer srv.Close()

	provider := NewNewsAPIRepository(&config.NewsAPI{APIKey: "bad", BaseURL: srv.URL})
	_, err := provider.SearchNews(context.Background(), "anything", 7)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiKeyInvalid")
}

func TestNewsAPINon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	provider := NewNewsAPIRepository(&config.NewsAPI{APIKey: "k", BaseURL: srv.URL})
	_, err := provider.SearchNews(context.Background(), "anything", 7)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
