package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"market-daily/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinnhubGeneralNewsCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/news", r.URL.Path)
		assert.Equal(t, "general", r.URL.Query().Get("category"))
		assert.Equal(t, "test-key", r.URL.Query().Get("token"))

		var articles []map[string]interface{}
		for i := 0; i < 15; i++ {
			articles = append(articles, map[string]interface{}{
				"headline": fmt.Sprintf("Headline %d", i),
				"summary":  "s",
				"url":      fmt.Sprintf("https://example.com/%d", i),
				"source":   "Finnhub",
				"datetime": 1756600000,
			})
		}
		json.NewEncoder(w).Encode(articles)
	}))
	defer srv.Close()

	provider := NewFinnhubRepository(&config.Finnhub{APIKey: "test-key", BaseURL: srv.URL})
	items, err := provider.SearchNews(context.Background(), "ignored", 7)

	require.NoError(t, err)
	assert.Equal(t, 10, len(items))
	assert.Equal(t, "Headline 0", items[0].Title)
	assert.Equal(t, "finnhub", items[0].Provider)
	assert.Empty(t, items[0].Symbols)
}

func TestFinnhubCompanyNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/company-news", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.NotEmpty(t, r.URL.Query().Get("from"))
		assert.NotEmpty(t, r.URL.Query().Get("to"))
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"headline": "Apple launches product",
				"summary":  "Details",
				"url":      "https://example.com/aapl",
				"source":   "Finnhub",
				"datetime": 1756600000,
			},
			{
				// Missing URL, dropped during normalization.
				"headline": "Broken",
			},
		})
	}))
	defer srv.Close()

	provider := NewFinnhubRepository(&config.Finnhub{APIKey: "k", BaseURL: srv.URL})
	items, err := provider.CompanyNews(context.Background(), "AAPL", 7)

	require.NoError(t, err)
	require.Equal(t, 1, len(items))
	assert.Equal(t, "Apple launches product", items[0].Title)
	assert.Equal(t, []string{"AAPL"}, items[0].Symbols)
	assert.False(t, items[0].PublishedAt.IsZero())
}

func TestFinnhubNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	provider := NewFinnhubRepository(&config.Finnhub{APIKey: "bad", BaseURL: srv.URL})
	_, err := provider.SearchNews(context.Background(), "ignored", 7)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
