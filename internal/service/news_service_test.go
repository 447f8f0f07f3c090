package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"market-daily/internal/config"
	"market-daily/internal/entity"
	"market-daily/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testArticleBody = `<html><body><p>Markets moved today as investors weighed
the latest developments across sectors and positioned for the week ahead.</p></body></html>`

func newScrapeServer(t *testing.T, titles []string) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			fmt.Fprint(w, "<html><body>")
			for i, title := range titles {
				fmt.Fprintf(w, `<a class="headline" href="/articles/%d">%s</a>`, i, title)
			}
			fmt.Fprint(w, "</body></html>")
			return
		}
		fmt.Fprint(w, testArticleBody)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestNewsService(cfg *config.News, newsRepo *fakeNewsRepository, portfolioRepo *fakePortfolioRepository) NewsService {
	log := logger.NewNop()
	return NewNewsService(cfg, newsRepo, portfolioRepo, NewAnalyzerService(nil, log), log)
}

func TestRefreshNewsFiltersBeforeCap(t *testing.T) {
	// Irrelevant headlines come first so a cap applied before the
	// relevance filter would crowd out every matching item.
	srv := newScrapeServer(t, []string{
		"Village bake sale wins prize",
		"Quiet weekend in the park",
		"Local choir announces tour",
		"AAPL unveils new chip roadmap",
		"Fed signals rate cut",
		"Crypto exchange expands in Europe",
	})

	cfg := &config.News{
		Sources: []config.NewsSource{
			{Name: "Test Source", URL: srv.URL, Type: "html", Selector: "a.headline"},
		},
		MaxPerSource: 3,
		Keywords:     []string{"crypto"},
	}
	newsRepo := &fakeNewsRepository{}
	portfolioRepo := &fakePortfolioRepository{
		stocks: []entity.PortfolioStock{{Symbol: "AAPL", Name: "Apple"}},
	}

	svc := newTestNewsService(cfg, newsRepo, portfolioRepo)
	stored, err := svc.RefreshNews(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, stored)

	require.Equal(t, 3, len(newsRepo.created))
	titles := make([]string, 0, len(newsRepo.created))
	for _, news := range newsRepo.created {
		titles = append(titles, news.Title)
		assert.Equal(t, "Test Source", news.Source)
	}
	assert.Equal(t, []string{
		"AAPL unveils new chip roadmap",
		"Fed signals rate cut",
		"Crypto exchange expands in Europe",
	}, titles)
}

func TestRefreshNewsCapsRelevantItems(t *testing.T) {
	srv := newScrapeServer(t, []string{
		"Stock futures climb ahead of open",
		"Earnings season kicks off strong",
		"Dividend hikes spread across sectors",
	})

	cfg := &config.News{
		Sources: []config.NewsSource{
			{Name: "Test Source", URL: srv.URL, Type: "html", Selector: "a.headline"},
		},
		MaxPerSource: 2,
	}
	newsRepo := &fakeNewsRepository{}

	svc := newTestNewsService(cfg, newsRepo, &fakePortfolioRepository{})
	stored, err := svc.RefreshNews(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, stored)
	assert.Equal(t, "Stock futures climb ahead of open", newsRepo.created[0].Title)
}

func TestRelevanceFilterTerms(t *testing.T) {
	cfg := &config.News{Keywords: []string{"Lithium"}}
	portfolioRepo := &fakePortfolioRepository{
		stocks: []entity.PortfolioStock{{Symbol: "TSLA", Name: "Tesla"}},
	}
	svc := newTestNewsService(cfg, &fakeNewsRepository{}, portfolioRepo).(*newsService)

	filter := svc.buildRelevanceFilter(context.Background())

	assert.True(t, filter.matches("TSLA deliveries top forecasts"), "held symbol")
	assert.True(t, filter.matches("Tesla opens new factory"), "held company name")
	assert.True(t, filter.matches("Lithium prices rebound"), "configured keyword")
	assert.True(t, filter.matches("Inflation cools in July"), "built-in financial term")
	assert.False(t, filter.matches("Village bake sale wins prize"))
}
