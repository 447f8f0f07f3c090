package service

import (
	"context"
	"sync"

	"market-daily/internal/dto"
	"market-daily/internal/repository"
	"market-daily/pkg/logger"
	"market-daily/pkg/utils"
)

const maxCompanyNewsSymbols = 5

// NewsGateway aggregates news from the configured external providers.
// Providers are queried concurrently and a failing provider contributes
// zero items rather than failing the whole fetch.
type NewsGateway interface {
	FetchMarketNews(ctx context.Context, query string, days int) []dto.NewsItem
	FetchPortfolioNews(ctx context.Context, symbols []string, days int) []dto.NewsItem
}

type newsGateway struct {
	providers []repository.NewsProvider
	log       *logger.Logger
}

// NewNewsGateway creates a NewsGateway over the given providers. An empty
// provider list is valid and yields empty results.
func NewNewsGateway(providers []repository.NewsProvider, log *logger.Logger) NewsGateway {
	return &newsGateway{providers: providers, log: log}
}

func (g *newsGateway) FetchMarketNews(ctx context.Context, query string, days int) []dto.NewsItem {
	return g.collect(func(p repository.NewsProvider) ([]dto.ExternalNewsItem, error) {
		return p.SearchNews(ctx, query, days)
	})
}

// FetchPortfolioNews queries each provider per symbol, capped at the first
// five symbols to keep request volume bounded on large portfolios.
func (g *newsGateway) FetchPortfolioNews(ctx context.Context, symbols []string, days int) []dto.NewsItem {
	if len(symbols) > maxCompanyNewsSymbols {
		symbols = symbols[:maxCompanyNewsSymbols]
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		items []dto.NewsItem
	)
	for _, provider := range g.providers {
		for _, symbol := range symbols {
			provider, symbol := provider, symbol
			wg.Add(1)
			utils.GoSafe(func() {
				defer wg.Done()
				fetched, err := provider.CompanyNews(ctx, symbol, days)
				if err != nil {
					g.log.Warn("company news fetch failed",
						logger.StringField("provider", provider.Name()),
						logger.StringField("symbol", symbol),
						logger.ErrorField(err))
					return
				}
				mu.Lock()
				for _, item := range fetched {
					items = append(items, dto.NewsItemFromExternal(item))
				}
				mu.Unlock()
			})
		}
	}
	wg.Wait()
	return items
}

func (g *newsGateway) collect(fetch func(repository.NewsProvider) ([]dto.ExternalNewsItem, error)) []dto.NewsItem {
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		items []dto.NewsItem
	)
	for _, provider := range g.providers {
		provider := provider
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			fetched, err := fetch(provider)
			if err != nil {
				g.log.Warn("market news fetch failed",
					logger.StringField("provider", provider.Name()),
					logger.ErrorField(err))
				return
			}
			mu.Lock()
			for _, item := range fetched {
				items = append(items, dto.NewsItemFromExternal(item))
			}
			mu.Unlock()
		})
	}
	wg.Wait()
	return items
}
