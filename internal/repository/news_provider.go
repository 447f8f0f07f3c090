package repository

import (
	"context"

	"market-daily/internal/dto"
)

// NewsProvider fetches market news from an external API. Implementations
// return already-normalized items so callers never see provider payload
// shapes.
type NewsProvider interface {
	Name() string
	SearchNews(ctx context.Context, query string, days int) ([]dto.ExternalNewsItem, error)
	CompanyNews(ctx context.Context, symbol string, days int) ([]dto.ExternalNewsItem, error)
}
