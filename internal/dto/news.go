package dto

import (
	"time"

	"market-daily/internal/entity"
)

// NewsItem is the report-facing view of a news item. Local rows and
// external provider results are both normalized to this shape; external
// items carry External = true.
type NewsItem struct {
	Title       string     `json:"title"`
	Summary     string     `json:"summary,omitempty"`
	Content     string     `json:"content,omitempty"`
	URL         string     `json:"url"`
	Source      string     `json:"source"`
	Category    string     `json:"category,omitempty"`
	Symbols     []string   `json:"symbols"`
	Sentiment   *float64   `json:"sentiment,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	External    bool       `json:"external"`
}

// NewsItemFromEntity converts a stored news row into the report view.
func NewsItemFromEntity(n entity.News) NewsItem {
	return NewsItem{
		Title:       n.Title,
		Summary:     n.Summary,
		Content:     n.Content,
		URL:         n.URL,
		Source:      n.Source,
		Category:    n.Category,
		Symbols:     []string(n.Symbols),
		Sentiment:   n.Sentiment,
		PublishedAt: n.PublishedAt,
	}
}

// ExternalNewsItem is one normalized article from an external provider.
type ExternalNewsItem struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Provider    string    `json:"provider"`
	Symbols     []string  `json:"symbols,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// NewsItemFromExternal converts a provider article into the report view.
func NewsItemFromExternal(e ExternalNewsItem) NewsItem {
	publishedAt := e.PublishedAt
	return NewsItem{
		Title:       e.Title,
		Summary:     e.Summary,
		URL:         e.URL,
		Source:      e.Source,
		Symbols:     e.Symbols,
		PublishedAt: &publishedAt,
		External:    true,
	}
}

// NewsItemsFromEntities converts a slice of stored rows.
func NewsItemsFromEntities(rows []entity.News) []NewsItem {
	items := make([]NewsItem, 0, len(rows))
	for _, n := range rows {
		items = append(items, NewsItemFromEntity(n))
	}
	return items
}
