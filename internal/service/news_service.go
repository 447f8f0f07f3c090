package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"market-daily/internal/config"
	"market-daily/internal/entity"
	"market-daily/internal/repository"
	"market-daily/pkg/logger"
	"market-daily/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
)

const defaultMaxPerSource = 5

// financialKeywords always pass the relevance filter, independent of the
// configured holdings and keyword list.
var financialKeywords = []string{
	"stock", "market", "earnings", "revenue", "profit", "loss",
	"shares", "dividend", "investment", "trading", "nasdaq", "dow",
	"s&p", "fed", "interest rate", "inflation", "gdp",
}

// NewsService refreshes the local news store from the configured scrape
// sources and enforces the retention window.
type NewsService interface {
	RefreshNews(ctx context.Context) (int, error)
	CleanOldNews(ctx context.Context) (int64, error)
}

type newsService struct {
	cfg           *config.News
	newsRepo      repository.NewsRepository
	portfolioRepo repository.PortfolioRepository
	analyzer      AnalyzerService
	client        *http.Client
	log           *logger.Logger
}

// NewNewsService creates a new instance of NewsService.
func NewNewsService(cfg *config.News, newsRepo repository.NewsRepository, portfolioRepo repository.PortfolioRepository, analyzer AnalyzerService, log *logger.Logger) NewsService {
	return &newsService{
		cfg:           cfg,
		newsRepo:      newsRepo,
		portfolioRepo: portfolioRepo,
		analyzer:      analyzer,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// relevanceFilter keeps scraped items whose title mentions a held symbol
// or company name, a configured keyword, or a generic financial term.
type relevanceFilter struct {
	terms []string
}

func (f *relevanceFilter) matches(title string) bool {
	titleLower := strings.ToLower(title)
	for _, term := range f.terms {
		if term != "" && strings.Contains(titleLower, term) {
			return true
		}
	}
	return false
}

func (s *newsService) buildRelevanceFilter(ctx context.Context) *relevanceFilter {
	var terms []string

	stocks, err := s.portfolioRepo.FindAllStocks(ctx)
	if err != nil {
		s.log.Warn("failed to load holdings for relevance filter", logger.ErrorField(err))
	}
	for _, stock := range stocks {
		terms = append(terms, strings.ToLower(stock.Symbol), strings.ToLower(stock.Name))
	}
	for _, keyword := range s.cfg.Keywords {
		terms = append(terms, strings.ToLower(keyword))
	}
	terms = append(terms, financialKeywords...)

	return &relevanceFilter{terms: terms}
}

type scrapedItem struct {
	Title       string
	URL         string
	PublishedAt *time.Time
}

// RefreshNews scrapes every configured source concurrently, keeps the
// relevant items, and stores them enriched. A failing source contributes
// zero items; the returned count is the number of items handed to the
// store across all sources.
func (s *newsService) RefreshNews(ctx context.Context) (int, error) {
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		total int
	)

	filter := s.buildRelevanceFilter(ctx)

	for _, source := range s.cfg.Sources {
		source := source
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			stored, err := s.refreshSource(ctx, source, filter)
			if err != nil {
				s.log.Error("source refresh failed",
					logger.StringField("source", source.Name),
					logger.ErrorField(err))
				return
			}
			mu.Lock()
			total += stored
			mu.Unlock()
		})
	}
	wg.Wait()

	s.log.Info("news refresh finished", logger.IntField("stored", total))
	return total, nil
}

func (s *newsService) refreshSource(ctx context.Context, source config.NewsSource, filter *relevanceFilter) (int, error) {
	var items []scrapedItem
	var err error
	switch source.Type {
	case "rss":
		items, err = s.scrapeRSS(ctx, source)
	case "html":
		items, err = s.scrapeHTML(ctx, source)
	default:
		return 0, fmt.Errorf("unknown source type %q", source.Type)
	}
	if err != nil {
		return 0, err
	}

	// Relevance filtering happens before the per-source cap so an
	// irrelevant burst cannot crowd out matching items.
	relevant := items[:0]
	for _, item := range items {
		if filter.matches(item.Title) {
			relevant = append(relevant, item)
		}
	}
	items = relevant

	maxPerSource := s.cfg.MaxPerSource
	if maxPerSource <= 0 {
		maxPerSource = defaultMaxPerSource
	}
	if len(items) > maxPerSource {
		items = items[:maxPerSource]
	}

	stored := 0
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return stored, err
		}
		news := s.buildNews(ctx, source, item)
		if err := s.newsRepo.CreateIgnoreConflict(ctx, news); err != nil {
			s.log.Error("failed to store news item",
				logger.StringField("url", item.URL),
				logger.ErrorField(err))
			continue
		}
		stored++
	}
	return stored, nil
}

// buildNews fetches the article body and enriches the row through the
// analyzer. The analyzer never fails, so enrichment always yields at least
// neutral metadata.
func (s *newsService) buildNews(ctx context.Context, source config.NewsSource, item scrapedItem) *entity.News {
	content, err := s.extractContent(ctx, item.URL)
	if err != nil {
		s.log.Warn("content extraction failed",
			logger.StringField("url", item.URL),
			logger.ErrorField(err))
	}

	analysis := s.analyzer.NewsItemAnalysis(ctx, item.Title, content)
	sentiment := analysis.Sentiment

	return &entity.News{
		Title:       item.Title,
		Content:     content,
		Summary:     analysis.Summary,
		URL:         item.URL,
		Source:      source.Name,
		Category:    analysis.Category,
		Symbols:     analysis.Symbols,
		Sentiment:   &sentiment,
		PublishedAt: item.PublishedAt,
	}
}

func (s *newsService) scrapeRSS(ctx context.Context, source config.NewsSource) ([]scrapedItem, error) {
	fp := gofeed.NewParser()
	feed, err := fp.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSS feed: %w", err)
	}

	items := make([]scrapedItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Title == "" || item.Link == "" {
			continue
		}
		items = append(items, scrapedItem{
			Title:       strings.TrimSpace(item.Title),
			URL:         item.Link,
			PublishedAt: item.PublishedParsed,
		})
	}
	return items, nil
}

func (s *newsService) scrapeHTML(ctx context.Context, source config.NewsSource) ([]scrapedItem, error) {
	body, err := s.fetch(ctx, source.URL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	var items []scrapedItem
	doc.Find(source.Selector).Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Text())
		href, ok := sel.Attr("href")
		if !ok {
			href, ok = sel.Find("a").Attr("href")
		}
		if title == "" || !ok || href == "" {
			return
		}
		if strings.HasPrefix(href, "/") {
			href = strings.TrimSuffix(source.URL, "/") + href
		}
		items = append(items, scrapedItem{Title: title, URL: href})
	})
	return items, nil
}

func (s *newsService) extractContent(ctx context.Context, articleURL string) (string, error) {
	body, err := s.fetch(ctx, articleURL)
	if err != nil {
		return "", err
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse article: %w", err)
	}

	stripped, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(doc.Content())))
	if err != nil {
		return "", fmt.Errorf("failed to strip article markup: %w", err)
	}

	content := strings.TrimSpace(stripped.Text())
	content = strings.ReplaceAll(content, "\n", " ")
	content = strings.ReplaceAll(content, "\t", " ")
	return strings.Join(strings.Fields(content), " "), nil
}

func (s *newsService) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s returned status %d", rawURL, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// CleanOldNews removes rows older than the retention window.
func (s *newsService) CleanOldNews(ctx context.Context) (int64, error) {
	retention := s.cfg.RetentionDays
	if retention <= 0 {
		retention = 30
	}
	cutoff := utils.DaysAgo(time.Now(), retention)

	deleted, err := s.newsRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old news: %w", err)
	}
	s.log.Info("old news cleaned",
		logger.IntField("retention_days", retention),
		logger.Field("deleted", deleted))
	return deleted, nil
}
