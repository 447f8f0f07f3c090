package service

import (
	"fmt"
	"strings"
	"testing"

	"market-daily/internal/dto"

	"github.com/stretchr/testify/assert"
)

func samplePortfolioData() *dto.PortfolioReportData {
	return &dto.PortfolioReportData{
		Date:          "2026-08-31",
		FormattedDate: "August 31, 2026",
		Portfolio: dto.PortfolioSummary{
			ID:         1,
			Name:       "Tech",
			Stocks:     []dto.StockEntry{{Symbol: "AAPL", Name: "Apple"}},
			StockCount: 1,
		},
		TotalNews: 1,
		PortfolioNews: []dto.NewsItem{
			{Title: "Apple beats estimates", URL: "https://example.com/aapl", Symbols: []string{"AAPL"}},
		},
		MarketSentiment: 0.4,
		Metrics:         dto.PortfolioMetrics{WeeklyNewsCount: 3, MonthlyNewsCount: 9, AvgSentiment: 0.25},
		Recommendations: &dto.PortfolioRecommendations{
			Summary:         "Hold positions.",
			RiskLevel:       "low",
			Recommendations: []string{"Keep AAPL"},
		},
		RiskAnalysis: dto.RiskAnalysis{
			ConcentrationRisk:     "high",
			NewsRisk:              "low",
			SentimentDistribution: dto.SentimentDistribution{Positive: 1},
		},
		Type: "portfolio",
	}
}

func TestRenderPortfolioReportDeterministic(t *testing.T) {
	data := samplePortfolioData()
	first := RenderPortfolioReport(data)
	second := RenderPortfolioReport(data)
	assert.Equal(t, first, second)
}

func TestRenderPortfolioReportSubjectAndBadge(t *testing.T) {
	msg := RenderPortfolioReport(samplePortfolioData())
	assert.Equal(t, "Tech Portfolio Daily Report - August 31, 2026", msg.Subject)
	assert.Contains(t, msg.HTML, "📈")
	assert.Contains(t, msg.HTML, "Optimistic")
	assert.Contains(t, msg.HTML, "0.40")
	assert.Contains(t, msg.Text, "Optimistic (0.40)")
}

func TestRenderEnhancedSubject(t *testing.T) {
	data := samplePortfolioData()
	data.DataSource = "enhanced"
	data.EnhancedAnalysis = &dto.EnhancedAnalysis{
		Summary:        "Deeper view.",
		RiskAssessment: "medium",
		MarketOutlook:  "positive",
	}
	msg := RenderPortfolioReport(data)
	assert.Equal(t, "Tech Enhanced Portfolio Report - August 31, 2026", msg.Subject)
	assert.Contains(t, msg.HTML, "Deep Analysis")
}

func TestRenderOmitsMissingSections(t *testing.T) {
	data := samplePortfolioData()
	data.Recommendations = nil
	msg := RenderPortfolioReport(data)
	assert.NotContains(t, msg.HTML, "Recommendations")
	assert.NotContains(t, msg.Text, "Recommendations")
	assert.NotContains(t, msg.HTML, "Deep Analysis")
}

func TestRenderEmptyPortfolio(t *testing.T) {
	data := samplePortfolioData()
	data.IsEmpty = true
	msg := RenderPortfolioReport(data)
	assert.Contains(t, msg.HTML, "no holdings")
	assert.NotContains(t, msg.HTML, "Risk Analysis")
}

func TestRenderCapsNewsAtFive(t *testing.T) {
	data := samplePortfolioData()
	data.PortfolioNews = nil
	for i := 0; i < 8; i++ {
		data.PortfolioNews = append(data.PortfolioNews, dto.NewsItem{
			Title: fmt.Sprintf("Story %d", i),
			URL:   fmt.Sprintf("https://example.com/%d", i),
		})
	}
	msg := RenderPortfolioReport(data)
	assert.Equal(t, 5, strings.Count(msg.HTML, "Story "))
	assert.Contains(t, msg.HTML, "Story 4")
	assert.NotContains(t, msg.HTML, "Story 5")
}

func TestRenderEscapesHTML(t *testing.T) {
	data := samplePortfolioData()
	data.PortfolioNews[0].Title = `<script>alert("x")</script>`
	msg := RenderPortfolioReport(data)
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
}

func TestRenderTopicResearchReport(t *testing.T) {
	data := &dto.TopicResearchData{
		Topic:     "blockchain",
		DateRange: "2026-08-17 to 2026-08-31",
		NewsCount: 2,
		Sentiment: -0.25,
		Summary:   "Coverage is mixed.",
		Analysis:  "Longer analysis.",
		Trends:    []string{"institutional adoption"},
		News: []dto.NewsItem{
			{Title: "Chain news", URL: "https://example.com/chain"},
		},
	}
	msg := RenderTopicResearchReport(data, "August 31, 2026")
	assert.Equal(t, "Topic Research Report: blockchain - August 31, 2026", msg.Subject)
	assert.Contains(t, msg.HTML, "-0.25")
	assert.Contains(t, msg.HTML, "institutional adoption")
	assert.Contains(t, msg.Text, "Coverage is mixed.")

	// Sections without data are left out entirely.
	assert.NotContains(t, msg.HTML, "Opportunities")
	assert.NotContains(t, msg.HTML, "Risk Factors")
}

func TestRenderGeneralReport(t *testing.T) {
	data := &dto.GeneralReportData{
		FormattedDate:   "August 31, 2026",
		TotalNews:       3,
		MarketSentiment: -0.3,
		MarketOverview:  "Risk-off day.",
		TrendingTopics:  []dto.TrendingTopic{{Keyword: "fed", Count: 3}},
		NewsByCategory: map[string][]dto.NewsItem{
			"market": {{Title: "Fed raises rates", URL: "https://example.com/fed"}},
		},
		Portfolios: []dto.PublicPortfolio{{Name: "Tech", StockCount: 1}},
		IsGeneral:  true,
	}
	msg := RenderGeneralReport(data)
	assert.Equal(t, "Daily Market Report - August 31, 2026", msg.Subject)
	assert.Contains(t, msg.HTML, "📉")
	assert.Contains(t, msg.HTML, "Cautious")
	assert.Contains(t, msg.HTML, "fed (3)")
	assert.Contains(t, msg.HTML, "Market News")
	assert.Contains(t, msg.Text, "Risk-off day.")
}
