package dto

// PortfolioSummary is the portfolio header embedded in a report payload.
type PortfolioSummary struct {
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Stocks      []StockEntry `json:"stocks"`
	StockCount  int          `json:"stockCount"`
}

// StockEntry is one holding as rendered in reports.
type StockEntry struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Sector string `json:"sector,omitempty"`
}

// PortfolioMetrics carries the trailing news-activity metrics for a
// portfolio.
type PortfolioMetrics struct {
	WeeklyNewsCount  int64   `json:"weeklyNewsCount"`
	MonthlyNewsCount int64   `json:"monthlyNewsCount"`
	AvgSentiment     float64 `json:"avgSentiment"`
	ReportDate       string  `json:"reportDate"`
}

// SentimentDistribution counts news items per sentiment class.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// RiskAnalysis is the rule-based risk record for a portfolio report.
type RiskAnalysis struct {
	ConcentrationRisk     string                `json:"concentrationRisk"`
	NewsRisk              string                `json:"newsRisk"`
	SectorDistribution    map[string]int        `json:"sectorDistribution"`
	SentimentDistribution SentimentDistribution `json:"sentimentDistribution"`
}

// MarketTrend is one per-category activity row in the general report.
type MarketTrend struct {
	Category     string  `json:"category"`
	NewsCount    int     `json:"newsCount"`
	AvgSentiment float64 `json:"avgSentiment"`
	Trend        string  `json:"trend"`
}

// TrendingTopic is one keyword/count pair from the trending extractor.
type TrendingTopic struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// PortfolioReportData is the payload for portfolio and enhanced-portfolio
// reports. Enhancement fields stay empty on the basic variant.
type PortfolioReportData struct {
	Date            string                    `json:"date"`
	FormattedDate   string                    `json:"formattedDate"`
	Portfolio       PortfolioSummary          `json:"portfolio"`
	TotalNews       int                       `json:"totalNews"`
	PortfolioNews   []NewsItem                `json:"portfolioNews"`
	NewsByCategory  map[string][]NewsItem     `json:"newsByCategory"`
	MarketSentiment float64                   `json:"marketSentiment"`
	Metrics         PortfolioMetrics          `json:"metrics"`
	Recommendations *PortfolioRecommendations `json:"aiRecommendations,omitempty"`
	RiskAnalysis    RiskAnalysis              `json:"riskAnalysis"`
	IsEmpty         bool                      `json:"isEmpty,omitempty"`
	Type            string                    `json:"type"`

	// Enhanced-report additions.
	ExternalNews      []NewsItem            `json:"externalNews,omitempty"`
	ExternalAnalysis  *ExternalNewsAnalysis `json:"externalAnalysis,omitempty"`
	EnhancedAnalysis  *EnhancedAnalysis     `json:"enhancedAIAnalysis,omitempty"`
	DataSource        string                `json:"dataSource,omitempty"`
	TotalExternalNews int                   `json:"totalExternalNews,omitempty"`
}

// PublicPortfolio is one public portfolio shown in the general report.
type PublicPortfolio struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StockCount  int    `json:"stockCount"`
}

// GeneralReportData is the payload for the general market report.
type GeneralReportData struct {
	Date            string                `json:"date"`
	FormattedDate   string                `json:"formattedDate"`
	TotalNews       int                   `json:"totalNews"`
	NewsByCategory  map[string][]NewsItem `json:"newsByCategory"`
	MarketSentiment float64               `json:"marketSentiment"`
	Portfolios      []PublicPortfolio     `json:"portfolios"`
	MarketOverview  string                `json:"marketOverview"`
	TrendingTopics  []TrendingTopic       `json:"trendingTopics"`
	MarketTrends    []MarketTrend         `json:"marketTrends"`
	IsGeneral       bool                  `json:"isGeneral"`
	Type            string                `json:"type"`
}

// TopicResearchData is the payload for a topic research report.
type TopicResearchData struct {
	Topic             string     `json:"topic"`
	DateRange         string     `json:"dateRange"`
	NewsCount         int        `json:"newsCount"`
	LocalNewsCount    int        `json:"localNewsCount"`
	ExternalNewsCount int        `json:"externalNewsCount"`
	News              []NewsItem `json:"news"`
	Sentiment         float64    `json:"sentiment"`
	Summary           string     `json:"summary"`
	Analysis          string     `json:"analysis"`
	Trends            []string   `json:"trends"`
	Recommendations   []string   `json:"recommendations"`
	RiskFactors       []string   `json:"riskFactors"`
	Opportunities     []string   `json:"opportunities"`
	Type              string     `json:"type"`
}
