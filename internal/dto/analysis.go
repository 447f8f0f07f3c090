package dto

// MarketAnalysis is the narrative produced for a batch of news.
type MarketAnalysis struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
	Outlook   string   `json:"outlook"`
}

// PortfolioRecommendations is the advisory record for a portfolio report.
type PortfolioRecommendations struct {
	Recommendations []string `json:"recommendations"`
	RiskLevel       string   `json:"riskLevel"`
	Summary         string   `json:"summary"`
}

// EnhancedAnalysis is the deeper narrative attached to enhanced portfolio
// reports.
type EnhancedAnalysis struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
	RiskAssessment  string   `json:"riskAssessment"`
	MarketOutlook   string   `json:"marketOutlook"`
	ActionItems     []string `json:"actionItems"`
}

// ExternalNewsAnalysis summarizes externally sourced news.
type ExternalNewsAnalysis struct {
	Summary     string   `json:"summary"`
	KeyTrends   []string `json:"keyTrends"`
	Sentiment   float64  `json:"sentiment"`
	RiskFactors []string `json:"riskFactors"`
}

// TopicDeepAnalysis is the research narrative for a topic report.
type TopicDeepAnalysis struct {
	Summary         string   `json:"summary"`
	Analysis        string   `json:"analysis"`
	Trends          []string `json:"trends"`
	Recommendations []string `json:"recommendations"`
	RiskFactors     []string `json:"riskFactors"`
	Opportunities   []string `json:"opportunities"`
}

// NewsItemAnalysis enriches a single scraped article during refresh.
type NewsItemAnalysis struct {
	Summary   string   `json:"summary"`
	Category  string   `json:"category"`
	Sentiment float64  `json:"sentiment"`
	Symbols   []string `json:"symbols"`
}
