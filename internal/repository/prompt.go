package repository

import (
	"fmt"
	"strings"

	"market-daily/internal/dto"
)

const maxPromptNews = 20

func formatNewsLines(news []dto.NewsItem, limit int) string {
	if limit > len(news) {
		limit = len(news)
	}
	var b strings.Builder
	for _, item := range news[:limit] {
		summary := item.Summary
		if summary == "" {
			summary = "no summary"
		}
		origin := "internal"
		if item.External {
			origin = "external"
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n", origin, item.Title, summary)
	}
	return b.String()
}

func formatStockLine(stocks []dto.StockEntry) string {
	parts := make([]string, 0, len(stocks))
	for _, s := range stocks {
		parts = append(parts, fmt.Sprintf("%s: %s", s.Symbol, s.Name))
	}
	return strings.Join(parts, ", ")
}

// BuildMarketAnalysisPrompt asks for a concise market analysis of recent
// news in a fixed JSON shape.
func BuildMarketAnalysisPrompt(news []dto.NewsItem) string {
	return fmt.Sprintf(`You are a professional financial analyst. Based on the news below, produce a concise market analysis.
Respond with a JSON object only, no other text, with these fields:
- "summary": overall market situation in at most 50 words
- "keyPoints": array of key points, at most 3, each at most 30 words
- "outlook": market outlook in at most 100 words

News:
%s`, formatNewsLines(news, 10))
}

// BuildPortfolioRecommendationsPrompt asks for advisory output for a
// portfolio and its related news.
func BuildPortfolioRecommendationsPrompt(stocks []dto.StockEntry, news []dto.NewsItem) string {
	return fmt.Sprintf(`You are a professional investment advisor. Based on the portfolio and related news below, provide investment advice.
Respond with a JSON object only, no other text, with these fields:
- "recommendations": array of recommendations, at most 3, each at most 50 words
- "riskLevel": one of "low", "medium", "high"
- "summary": overall advice in at most 100 words

Portfolio holdings: %s

Related news:
%s`, formatStockLine(stocks), formatNewsLines(news, 5))
}

// BuildEnhancedAnalysisPrompt asks for the deeper analysis used by
// enhanced portfolio reports, over merged internal and external news.
func BuildEnhancedAnalysisPrompt(stocks []dto.StockEntry, news []dto.NewsItem) string {
	return fmt.Sprintf(`You are a senior investment analyst. Based on the portfolio and the combined news below, provide a professional investment analysis.
Respond with a JSON object only, no other text, with these fields:
- "summary": combined portfolio analysis in at most 200 words
- "recommendations": array of concrete recommendations, at most 5, each at most 50 words
- "riskAssessment": one of "low", "medium", "high", "critical"
- "marketOutlook": market outlook in at most 150 words
- "actionItems": array of action items, at most 3, each at most 30 words

Portfolio holdings: %s

Related news (internal and external sources):
%s`, formatStockLine(stocks), formatNewsLines(news, 15))
}

// BuildMarketOverviewPrompt asks for a plain-text overview from headlines
// only.
func BuildMarketOverviewPrompt(news []dto.NewsItem) string {
	limit := 8
	if limit > len(news) {
		limit = len(news)
	}
	var titles strings.Builder
	for _, item := range news[:limit] {
		titles.WriteString(item.Title)
		titles.WriteString("\n")
	}
	return fmt.Sprintf(`You are a financial analyst. Summarize the current market situation in at most 200 words, based on these headlines:

%s`, titles.String())
}

// BuildExternalNewsAnalysisPrompt asks for a trend summary of externally
// sourced news.
func BuildExternalNewsAnalysisPrompt(news []dto.NewsItem) string {
	return fmt.Sprintf(`You are a professional financial analyst. Based on the news below, produce a market analysis.
Respond with a JSON object only, no other text, with these fields:
- "summary": overall market situation in at most 150 words
- "keyTrends": array of key trends, at most 5, each at most 30 words
- "sentiment": overall sentiment score, a number between -1 and 1
- "riskFactors": array of risk factors, at most 3, each at most 30 words

News:
%s`, formatNewsLines(news, 10))
}

// BuildTopicDeepAnalysisPrompt asks for the research narrative of a topic
// report.
func BuildTopicDeepAnalysisPrompt(topic string, news []dto.NewsItem) string {
	return fmt.Sprintf(`You are a professional research analyst. Perform a deep analysis of the topic %q based on the multi-source news below.
Respond with a JSON object only, no other text, with these fields:
- "summary": topic overview in at most 200 words
- "analysis": deep analysis in at most 300 words
- "trends": array of key trends, at most 5, each at most 40 words
- "recommendations": array of investment recommendations, at most 5, each at most 50 words
- "riskFactors": array of risk factors, at most 3, each at most 40 words
- "opportunities": array of opportunities, at most 3, each at most 40 words

News:
%s`, topic, formatNewsLines(news, maxPromptNews))
}

// BuildNewsItemAnalysisPrompt asks for per-article enrichment during the
// refresh pipeline.
func BuildNewsItemAnalysisPrompt(title, content string) string {
	if runes := []rune(content); len(runes) > 2000 {
		content = string(runes[:2000])
	}
	return fmt.Sprintf(`You are a financial news editor. Analyze the article below.
Respond with a JSON object only, no other text, with these fields:
- "summary": summary of the article in at most 60 words
- "category": one of "earnings", "market", "policy", "economy", "general"
- "sentiment": sentiment score for investors, a number between -1 and 1
- "symbols": array of US stock ticker symbols the article is directly relevant to, possibly empty

Title: %s
Content: %s`, title, content)
}
