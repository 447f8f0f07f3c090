package service

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"market-daily/internal/dto"
)

const newsDisplayLimit = 5

// RenderPortfolioReport renders a basic or enhanced portfolio report into
// an email message. Rendering is deterministic: identical report data
// always produces identical bytes.
func RenderPortfolioReport(data *dto.PortfolioReportData) dto.EmailMessage {
	kind := "Portfolio Daily Report"
	if data.DataSource == "enhanced" {
		kind = "Enhanced Portfolio Report"
	}
	subject := fmt.Sprintf("%s %s - %s", data.Portfolio.Name, kind, data.FormattedDate)

	return dto.EmailMessage{
		Subject: subject,
		HTML:    renderPortfolioHTML(data, subject),
		Text:    renderPortfolioText(data, subject),
	}
}

func renderPortfolioHTML(data *dto.PortfolioReportData, subject string) string {
	var b strings.Builder
	emoji, label := sentimentBadge(data.MarketSentiment)

	openHTML(&b, subject)
	fmt.Fprintf(&b, "<h1>%s %s</h1>\n", emoji, html.EscapeString(subject))

	if data.IsEmpty {
		b.WriteString("<p>The portfolio has no holdings yet. Add stocks to start receiving coverage.</p>\n")
		closeHTML(&b)
		return b.String()
	}

	fmt.Fprintf(&b, "<p><strong>Market sentiment:</strong> %s %s (%.2f)</p>\n", emoji, label, data.MarketSentiment)
	fmt.Fprintf(&b, "<p><strong>Holdings:</strong> %d | <strong>Related news:</strong> %d</p>\n",
		data.Portfolio.StockCount, data.TotalNews)
	fmt.Fprintf(&b, "<p><strong>News this week:</strong> %d | <strong>News this month:</strong> %d | <strong>Weekly sentiment:</strong> %.2f</p>\n",
		data.Metrics.WeeklyNewsCount, data.Metrics.MonthlyNewsCount, data.Metrics.AvgSentiment)

	if data.Recommendations != nil {
		b.WriteString("<h2>🤖 Recommendations</h2>\n")
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(data.Recommendations.Summary))
		fmt.Fprintf(&b, "<p><strong>Risk level:</strong> %s</p>\n", html.EscapeString(data.Recommendations.RiskLevel))
		writeHTMLList(&b, data.Recommendations.Recommendations)
	}

	b.WriteString("<h2>⚠️ Risk Analysis</h2>\n")
	fmt.Fprintf(&b, "<p><strong>Concentration risk:</strong> %s | <strong>News risk:</strong> %s</p>\n",
		html.EscapeString(data.RiskAnalysis.ConcentrationRisk), html.EscapeString(data.RiskAnalysis.NewsRisk))
	fmt.Fprintf(&b, "<p><strong>Sentiment distribution:</strong> positive %d | negative %d | neutral %d</p>\n",
		data.RiskAnalysis.SentimentDistribution.Positive,
		data.RiskAnalysis.SentimentDistribution.Negative,
		data.RiskAnalysis.SentimentDistribution.Neutral)

	if data.EnhancedAnalysis != nil {
		b.WriteString("<h2>🔍 Deep Analysis</h2>\n")
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(data.EnhancedAnalysis.Summary))
		fmt.Fprintf(&b, "<p><strong>Risk assessment:</strong> %s</p>\n", html.EscapeString(data.EnhancedAnalysis.RiskAssessment))
		fmt.Fprintf(&b, "<p><strong>Market outlook:</strong> %s</p>\n", html.EscapeString(data.EnhancedAnalysis.MarketOutlook))
		writeHTMLList(&b, data.EnhancedAnalysis.ActionItems)
	}

	writeHTMLNewsSection(&b, "📰 Portfolio News", data.PortfolioNews)
	if len(data.ExternalNews) > 0 {
		writeHTMLNewsSection(&b, "🌐 External Coverage", data.ExternalNews)
	}

	closeHTML(&b)
	return b.String()
}

func renderPortfolioText(data *dto.PortfolioReportData, subject string) string {
	var b strings.Builder
	_, label := sentimentBadge(data.MarketSentiment)

	fmt.Fprintf(&b, "%s\n\n", subject)

	if data.IsEmpty {
		b.WriteString("The portfolio has no holdings yet. Add stocks to start receiving coverage.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Market sentiment: %s (%.2f)\n", label, data.MarketSentiment)
	fmt.Fprintf(&b, "Holdings: %d | Related news: %d\n\n", data.Portfolio.StockCount, data.TotalNews)

	if data.Recommendations != nil {
		b.WriteString("Recommendations:\n")
		fmt.Fprintf(&b, "%s\n", data.Recommendations.Summary)
		fmt.Fprintf(&b, "Risk level: %s\n", data.Recommendations.RiskLevel)
		writeTextList(&b, data.Recommendations.Recommendations)
		b.WriteString("\n")
	}

	if data.EnhancedAnalysis != nil {
		b.WriteString("Deep analysis:\n")
		fmt.Fprintf(&b, "%s\n", data.EnhancedAnalysis.Summary)
		fmt.Fprintf(&b, "Risk assessment: %s\n", data.EnhancedAnalysis.RiskAssessment)
		fmt.Fprintf(&b, "Market outlook: %s\n\n", data.EnhancedAnalysis.MarketOutlook)
	}

	writeTextNewsSection(&b, "Portfolio news:", data.PortfolioNews)
	if len(data.ExternalNews) > 0 {
		writeTextNewsSection(&b, "External coverage:", data.ExternalNews)
	}
	return b.String()
}

// RenderTopicResearchReport renders a topic research report.
func RenderTopicResearchReport(data *dto.TopicResearchData, formattedDate string) dto.EmailMessage {
	subject := fmt.Sprintf("Topic Research Report: %s - %s", data.Topic, formattedDate)

	var htmlB strings.Builder
	openHTML(&htmlB, subject)
	fmt.Fprintf(&htmlB, "<h1>📈 %s</h1>\n", html.EscapeString(subject))
	fmt.Fprintf(&htmlB, "<p><strong>Date range:</strong> %s | <strong>News items:</strong> %d</p>\n",
		html.EscapeString(data.DateRange), data.NewsCount)
	fmt.Fprintf(&htmlB, "<p><strong>Sentiment:</strong> %.2f</p>\n", data.Sentiment)
	fmt.Fprintf(&htmlB, "<h2>Summary</h2>\n<p>%s</p>\n", html.EscapeString(data.Summary))
	if data.Analysis != "" {
		fmt.Fprintf(&htmlB, "<h2>Analysis</h2>\n<p>%s</p>\n", html.EscapeString(data.Analysis))
	}
	if len(data.Trends) > 0 {
		htmlB.WriteString("<h2>📈 Key Trends</h2>\n")
		writeHTMLList(&htmlB, data.Trends)
	}
	if len(data.Recommendations) > 0 {
		htmlB.WriteString("<h2>💡 Recommendations</h2>\n")
		writeHTMLList(&htmlB, data.Recommendations)
	}
	if len(data.RiskFactors) > 0 {
		htmlB.WriteString("<h2>⚠️ Risk Factors</h2>\n")
		writeHTMLList(&htmlB, data.RiskFactors)
	}
	if len(data.Opportunities) > 0 {
		htmlB.WriteString("<h2>🎯 Opportunities</h2>\n")
		writeHTMLList(&htmlB, data.Opportunities)
	}
	writeHTMLNewsSection(&htmlB, "📰 Coverage", data.News)
	closeHTML(&htmlB)

	var textB strings.Builder
	fmt.Fprintf(&textB, "%s\n\n", subject)
	fmt.Fprintf(&textB, "Date range: %s | News items: %d\n", data.DateRange, data.NewsCount)
	fmt.Fprintf(&textB, "Sentiment: %.2f\n\n", data.Sentiment)
	fmt.Fprintf(&textB, "Summary: %s\n", data.Summary)
	if data.Analysis != "" {
		fmt.Fprintf(&textB, "Analysis: %s\n", data.Analysis)
	}
	if len(data.Trends) > 0 {
		textB.WriteString("\nKey trends:\n")
		writeTextList(&textB, data.Trends)
	}
	if len(data.Recommendations) > 0 {
		textB.WriteString("\nRecommendations:\n")
		writeTextList(&textB, data.Recommendations)
	}
	textB.WriteString("\n")
	writeTextNewsSection(&textB, "Coverage:", data.News)

	return dto.EmailMessage{Subject: subject, HTML: htmlB.String(), Text: textB.String()}
}

// RenderGeneralReport renders the market-wide digest.
func RenderGeneralReport(data *dto.GeneralReportData) dto.EmailMessage {
	subject := fmt.Sprintf("Daily Market Report - %s", data.FormattedDate)
	emoji, label := sentimentBadge(data.MarketSentiment)

	var htmlB strings.Builder
	openHTML(&htmlB, subject)
	fmt.Fprintf(&htmlB, "<h1>%s %s</h1>\n", emoji, html.EscapeString(subject))
	fmt.Fprintf(&htmlB, "<p><strong>Market sentiment:</strong> %s %s (%.2f)</p>\n", emoji, label, data.MarketSentiment)
	fmt.Fprintf(&htmlB, "<p><strong>News items:</strong> %d</p>\n", data.TotalNews)

	if data.MarketOverview != "" {
		fmt.Fprintf(&htmlB, "<h2>📈 Market Overview</h2>\n<p>%s</p>\n", html.EscapeString(data.MarketOverview))
	}

	if len(data.TrendingTopics) > 0 {
		htmlB.WriteString("<h2>🔥 Trending Topics</h2>\n<ul>\n")
		for _, topic := range data.TrendingTopics {
			fmt.Fprintf(&htmlB, "<li>%s (%d)</li>\n", html.EscapeString(topic.Keyword), topic.Count)
		}
		htmlB.WriteString("</ul>\n")
	}

	if len(data.MarketTrends) > 0 {
		htmlB.WriteString("<h2>📊 Category Trends</h2>\n<ul>\n")
		for _, trend := range data.MarketTrends {
			fmt.Fprintf(&htmlB, "<li>%s: %d items, sentiment %.2f (%s)</li>\n",
				html.EscapeString(trend.Category), trend.NewsCount, trend.AvgSentiment, trend.Trend)
		}
		htmlB.WriteString("</ul>\n")
	}

	if len(data.Portfolios) > 0 {
		htmlB.WriteString("<h2>📂 Public Portfolios</h2>\n<ul>\n")
		for _, p := range data.Portfolios {
			fmt.Fprintf(&htmlB, "<li>%s (%d stocks)</li>\n", html.EscapeString(p.Name), p.StockCount)
		}
		htmlB.WriteString("</ul>\n")
	}

	for _, category := range sortedCategories(data.NewsByCategory) {
		writeHTMLNewsSection(&htmlB, "📰 "+categoryLabel(category), data.NewsByCategory[category])
	}
	closeHTML(&htmlB)

	var textB strings.Builder
	fmt.Fprintf(&textB, "%s\n\n", subject)
	fmt.Fprintf(&textB, "Market sentiment: %s (%.2f)\n", label, data.MarketSentiment)
	fmt.Fprintf(&textB, "News items: %d\n\n", data.TotalNews)
	if data.MarketOverview != "" {
		fmt.Fprintf(&textB, "Market overview: %s\n\n", data.MarketOverview)
	}
	if len(data.TrendingTopics) > 0 {
		textB.WriteString("Trending topics:\n")
		for _, topic := range data.TrendingTopics {
			fmt.Fprintf(&textB, "- %s (%d)\n", topic.Keyword, topic.Count)
		}
		textB.WriteString("\n")
	}
	for _, category := range sortedCategories(data.NewsByCategory) {
		writeTextNewsSection(&textB, categoryLabel(category)+":", data.NewsByCategory[category])
	}

	return dto.EmailMessage{Subject: subject, HTML: htmlB.String(), Text: textB.String()}
}

// RenderGenerationError renders the admin notification for a failed
// scheduled generation.
func RenderGenerationError(scope string, genErr error) dto.EmailMessage {
	subject := fmt.Sprintf("Report Generation Error - %s", scope)
	body := fmt.Sprintf("Report generation for %s failed:\n\n%v\n", scope, genErr)
	htmlBody := fmt.Sprintf("<h1>⚠️ %s</h1>\n<p>%s</p>\n",
		html.EscapeString(subject), html.EscapeString(genErr.Error()))
	return dto.EmailMessage{Subject: subject, HTML: htmlBody, Text: body}
}

func sentimentBadge(score float64) (emoji, label string) {
	switch ClassifySentiment(score) {
	case "positive":
		return "📈", "Optimistic"
	case "negative":
		return "📉", "Cautious"
	default:
		return "➡️", "Neutral"
	}
}

var categoryLabels = map[string]string{
	"market":   "Market News",
	"stock":    "Stock News",
	"economy":  "Economic News",
	"tech":     "Technology News",
	"general":  "General News",
	"external": "External News",
}

func categoryLabel(category string) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return strings.ToUpper(category[:1]) + category[1:] + " News"
}

func sortedCategories(byCategory map[string][]dto.NewsItem) []string {
	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

func openHTML(b *strings.Builder, title string) {
	fmt.Fprintf(b, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n",
		html.EscapeString(title))
}

func closeHTML(b *strings.Builder) {
	b.WriteString("<hr>\n<p>This email was generated automatically by Market Daily.</p>\n</body>\n</html>\n")
}

func writeHTMLList(b *strings.Builder, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("<ul>\n")
	for _, item := range items {
		fmt.Fprintf(b, "<li>%s</li>\n", html.EscapeString(item))
	}
	b.WriteString("</ul>\n")
}

func writeTextList(b *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func writeHTMLNewsSection(b *strings.Builder, title string, items []dto.NewsItem) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "<h2>%s</h2>\n", html.EscapeString(title))
	if len(items) > newsDisplayLimit {
		items = items[:newsDisplayLimit]
	}
	for _, item := range items {
		fmt.Fprintf(b, "<div><a href=%q>%s</a>", item.URL, html.EscapeString(item.Title))
		if item.Summary != "" {
			fmt.Fprintf(b, "<br>%s", html.EscapeString(item.Summary))
		}
		if len(item.Symbols) > 0 {
			fmt.Fprintf(b, "<br><em>Related: %s</em>", html.EscapeString(strings.Join(item.Symbols, ", ")))
		}
		b.WriteString("</div>\n")
	}
}

func writeTextNewsSection(b *strings.Builder, title string, items []dto.NewsItem) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s\n", title)
	if len(items) > newsDisplayLimit {
		items = items[:newsDisplayLimit]
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item.Title)
		if len(item.Symbols) > 0 {
			fmt.Fprintf(b, "  Related: %s\n", strings.Join(item.Symbols, ", "))
		}
	}
	b.WriteString("\n")
}
