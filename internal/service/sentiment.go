package service

import (
	"regexp"
	"sort"
	"strings"

	"market-daily/internal/dto"
)

const (
	sentimentPositiveThreshold = 0.1
	sentimentNegativeThreshold = -0.1
	maxTrendingTopics          = 5
)

var trendingStopwords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
}

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// AverageSentiment returns the mean of the scored items. Items without a
// score are skipped; an empty or fully unscored set yields 0.
func AverageSentiment(items []dto.NewsItem) float64 {
	var sum float64
	var n int
	for _, item := range items {
		if item.Sentiment == nil {
			continue
		}
		sum += *item.Sentiment
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// ClassifySentiment maps a score to positive, negative, or neutral.
func ClassifySentiment(score float64) string {
	switch {
	case score > sentimentPositiveThreshold:
		return "positive"
	case score < sentimentNegativeThreshold:
		return "negative"
	default:
		return "neutral"
	}
}

// SentimentDistribution tallies items per class. Unscored items count as
// neutral.
func SentimentDistribution(items []dto.NewsItem) dto.SentimentDistribution {
	var dist dto.SentimentDistribution
	for _, item := range items {
		if item.Sentiment == nil {
			dist.Neutral++
			continue
		}
		switch ClassifySentiment(*item.Sentiment) {
		case "positive":
			dist.Positive++
		case "negative":
			dist.Negative++
		default:
			dist.Neutral++
		}
	}
	return dist
}

// TrendingTopics extracts the most frequent keywords across item titles.
// Words are lowercased, stripped of punctuation, and kept only when at
// least three characters, not a stopword, and seen more than once. Ties
// keep first-appearance order so the result is stable across runs.
func TrendingTopics(items []dto.NewsItem) []dto.TrendingTopic {
	counts := make(map[string]int)
	var order []string

	for _, item := range items {
		cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(item.Title), "")
		for _, word := range strings.Fields(cleaned) {
			if len(word) < 3 {
				continue
			}
			if _, stop := trendingStopwords[word]; stop {
				continue
			}
			if _, seen := counts[word]; !seen {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	var topics []dto.TrendingTopic
	for _, word := range order {
		if counts[word] > 1 {
			topics = append(topics, dto.TrendingTopic{Keyword: word, Count: counts[word]})
		}
	}
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Count > topics[j].Count
	})
	if len(topics) > maxTrendingTopics {
		topics = topics[:maxTrendingTopics]
	}
	return topics
}

// MarketTrends summarizes per-category activity: item count, average
// sentiment, and an activity label. More than five items is hot, more
// than two is normal, anything else is low. Ordered by count descending
// with the category name as tiebreak.
func MarketTrends(byCategory map[string][]dto.NewsItem) []dto.MarketTrend {
	trends := make([]dto.MarketTrend, 0, len(byCategory))
	for category, items := range byCategory {
		trends = append(trends, dto.MarketTrend{
			Category:     category,
			NewsCount:    len(items),
			AvgSentiment: AverageSentiment(items),
			Trend:        activityLabel(len(items)),
		})
	}
	sort.SliceStable(trends, func(i, j int) bool {
		if trends[i].NewsCount != trends[j].NewsCount {
			return trends[i].NewsCount > trends[j].NewsCount
		}
		return trends[i].Category < trends[j].Category
	})
	return trends
}

func activityLabel(count int) string {
	switch {
	case count > 5:
		return "hot"
	case count > 2:
		return "normal"
	default:
		return "low"
	}
}

// GroupByCategory buckets items under their category, defaulting blank
// categories to "general".
func GroupByCategory(items []dto.NewsItem) map[string][]dto.NewsItem {
	grouped := make(map[string][]dto.NewsItem)
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = "general"
		}
		grouped[category] = append(grouped[category], item)
	}
	return grouped
}
