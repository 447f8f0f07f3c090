package service

import (
	"testing"

	"market-daily/internal/dto"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func TestAverageSentiment(t *testing.T) {
	assert.Equal(t, 0.0, AverageSentiment(nil))
	assert.Equal(t, 0.0, AverageSentiment([]dto.NewsItem{}))

	items := []dto.NewsItem{
		{Sentiment: f64(0.4)},
		{Sentiment: f64(-0.2)},
	}
	assert.InDelta(t, 0.1, AverageSentiment(items), 1e-9)
}

func TestAverageSentimentSkipsUnscored(t *testing.T) {
	items := []dto.NewsItem{
		{Sentiment: f64(0.6)},
		{Sentiment: nil},
		{Sentiment: f64(0.2)},
	}
	assert.InDelta(t, 0.4, AverageSentiment(items), 1e-9)

	allUnscored := []dto.NewsItem{{Sentiment: nil}, {Sentiment: nil}}
	assert.Equal(t, 0.0, AverageSentiment(allUnscored))
}

func TestClassifySentiment(t *testing.T) {
	assert.Equal(t, "positive", ClassifySentiment(0.11))
	assert.Equal(t, "negative", ClassifySentiment(-0.11))
	assert.Equal(t, "neutral", ClassifySentiment(0.1))
	assert.Equal(t, "neutral", ClassifySentiment(-0.1))
	assert.Equal(t, "neutral", ClassifySentiment(0))
}

func TestSentimentDistribution(t *testing.T) {
	items := []dto.NewsItem{
		{Sentiment: f64(0.5)},
		{Sentiment: f64(-0.5)},
		{Sentiment: f64(0.05)},
		{Sentiment: nil},
	}
	dist := SentimentDistribution(items)
	assert.Equal(t, 1, dist.Positive)
	assert.Equal(t, 1, dist.Negative)
	assert.Equal(t, 2, dist.Neutral)
}

func TestTrendingTopics(t *testing.T) {
	items := []dto.NewsItem{
		{Title: "Fed raises interest rates"},
		{Title: "Fed holds interest rates"},
		{Title: "Markets react to Fed decision"},
	}

	topics := TrendingTopics(items)

	assert.Equal(t, 3, len(topics))
	assert.Equal(t, dto.TrendingTopic{Keyword: "fed", Count: 3}, topics[0])
	// Ties keep first-appearance order.
	assert.Equal(t, dto.TrendingTopic{Keyword: "interest", Count: 2}, topics[1])
	assert.Equal(t, dto.TrendingTopic{Keyword: "rates", Count: 2}, topics[2])
}

func TestTrendingTopicsFiltersShortAndStopwords(t *testing.T) {
	items := []dto.NewsItem{
		{Title: "the and for with ai"},
		{Title: "the and for with ai"},
	}
	topics := TrendingTopics(items)
	// "ai" is too short and everything else is a stopword.
	assert.Empty(t, topics)
}

func TestTrendingTopicsCapsAtFive(t *testing.T) {
	items := []dto.NewsItem{
		{Title: "alpha bravo charlie delta echoes foxtrot golfing"},
		{Title: "alpha bravo charlie delta echoes foxtrot golfing"},
	}
	topics := TrendingTopics(items)
	assert.Equal(t, 5, len(topics))
	assert.Equal(t, "alpha", topics[0].Keyword)
}

func TestTrendingTopicsDeterministic(t *testing.T) {
	items := []dto.NewsItem{
		{Title: "Tesla earnings beat expectations"},
		{Title: "Tesla earnings miss expectations"},
	}
	first := TrendingTopics(items)
	second := TrendingTopics(items)
	assert.Equal(t, first, second)
}

func TestGroupByCategory(t *testing.T) {
	items := []dto.NewsItem{
		{Title: "a", Category: "market"},
		{Title: "b", Category: ""},
		{Title: "c", Category: "market"},
	}
	grouped := GroupByCategory(items)
	assert.Equal(t, 2, len(grouped["market"]))
	assert.Equal(t, 1, len(grouped["general"]))
}

func TestMarketTrends(t *testing.T) {
	market := make([]dto.NewsItem, 6)
	for i := range market {
		market[i] = dto.NewsItem{Sentiment: f64(0.4)}
	}
	byCategory := map[string][]dto.NewsItem{
		"market":  market,
		"tech":    {{Sentiment: f64(-0.4)}, {}, {}},
		"economy": {{Sentiment: f64(0.2)}},
	}
	trends := MarketTrends(byCategory)

	assert.Equal(t, 3, len(trends))
	assert.Equal(t, "market", trends[0].Category)
	assert.Equal(t, 6, trends[0].NewsCount)
	assert.InDelta(t, 0.4, trends[0].AvgSentiment, 1e-9)
	assert.Equal(t, "hot", trends[0].Trend)
	assert.Equal(t, "tech", trends[1].Category)
	assert.Equal(t, "normal", trends[1].Trend)
	assert.Equal(t, "economy", trends[2].Category)
	assert.Equal(t, "low", trends[2].Trend)
}

func TestMarketTrendsTiesAreDeterministic(t *testing.T) {
	byCategory := map[string][]dto.NewsItem{
		"tech":   {{}},
		"market": {{}},
		"policy": {{}},
	}
	trends := MarketTrends(byCategory)

	assert.Equal(t, "market", trends[0].Category)
	assert.Equal(t, "policy", trends[1].Category)
	assert.Equal(t, "tech", trends[2].Category)
}
