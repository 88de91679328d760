package service

import (
	"math"
	"sort"
	"time"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/executor/dto"
	"stock-ai-predictor/pkg/utils"
)

const (
	// MinHistoryBars is the history needed for a trend summary or a forecast.
	MinHistoryBars = 30
	// TrendWindow is the number of trailing bars a trend summary covers.
	TrendWindow = 30

	maxPromptNews         = 10
	maxNewsTitleChars     = 100
	maxPromptPosts        = 50
	highEngagementScore   = 100
	maxCorrelationSymbols = 10
)

// SortBarsAscending orders bars by date, oldest first.
func SortBarsAscending(bars []entity.PriceBar) {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
}

// LastN returns the trailing n bars.
func LastN(bars []entity.PriceBar, n int) []entity.PriceBar {
	if len(bars) <= n {
		return bars
	}
	return bars[len(bars)-n:]
}

// PercentChange is (last-first)/first*100, or 0 when first is 0.
func PercentChange(first, last float64) float64 {
	if first == 0 {
		return 0
	}
	return (last - first) / first * 100
}

// SummarizeTrend condenses the trailing window of bars. The trend is up only
// when the last close is strictly above the first; a flat window is down.
func SummarizeTrend(symbol string, bars []entity.PriceBar, window int) dto.TrendSummary {
	recent := LastN(bars, window)
	summary := dto.TrendSummary{Symbol: symbol, Trend: entity.DirectionDown}
	if len(recent) == 0 {
		return summary
	}

	first, last := recent[0].Close, recent[len(recent)-1].Close
	if last > first {
		summary.Trend = entity.DirectionUp
	}

	high, low := math.Inf(-1), math.Inf(1)
	for _, b := range recent {
		high = math.Max(high, b.Close)
		low = math.Min(low, b.Close)
	}
	summary.ChangePercent = round2(PercentChange(first, last))
	summary.RecentHigh = round2(high)
	summary.RecentLow = round2(low)
	return summary
}

// SummarizeNews keeps the first max items as title/label pairs.
func SummarizeNews(items []entity.NewsItem, max int) []dto.NewsSignal {
	if len(items) > max {
		items = items[:max]
	}
	out := make([]dto.NewsSignal, 0, len(items))
	for _, item := range items {
		label := item.SentimentLabel
		if !label.Valid() {
			label = entity.SentimentNeutral
		}
		out = append(out, dto.NewsSignal{
			Title:     utils.Truncate(item.Title, maxNewsTitleChars),
			Sentiment: label,
		})
	}
	return out
}

// SummarizeSocial counts posts, averages their sentiment and counts posts
// scoring above the engagement threshold.
func SummarizeSocial(posts []entity.SocialPost) dto.SocialSummary {
	summary := dto.SocialSummary{TotalPosts: len(posts)}
	if len(posts) == 0 {
		return summary
	}
	var total float64
	for _, p := range posts {
		total += p.Sentiment
		if p.Score > highEngagementScore {
			summary.HighEngagementPosts++
		}
	}
	summary.AvgSentiment = total / float64(len(posts))
	return summary
}

// FilterCorrelations keeps the pairs naming symbol on either side.
func FilterCorrelations(correlations []dto.Correlation, symbol string) []dto.Correlation {
	out := make([]dto.Correlation, 0)
	for _, c := range correlations {
		if c.Mentions(symbol) {
			out = append(out, c)
		}
	}
	return out
}

// WeekStart is the rollup bucket for an evaluation run at now: the calendar
// date seven days earlier.
func WeekStart(now time.Time) time.Time {
	return utils.AddDays(now, -7)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
