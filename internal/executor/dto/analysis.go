package dto

import (
	"time"

	"stock-ai-predictor/internal/entity"
)

// SentimentResult is the scored sentiment of one text.
type SentimentResult struct {
	Score     float64               `json:"sentiment_score"`
	Label     entity.SentimentLabel `json:"sentiment_label"`
	KeyPoints []string              `json:"key_points"`
}

// NeutralSentiment is the fallback when a text cannot be scored.
func NeutralSentiment() SentimentResult {
	return SentimentResult{Score: 0, Label: entity.SentimentNeutral, KeyPoints: []string{}}
}

// TrendSummary describes the last window of bars of one instrument.
type TrendSummary struct {
	Symbol        string           `json:"symbol"`
	Trend         entity.Direction `json:"trend"`
	ChangePercent float64          `json:"change_percent"`
	RecentHigh    float64          `json:"recent_high"`
	RecentLow     float64          `json:"recent_low"`
}

// InstrumentHistory is an instrument with its bars in ascending date order.
type InstrumentHistory struct {
	Instrument entity.Instrument `json:"instrument"`
	Bars       []entity.PriceBar `json:"bars"`
}

const (
	RelationshipInverse  = "inverse"
	RelationshipPositive = "positive"

	StrengthStrong   = "strong"
	StrengthModerate = "moderate"
	StrengthWeak     = "weak"
)

// Correlation is a model-asserted relationship between two instruments.
type Correlation struct {
	Instrument1  string `json:"instrument1"`
	Instrument2  string `json:"instrument2"`
	Relationship string `json:"relationship"`
	Strength     string `json:"strength"`
	Explanation  string `json:"explanation"`
}

// Mentions reports whether symbol is one side of the pair.
func (c Correlation) Mentions(symbol string) bool {
	return c.Instrument1 == symbol || c.Instrument2 == symbol
}

// NewsSignal is a headline condensed for a prompt.
type NewsSignal struct {
	Title     string                `json:"title"`
	Sentiment entity.SentimentLabel `json:"sentiment"`
}

// SocialSummary aggregates social posts for a prompt.
type SocialSummary struct {
	TotalPosts          int     `json:"total_posts"`
	AvgSentiment        float64 `json:"avg_sentiment"`
	HighEngagementPosts int     `json:"high_engagement_posts"`
}

// PredictionInput bundles everything the generator reads for one instrument.
type PredictionInput struct {
	Instrument     entity.Instrument   `json:"instrument"`
	Bars           []entity.PriceBar   `json:"bars"`
	News           []entity.NewsItem   `json:"news"`
	Posts          []entity.SocialPost `json:"posts"`
	MarketOverview MarketOverview      `json:"market_overview"`
	Correlations   []Correlation       `json:"correlations"`
}

// PredictionCandidate is a validated forecast ready to be stored.
type PredictionCandidate struct {
	InstrumentID   uint             `json:"instrument_id"`
	Symbol         string           `json:"symbol"`
	PredictionDate time.Time        `json:"prediction_date"`
	TargetDate     time.Time        `json:"target_date"`
	Direction      entity.Direction `json:"direction"`
	Confidence     float64          `json:"confidence"`
	Strategy       entity.Strategy  `json:"strategy"`
	Reasoning      string           `json:"reasoning"`
	KeyFactors     []string         `json:"key_factors"`
	RiskLevel      string           `json:"risk_level"`
}

// StrategyTally counts evaluated predictions for one strategy.
type StrategyTally struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// Accuracy returns correct/total as a percentage, 0 when total is 0.
func (t StrategyTally) Accuracy() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Total) * 100
}

// EvaluationReport summarises one evaluation run.
type EvaluationReport struct {
	Due             int                                `json:"due"`
	Evaluated       int                                `json:"evaluated"`
	Skipped         int                                `json:"skipped"`
	Failed          int                                `json:"failed"`
	WeekStart       string                             `json:"week_start"`
	Strategies      map[entity.Strategy]StrategyTally `json:"strategies"`
	OverallAccuracy float64                            `json:"overall_accuracy"`
}
