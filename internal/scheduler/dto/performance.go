package dto

// StrategyPerformanceResponse is one weekly rollup row.
type StrategyPerformanceResponse struct {
	Strategy           string  `json:"strategy"`
	WeekStart          string  `json:"week_start"`
	TotalPredictions   int     `json:"total_predictions"`
	CorrectPredictions int     `json:"correct_predictions"`
	Accuracy           float64 `json:"accuracy"`
}

// AccuracyResponse is the overall share of correct forecasts in percent.
type AccuracyResponse struct {
	Accuracy float64 `json:"accuracy"`
	// Known is false for tags outside the built-in strategy set.
	Known bool `json:"known"`
}

// StrategyStat sums a strategy's rollups over the reviewed weeks.
type StrategyStat struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// StrategyAdvice is the reasoning service's reading of the strategy stats.
type StrategyAdvice struct {
	BestStrategy              string   `json:"best_strategy"`
	WorstStrategy             string   `json:"worst_strategy"`
	Recommendations           []string `json:"recommendations"`
	MarketConditionAssessment string   `json:"market_condition_assessment"`
}

// StrategyReviewResponse is the strategy review: stats plus advice. Advice
// fields are empty when the reasoning service could not be used.
type StrategyReviewResponse struct {
	Weeks      int                     `json:"weeks"`
	Strategies map[string]StrategyStat `json:"strategies"`
	// KnownStrategies lists the built-in strategy tags.
	KnownStrategies []string `json:"known_strategies"`
	StrategyAdvice
}

// InsightResponse carries the generated market commentary.
type InsightResponse struct {
	Insights string `json:"insights"`
}

// TriggerJobResponse is returned when a job was queued manually.
type TriggerJobResponse struct {
	HistoryID uint   `json:"history_id"`
	JobType   string `json:"job_type"`
	Status    string `json:"status"`
}
