package entity

import "time"

// StrategyPerformance is a weekly rollup per strategy. (Strategy, WeekStart)
// is unique and rewrites replace the totals.
type StrategyPerformance struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Strategy           Strategy  `gorm:"size:50;not null;uniqueIndex:idx_strategy_performance_strategy_week" json:"strategy"`
	WeekStart          time.Time `gorm:"type:date;not null;uniqueIndex:idx_strategy_performance_strategy_week" json:"week_start"`
	TotalPredictions   int       `gorm:"not null" json:"total_predictions"`
	CorrectPredictions int       `gorm:"not null" json:"correct_predictions"`
	Accuracy           float64   `gorm:"not null" json:"accuracy"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StrategyPerformance) TableName() string {
	return "strategy_performance"
}
