package entity

import "time"

// Result is the realized outcome of a Prediction. A prediction has at most one.
type Result struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	PredictionID       uint      `gorm:"not null;uniqueIndex" json:"prediction_id"`
	ActualDirection    Direction `gorm:"size:10;not null" json:"actual_direction"`
	Correct            bool      `gorm:"not null" json:"correct"`
	PriceChangePercent float64   `json:"price_change_percent"`
	EvaluatedAt        time.Time `gorm:"not null" json:"evaluated_at"`
}

func (Result) TableName() string {
	return "results"
}
