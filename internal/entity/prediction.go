package entity

import (
	"time"

	"gorm.io/datatypes"
)

// PredictionHorizonDays is the fixed distance between prediction and target date.
const PredictionHorizonDays = 7

// Prediction is an immutable 7-day directional forecast.
type Prediction struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	InstrumentID   uint           `gorm:"not null;index" json:"instrument_id"`
	PredictionDate time.Time      `gorm:"type:date;not null" json:"prediction_date"`
	TargetDate     time.Time      `gorm:"type:date;not null;index" json:"target_date"`
	Direction      Direction      `gorm:"size:10;not null" json:"direction"`
	Confidence     float64        `gorm:"not null" json:"confidence"`
	Reasoning      string         `json:"reasoning"`
	Strategy       Strategy       `gorm:"size:50;not null;index" json:"strategy"`
	KeyFactors     datatypes.JSON `json:"key_factors,omitempty"`
	RiskLevel      string         `gorm:"size:20" json:"risk_level,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Prediction) TableName() string {
	return "predictions"
}
