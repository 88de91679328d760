package dto

import (
	"encoding/json"
	"time"
)

// PredictionFilter narrows the prediction listing.
type PredictionFilter struct {
	TargetDate *time.Time
	Limit      int
}

// PredictionRow is a prediction joined with its instrument and, once
// evaluated, its result.
type PredictionRow struct {
	ID                 uint
	Symbol             string
	Name               string
	PredictionDate     time.Time
	TargetDate         time.Time
	Direction          string
	Confidence         float64
	Reasoning          string
	Strategy           string
	KeyFactors         []byte
	RiskLevel          string
	CreatedAt          time.Time
	ActualDirection    *string
	Correct            *bool
	PriceChangePercent *float64
}

// ResultResponse is the evaluated outcome of a prediction.
type ResultResponse struct {
	ActualDirection    string  `json:"actual_direction"`
	Correct            bool    `json:"correct"`
	PriceChangePercent float64 `json:"price_change_percent"`
}

// PredictionResponse is one forecast as shown on the dashboard.
type PredictionResponse struct {
	ID             uint            `json:"id"`
	Symbol         string          `json:"symbol"`
	Name           string          `json:"name"`
	PredictionDate string          `json:"prediction_date"`
	TargetDate     string          `json:"target_date"`
	Direction      string          `json:"direction"`
	Confidence     float64         `json:"confidence"`
	Reasoning      string          `json:"reasoning"`
	Strategy       string          `json:"strategy"`
	KeyFactors     json.RawMessage `json:"key_factors,omitempty" swaggertype:"array,string"`
	RiskLevel      string          `json:"risk_level,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	Result         *ResultResponse `json:"result,omitempty"`
}
