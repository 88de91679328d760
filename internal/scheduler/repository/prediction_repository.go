package repository

import (
	"context"

	"stock-ai-predictor/internal/scheduler/dto"
	"stock-ai-predictor/pkg/utils"

	"gorm.io/gorm"
)

// PredictionRepository reads forecasts for display.
type PredictionRepository interface {
	FindRecent(ctx context.Context, filter dto.PredictionFilter) ([]dto.PredictionRow, error)
}

// NewPredictionRepository creates a new GORM-based prediction read repository.
func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

type predictionRepository struct {
	db *gorm.DB
}

// FindRecent returns the newest predictions with their instrument and, when
// evaluated, their result.
func (r *predictionRepository) FindRecent(ctx context.Context, filter dto.PredictionFilter) ([]dto.PredictionRow, error) {
	var rows []dto.PredictionRow
	q := r.db.WithContext(ctx).
		Table("predictions AS p").
		Select(`p.id, i.symbol, i.name, p.prediction_date, p.target_date, p.direction,
			p.confidence, p.reasoning, p.strategy, p.key_factors, p.risk_level, p.created_at,
			r.actual_direction, r.correct, r.price_change_percent`).
		Joins("JOIN instruments i ON i.id = p.instrument_id").
		Joins("LEFT JOIN results r ON r.prediction_id = p.id")
	if filter.TargetDate != nil {
		q = q.Where("p.target_date = ?", utils.DateOnly(*filter.TargetDate))
	}
	if err := q.Order("p.created_at DESC, p.id DESC").Limit(filter.Limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
