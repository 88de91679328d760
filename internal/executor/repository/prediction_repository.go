package repository

import (
	"context"
	"time"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/pkg/utils"

	"gorm.io/gorm"
)

// PredictionRepository stores forecasts. Forecasts are never updated.
type PredictionRepository interface {
	Create(ctx context.Context, prediction *entity.Prediction) error
	FindDue(ctx context.Context, today time.Time) ([]entity.Prediction, error)
}

// NewPredictionRepository creates a new GORM-based prediction repository.
func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

type predictionRepository struct {
	db *gorm.DB
}

func (r *predictionRepository) Create(ctx context.Context, prediction *entity.Prediction) error {
	return r.db.WithContext(ctx).Create(prediction).Error
}

// FindDue returns predictions whose target date has arrived and which have
// no result yet, oldest target first.
func (r *predictionRepository) FindDue(ctx context.Context, today time.Time) ([]entity.Prediction, error) {
	var predictions []entity.Prediction
	err := r.db.WithContext(ctx).
		Table("predictions AS p").
		Select("p.*").
		Joins("LEFT JOIN results r ON r.prediction_id = p.id").
		Where("p.target_date <= ? AND r.id IS NULL", utils.DateOnly(today)).
		Order("p.target_date ASC, p.id ASC").
		Find(&predictions).Error
	if err != nil {
		return nil, err
	}
	return predictions, nil
}
