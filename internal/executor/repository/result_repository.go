package repository

import (
	"context"
	"errors"
	"fmt"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/pkg/common"

	"gorm.io/gorm"
)

// ResultRepository stores evaluation outcomes.
type ResultRepository interface {
	Create(ctx context.Context, result *entity.Result) error
	OverallAccuracy(ctx context.Context) (float64, error)
}

// NewResultRepository creates a new GORM-based result repository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

type resultRepository struct {
	db *gorm.DB
}

// Create inserts a result. A second result for the same prediction fails
// with common.ErrDuplicateIngestion.
func (r *resultRepository) Create(ctx context.Context, result *entity.Result) error {
	err := r.db.WithContext(ctx).Create(result).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: result for prediction %d", common.ErrDuplicateIngestion, result.PredictionID)
	}
	return err
}

// OverallAccuracy returns the percentage of correct results, 0 when there are none.
func (r *resultRepository) OverallAccuracy(ctx context.Context) (float64, error) {
	var row struct {
		Total   int64
		Correct int64
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Result{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN correct THEN 1 ELSE 0 END), 0) AS correct").
		Scan(&row).Error
	if err != nil {
		return 0, err
	}
	if row.Total == 0 {
		return 0, nil
	}
	return float64(row.Correct) / float64(row.Total) * 100, nil
}
