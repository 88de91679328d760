package repository

import (
	"context"
	"time"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/pkg/utils"

	"gorm.io/gorm"
)

// PerformanceRepository reads strategy rollups and overall accuracy.
type PerformanceRepository interface {
	FindSince(ctx context.Context, since time.Time) ([]entity.StrategyPerformance, error)
	OverallAccuracy(ctx context.Context) (float64, error)
}

// NewPerformanceRepository creates a new GORM-based performance repository.
func NewPerformanceRepository(db *gorm.DB) PerformanceRepository {
	return &performanceRepository{db: db}
}

type performanceRepository struct {
	db *gorm.DB
}

// FindSince returns rollups whose week starts on or after since, newest week first.
func (r *performanceRepository) FindSince(ctx context.Context, since time.Time) ([]entity.StrategyPerformance, error) {
	var rows []entity.StrategyPerformance
	err := r.db.WithContext(ctx).
		Where("week_start >= ?", utils.DateOnly(since)).
		Order("week_start DESC, strategy ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// OverallAccuracy returns the percentage of correct results, 0 when there are none.
func (r *performanceRepository) OverallAccuracy(ctx context.Context) (float64, error) {
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
