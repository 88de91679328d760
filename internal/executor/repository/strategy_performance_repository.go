package repository

import (
	"context"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StrategyPerformanceRepository writes weekly strategy rollups.
type StrategyPerformanceRepository interface {
	Upsert(ctx context.Context, perf *entity.StrategyPerformance) error
}

// NewStrategyPerformanceRepository creates a new GORM-based strategy performance repository.
func NewStrategyPerformanceRepository(db *gorm.DB) StrategyPerformanceRepository {
	return &strategyPerformanceRepository{db: db}
}

type strategyPerformanceRepository struct {
	db *gorm.DB
}

// Upsert inserts the rollup or replaces the totals of the existing
// (strategy, week_start) row. Totals are overwritten, not added.
func (r *strategyPerformanceRepository) Upsert(ctx context.Context, perf *entity.StrategyPerformance) error {
	perf.WeekStart = utils.DateOnly(perf.WeekStart)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "strategy"}, {Name: "week_start"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_predictions", "correct_predictions", "accuracy", "updated_at"}),
		}).
		Create(perf).Error
}
