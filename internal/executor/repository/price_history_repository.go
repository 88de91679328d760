package repository

import (
	"context"
	"errors"
	"time"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PriceHistoryRepository stores daily bars.
type PriceHistoryRepository interface {
	Upsert(ctx context.Context, bars []entity.PriceBar) error
	FindHistory(ctx context.Context, instrumentID uint, limit int) ([]entity.PriceBar, error)
	FindLatestBefore(ctx context.Context, instrumentID uint, date time.Time) (*entity.PriceBar, error)
	FindEarliestOnOrAfter(ctx context.Context, instrumentID uint, date time.Time) (*entity.PriceBar, error)
}

// NewPriceHistoryRepository creates a new GORM-based price history repository.
func NewPriceHistoryRepository(db *gorm.DB) PriceHistoryRepository {
	return &priceHistoryRepository{db: db}
}

type priceHistoryRepository struct {
	db *gorm.DB
}

// Upsert writes bars, overwriting any existing bar for the same instrument and date.
func (r *priceHistoryRepository) Upsert(ctx context.Context, bars []entity.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	for i := range bars {
		bars[i].Date = utils.DateOnly(bars[i].Date)
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "instrument_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
		}).
		CreateInBatches(bars, 200).Error
}

// FindHistory returns the most recent limit bars in ascending date order.
func (r *priceHistoryRepository) FindHistory(ctx context.Context, instrumentID uint, limit int) ([]entity.PriceBar, error) {
	var bars []entity.PriceBar
	err := r.db.WithContext(ctx).
		Where("instrument_id = ?", instrumentID).
		Order("date DESC").
		Limit(limit).
		Find(&bars).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	return bars, nil
}

// FindLatestBefore returns the last bar strictly before date, or nil.
func (r *priceHistoryRepository) FindLatestBefore(ctx context.Context, instrumentID uint, date time.Time) (*entity.PriceBar, error) {
	return r.first(ctx, r.db.WithContext(ctx).
		Where("instrument_id = ? AND date < ?", instrumentID, utils.DateOnly(date)).
		Order("date DESC"))
}

// FindEarliestOnOrAfter returns the first bar on or after date, or nil.
func (r *priceHistoryRepository) FindEarliestOnOrAfter(ctx context.Context, instrumentID uint, date time.Time) (*entity.PriceBar, error) {
	return r.first(ctx, r.db.WithContext(ctx).
		Where("instrument_id = ? AND date >= ?", instrumentID, utils.DateOnly(date)).
		Order("date ASC"))
}

func (r *priceHistoryRepository) first(_ context.Context, q *gorm.DB) (*entity.PriceBar, error) {
	var bar entity.PriceBar
	if err := q.First(&bar).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bar, nil
}
