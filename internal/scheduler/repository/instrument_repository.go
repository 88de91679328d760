package repository

import (
	"context"
	"errors"
	"fmt"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/pkg/common"

	"gorm.io/gorm"
)

// InstrumentRepository manages the tracked instrument list.
type InstrumentRepository interface {
	FindAll(ctx context.Context, includeInactive bool) ([]entity.Instrument, error)
	FindBySymbol(ctx context.Context, symbol string) (*entity.Instrument, error)
	Create(ctx context.Context, instrument *entity.Instrument) error
	Deactivate(ctx context.Context, symbol string) error
	CountActive(ctx context.Context) (int64, error)
}

// NewInstrumentRepository creates a new GORM-based instrument repository.
func NewInstrumentRepository(db *gorm.DB) InstrumentRepository {
	return &instrumentRepository{db: db}
}

type instrumentRepository struct {
	db *gorm.DB
}

func (r *instrumentRepository) FindAll(ctx context.Context, includeInactive bool) ([]entity.Instrument, error) {
	var instruments []entity.Instrument
	q := r.db.WithContext(ctx).Order("symbol ASC")
	if !includeInactive {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&instruments).Error; err != nil {
		return nil, err
	}
	return instruments, nil
}

func (r *instrumentRepository) FindBySymbol(ctx context.Context, symbol string) (*entity.Instrument, error) {
	var instrument entity.Instrument
	if err := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&instrument).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: instrument %s", common.ErrNotFound, symbol)
		}
		return nil, err
	}
	return &instrument, nil
}

// Create inserts a new instrument. An existing symbol fails with
// common.ErrDuplicateIngestion.
func (r *instrumentRepository) Create(ctx context.Context, instrument *entity.Instrument) error {
	err := r.db.WithContext(ctx).Create(instrument).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: instrument %s", common.ErrDuplicateIngestion, instrument.Symbol)
	}
	return err
}

// Deactivate stops tracking symbol. Its history is kept.
func (r *instrumentRepository) Deactivate(ctx context.Context, symbol string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Instrument{}).
		Where("symbol = ?", symbol).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: instrument %s", common.ErrNotFound, symbol)
	}
	return nil
}

func (r *instrumentRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Instrument{}).Where("active = ?", true).Count(&n).Error
	return n, err
}
