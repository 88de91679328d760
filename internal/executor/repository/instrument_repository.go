package repository

import (
	"context"

	"stock-ai-predictor/internal/entity"

	"gorm.io/gorm"
)

// InstrumentRepository reads the tracked instrument list.
type InstrumentRepository interface {
	FindActive(ctx context.Context) ([]entity.Instrument, error)
}

// NewInstrumentRepository creates a new GORM-based instrument repository.
func NewInstrumentRepository(db *gorm.DB) InstrumentRepository {
	return &instrumentRepository{db: db}
}

type instrumentRepository struct {
	db *gorm.DB
}

// FindActive returns active instruments ordered by symbol.
func (r *instrumentRepository) FindActive(ctx context.Context) ([]entity.Instrument, error) {
	var instruments []entity.Instrument
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("symbol ASC").
		Find(&instruments).Error
	if err != nil {
		return nil, err
	}
	return instruments, nil
}
