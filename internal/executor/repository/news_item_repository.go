package repository

import (
	"context"
	"time"

	"stock-ai-predictor/internal/entity"

	"gorm.io/gorm"
)

// NewsItemRepository appends and reads news items.
type NewsItemRepository interface {
	Create(ctx context.Context, item *entity.NewsItem) error
	FindRecent(ctx context.Context, instrumentID uint, since time.Time, limit int) ([]entity.NewsItem, error)
}

// NewNewsItemRepository creates a new GORM-based news item repository.
func NewNewsItemRepository(db *gorm.DB) NewsItemRepository {
	return &newsItemRepository{db: db}
}

type newsItemRepository struct {
	db *gorm.DB
}

// Create appends a news item. News is never deduplicated.
func (r *newsItemRepository) Create(ctx context.Context, item *entity.NewsItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindRecent returns an instrument's news stored after since, newest first.
func (r *newsItemRepository) FindRecent(ctx context.Context, instrumentID uint, since time.Time, limit int) ([]entity.NewsItem, error) {
	var items []entity.NewsItem
	err := r.db.WithContext(ctx).
		Where("instrument_id = ? AND created_at > ?", instrumentID, since).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
