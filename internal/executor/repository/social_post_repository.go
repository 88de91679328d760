package repository

import (
	"context"
	"time"

	"stock-ai-predictor/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SocialPostRepository stores social posts, ignoring duplicates by post id.
type SocialPostRepository interface {
	CreateIgnoreDuplicate(ctx context.Context, post *entity.SocialPost) (bool, error)
	ExistsByPostID(ctx context.Context, postID string) (bool, error)
	FindRecent(ctx context.Context, instrumentID uint, since time.Time, limit int) ([]entity.SocialPost, error)
}

// NewSocialPostRepository creates a new GORM-based social post repository.
func NewSocialPostRepository(db *gorm.DB) SocialPostRepository {
	return &socialPostRepository{db: db}
}

type socialPostRepository struct {
	db *gorm.DB
}

// CreateIgnoreDuplicate inserts post unless its post id already exists.
// It reports whether a row was inserted.
func (r *socialPostRepository) CreateIgnoreDuplicate(ctx context.Context, post *entity.SocialPost) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}},
			DoNothing: true,
		}).
		Create(post)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ExistsByPostID reports whether a post with the provider id is stored.
func (r *socialPostRepository) ExistsByPostID(ctx context.Context, postID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.SocialPost{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindRecent returns an instrument's posts stored after since, newest first.
func (r *socialPostRepository) FindRecent(ctx context.Context, instrumentID uint, since time.Time, limit int) ([]entity.SocialPost, error) {
	var posts []entity.SocialPost
	err := r.db.WithContext(ctx).
		Where("instrument_id = ? AND created_at > ?", instrumentID, since).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}
