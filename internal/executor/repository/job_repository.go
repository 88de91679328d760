package repository

import (
	"context"
	"errors"
	"fmt"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/pkg/common"

	"gorm.io/gorm"
)

// JobRepository reads job definitions.
type JobRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Job, error)
	FindByType(ctx context.Context, jobType entity.JobType) (*entity.Job, error)
}

// NewJobRepository creates a new GORM-based job repository.
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

type jobRepository struct {
	db *gorm.DB
}

func (r *jobRepository) FindByID(ctx context.Context, id uint) (*entity.Job, error) {
	var job entity.Job
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: job %d", common.ErrNotFound, id)
		}
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) FindByType(ctx context.Context, jobType entity.JobType) (*entity.Job, error) {
	var job entity.Job
	if err := r.db.WithContext(ctx).Where("type = ?", jobType).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: job type %s", common.ErrNotFound, jobType)
		}
		return nil, err
	}
	return &job, nil
}
