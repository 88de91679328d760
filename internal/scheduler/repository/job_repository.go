package repository

import (
	"context"
	"errors"
	"fmt"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/pkg/common"

	"gorm.io/gorm"
)

// JobRepository defines the interface for job data operations.
type JobRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Job, error)
	FindByType(ctx context.Context, jobType entity.JobType) (*entity.Job, error)
	FindAll(ctx context.Context) ([]entity.Job, error)
}

// NewJobRepository creates a new GORM-based job repository.
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

type jobRepository struct {
	db *gorm.DB
}

// FindByID retrieves a job by its ID.
func (r *jobRepository) FindByID(ctx context.Context, id uint) (*entity.Job, error) {
	var job entity.Job
	if err := r.db.WithContext(ctx).Preload("Schedules").First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: job %d", common.ErrNotFound, id)
		}
		return nil, err
	}
	return &job, nil
}

// FindByType retrieves the job that runs the given type.
func (r *jobRepository) FindByType(ctx context.Context, jobType entity.JobType) (*entity.Job, error) {
	var job entity.Job
	if err := r.db.WithContext(ctx).Preload("Schedules").Where("type = ?", jobType).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: job type %s", common.ErrNotFound, jobType)
		}
		return nil, err
	}
	return &job, nil
}

// FindAll retrieves all jobs.
func (r *jobRepository) FindAll(ctx context.Context) ([]entity.Job, error) {
	var jobs []entity.Job
	if err := r.db.WithContext(ctx).Preload("Schedules").Order("id ASC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}
