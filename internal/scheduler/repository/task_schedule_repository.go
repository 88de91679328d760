package repository

import (
	"context"
	"time"

	"stock-ai-predictor/internal/entity"

	"gorm.io/gorm"
)

// TaskScheduleRepository defines the interface for task schedule data operations.
type TaskScheduleRepository interface {
	FindJobsToSchedule(ctx context.Context, now time.Time) ([]entity.TaskSchedule, error)
	Update(ctx context.Context, schedule *entity.TaskSchedule) error
}

// NewTaskScheduleRepository creates a new GORM-based task schedule repository.
func NewTaskScheduleRepository(db *gorm.DB) TaskScheduleRepository {
	return &taskScheduleRepository{db: db}
}

type taskScheduleRepository struct {
	db *gorm.DB
}

// FindJobsToSchedule returns active schedules that are due at now, including
// schedules whose first slot has not been computed yet.
func (r *taskScheduleRepository) FindJobsToSchedule(ctx context.Context, now time.Time) ([]entity.TaskSchedule, error) {
	var schedules []entity.TaskSchedule
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND (next_execution IS NULL OR next_execution <= ?)", true, now).
		Order("id ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

// Update saves the execution bookkeeping of a schedule.
func (r *taskScheduleRepository) Update(ctx context.Context, schedule *entity.TaskSchedule) error {
	return r.db.WithContext(ctx).
		Model(schedule).
		Select("last_execution", "next_execution", "updated_at").
		Updates(schedule).Error
}
