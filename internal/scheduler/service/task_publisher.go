package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/scheduler/repository"
	"stock-ai-predictor/pkg/common"
	"stock-ai-predictor/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// TaskPublisher records a queued run and hands it to the executor stream.
type TaskPublisher interface {
	Publish(ctx context.Context, job *entity.Job, scheduleID *uint, triggeredBy string) (*entity.TaskExecutionHistory, error)
}

// NewTaskPublisher creates a publisher writing to the task execution stream.
func NewTaskPublisher(redisClient redis.Cmdable, historyRepo repository.TaskExecutionHistoryRepository, log *logger.Logger, streamMaxLen int64) TaskPublisher {
	return &taskPublisher{
		redisClient:  redisClient,
		historyRepo:  historyRepo,
		logger:       log,
		streamMaxLen: streamMaxLen,
	}
}

type taskPublisher struct {
	redisClient  redis.Cmdable
	historyRepo  repository.TaskExecutionHistoryRepository
	logger       *logger.Logger
	streamMaxLen int64
}

// Publish creates the history row first so the executor can report against
// it. When the stream write fails the row is closed as failed.
func (p *taskPublisher) Publish(ctx context.Context, job *entity.Job, scheduleID *uint, triggeredBy string) (*entity.TaskExecutionHistory, error) {
	history := &entity.TaskExecutionHistory{
		JobID:       job.ID,
		ScheduleID:  scheduleID,
		TriggeredBy: triggeredBy,
		Status:      entity.StatusQueued,
		StartedAt:   time.Now().UTC(),
	}

	if err := p.historyRepo.Create(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to create task history: %w", err)
	}

	taskPayload, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	if err := p.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamTaskExecution,
		Values: map[string]interface{}{"payload": string(taskPayload)},
		MaxLen: p.streamMaxLen,
		Approx: p.streamMaxLen > 0,
	}).Err(); err != nil {
		p.logger.Error("Failed to enqueue task", logger.ErrorField(err), logger.Field("history_id", history.ID))
		history.Status = entity.StatusFailed
		history.CompletedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
		history.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
		if errInner := p.historyRepo.Update(ctx, history); errInner != nil {
			p.logger.Error("Failed to update task history", logger.ErrorField(errInner), logger.Field("history_id", history.ID))
		}
		return history, fmt.Errorf("failed to enqueue task: %w", err)
	}

	p.logger.Info("Task published successfully",
		logger.Field("history_id", history.ID),
		logger.StringField("job_type", string(job.Type)),
		logger.StringField("triggered_by", triggeredBy))
	return history, nil
}
