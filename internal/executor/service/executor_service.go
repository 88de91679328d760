package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/executor/repository"
	"stock-ai-predictor/pkg/common"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/trace"
)

// JobExecutionStrategy runs one kind of batch job.
type JobExecutionStrategy interface {
	Execute(ctx context.Context, job *entity.Job) (string, error)
	GetType() entity.JobType
}

// ExecutorService runs jobs delivered on the task stream or requested directly.
type ExecutorService interface {
	ProcessTask(ctx context.Context)
	RunJob(ctx context.Context, jobType entity.JobType, triggeredBy string) (*entity.TaskExecutionHistory, error)
}

// NewExecutorService creates a new ExecutorService.
func NewExecutorService(
	redisClient redis.Cmdable,
	jobRepo repository.JobRepository,
	historyRepo repository.TaskExecutionHistoryRepository,
	log *logger.Logger,
	strategies []JobExecutionStrategy,
) ExecutorService {
	strategyMap := make(map[entity.JobType]JobExecutionStrategy)
	for _, s := range strategies {
		strategyMap[s.GetType()] = s
	}

	return &executorService{
		redisClient:        redisClient,
		jobRepo:            jobRepo,
		historyRepo:        historyRepo,
		logger:             log,
		executorStrategies: strategyMap,
	}
}

type executorService struct {
	redisClient        redis.Cmdable
	jobRepo            repository.JobRepository
	historyRepo        repository.TaskExecutionHistoryRepository
	logger             *logger.Logger
	executorStrategies map[entity.JobType]JobExecutionStrategy
}

// ProcessTask dequeues and executes a single task.
func (s *executorService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamTaskExecution, ">"},
		Count:    1,
		Block:    2 * time.Second,
		NoAck:    true,
	}).Result()
	if err != nil {
		// Idle reads and shutdown are expected.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
			return
		}
		s.logger.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}

	message := streams[0].Messages[0]

	taskData, ok := message.Values["payload"].(string)
	if !ok {
		s.logger.Error("field 'payload' not found or not a string in stream message", logger.Field("message_id", message.ID))
		return
	}

	var taskHistory entity.TaskExecutionHistory
	if err := json.Unmarshal([]byte(taskData), &taskHistory); err != nil {
		s.logger.Error("Failed to unmarshal task data", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return
	}

	s.logger.Info("Processing job", logger.Field("job_id", taskHistory.JobID), logger.Field("history_id", taskHistory.ID))

	job, err := s.jobRepo.FindByID(ctx, taskHistory.JobID)
	if err != nil {
		s.logger.Error("Failed to find job", logger.ErrorField(err), logger.Field("job_id", taskHistory.JobID))
		s.finish(ctx, &taskHistory, "", err)
		return
	}

	// The stream read deadline must not cut the job short.
	s.execute(context.WithoutCancel(ctx), job, &taskHistory)
}

// RunJob records and runs a job synchronously.
func (s *executorService) RunJob(ctx context.Context, jobType entity.JobType, triggeredBy string) (*entity.TaskExecutionHistory, error) {
	job, err := s.jobRepo.FindByType(ctx, jobType)
	if err != nil {
		return nil, fmt.Errorf("failed to find job %s: %w", jobType, err)
	}

	history := &entity.TaskExecutionHistory{
		JobID:       job.ID,
		TriggeredBy: triggeredBy,
		Status:      entity.StatusQueued,
		StartedAt:   time.Now().UTC(),
	}
	if err := s.historyRepo.Create(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to create task history: %w", err)
	}

	s.execute(ctx, job, history)
	if history.Status == entity.StatusFailed {
		return history, fmt.Errorf("job %s failed: %s", jobType, history.ErrorMessage.String)
	}
	return history, nil
}

func (s *executorService) execute(ctx context.Context, job *entity.Job, history *entity.TaskExecutionHistory) {
	ctx, span := trace.StartSpan(ctx, "job."+string(job.Type),
		attribute.Int("job.id", int(job.ID)),
		attribute.Int("history.id", int(history.ID)))
	defer span.End()

	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(job.Timeout)*time.Second)
		defer cancel()
	}

	history.Status = entity.StatusRunning
	if err := s.historyRepo.Update(ctx, history); err != nil {
		s.logger.WarnContext(ctx, "Failed to mark task history running", logger.ErrorField(err), logger.Field("history_id", history.ID))
	}

	strategy, ok := s.executorStrategies[job.Type]
	if !ok {
		err := fmt.Errorf("no executor strategy found for task type: %s", job.Type)
		s.logger.ErrorContext(ctx, "Job execution failed", logger.ErrorField(err), logger.Field("job_id", job.ID))
		trace.RecordError(span, err)
		s.finish(ctx, history, "", err)
		return
	}

	output, err := strategy.Execute(ctx, job)
	if err != nil {
		s.logger.ErrorContext(ctx, "Job execution failed", logger.ErrorField(err), logger.Field("job_id", job.ID), logger.IntField("history_id", int(history.ID)))
		trace.RecordError(span, err)
	} else {
		s.logger.InfoContext(ctx, "Job executed successfully", logger.Field("job_id", job.ID), logger.IntField("history_id", int(history.ID)))
	}
	s.finish(ctx, history, output, err)
}

func (s *executorService) finish(ctx context.Context, history *entity.TaskExecutionHistory, output string, err error) {
	if err != nil {
		history.Status = entity.StatusFailed
		history.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
	} else {
		history.Status = entity.StatusCompleted
	}
	if output != "" {
		history.Output = sql.NullString{String: output, Valid: true}
	}
	history.CompletedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}

	// The job context may have expired; the history row must still be written.
	if err := s.historyRepo.Update(context.WithoutCancel(ctx), history); err != nil {
		s.logger.Error("Failed to update task history", logger.ErrorField(err), logger.Field("history_id", history.ID))
	}
	s.logger.Info("Job execution completed", logger.Field("job_id", history.JobID), logger.IntField("history_id", int(history.ID)), logger.StringField("status", string(history.Status)))
}
