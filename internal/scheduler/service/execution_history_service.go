package service

import (
	"context"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/scheduler/dto"
	"stock-ai-predictor/internal/scheduler/repository"
	"stock-ai-predictor/pkg/logger"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// ExecutionHistoryService defines the interface for reading execution history.
type ExecutionHistoryService interface {
	GetExecutionHistoryByID(ctx context.Context, id uint) (*dto.ExecutionHistoryResponse, error)
	GetAllExecutionHistories(ctx context.Context, limit int) ([]*dto.ExecutionHistoryResponse, error)
	GetExecutionHistoriesByJobType(ctx context.Context, jobType string, limit int) ([]*dto.ExecutionHistoryResponse, error)
}

// NewExecutionHistoryService creates a new execution history service.
func NewExecutionHistoryService(historyRepo repository.TaskExecutionHistoryRepository, jobRepo repository.JobRepository, log *logger.Logger) ExecutionHistoryService {
	return &executionHistoryService{
		historyRepo: historyRepo,
		jobRepo:     jobRepo,
		logger:      log,
	}
}

type executionHistoryService struct {
	historyRepo repository.TaskExecutionHistoryRepository
	jobRepo     repository.JobRepository
	logger      *logger.Logger
}

// GetExecutionHistoryByID retrieves an execution history record by its ID.
func (s *executionHistoryService) GetExecutionHistoryByID(ctx context.Context, id uint) (*dto.ExecutionHistoryResponse, error) {
	history, err := s.historyRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to find execution history", logger.ErrorField(err), logger.Field("history_id", id))
		return nil, err
	}
	return mapToExecutionHistoryResponse(history), nil
}

// GetAllExecutionHistories retrieves the most recent runs.
func (s *executionHistoryService) GetAllExecutionHistories(ctx context.Context, limit int) ([]*dto.ExecutionHistoryResponse, error) {
	histories, err := s.historyRepo.FindAll(ctx, clampLimit(limit, defaultHistoryLimit, maxHistoryLimit))
	if err != nil {
		s.logger.Error("Failed to get all execution histories", logger.ErrorField(err))
		return nil, err
	}
	return mapHistories(histories), nil
}

// GetExecutionHistoriesByJobType retrieves the most recent runs of one job.
func (s *executionHistoryService) GetExecutionHistoriesByJobType(ctx context.Context, jobType string, limit int) ([]*dto.ExecutionHistoryResponse, error) {
	t, err := parseJobType(jobType)
	if err != nil {
		return nil, err
	}
	job, err := s.jobRepo.FindByType(ctx, t)
	if err != nil {
		return nil, err
	}

	histories, err := s.historyRepo.FindAllByJobID(ctx, job.ID, clampLimit(limit, defaultHistoryLimit, maxHistoryLimit))
	if err != nil {
		s.logger.Error("Failed to get execution histories by job", logger.ErrorField(err), logger.Field("job_id", job.ID))
		return nil, err
	}
	return mapHistories(histories), nil
}

func mapHistories(histories []entity.TaskExecutionHistory) []*dto.ExecutionHistoryResponse {
	historyResponses := make([]*dto.ExecutionHistoryResponse, 0, len(histories))
	for i := range histories {
		historyResponses = append(historyResponses, mapToExecutionHistoryResponse(&histories[i]))
	}
	return historyResponses
}

func mapToExecutionHistoryResponse(history *entity.TaskExecutionHistory) *dto.ExecutionHistoryResponse {
	resp := &dto.ExecutionHistoryResponse{
		ID:           history.ID,
		JobID:        history.JobID,
		ScheduleID:   history.ScheduleID,
		TriggeredBy:  history.TriggeredBy,
		Status:       string(history.Status),
		StartedAt:    history.StartedAt,
		Output:       history.Output.String,
		ErrorMessage: history.ErrorMessage.String,
	}
	if history.CompletedAt.Valid {
		completedAt := history.CompletedAt.Time
		resp.CompletedAt = &completedAt
		resp.Duration = completedAt.Sub(history.StartedAt).Milliseconds()
	}
	return resp
}

// clampLimit applies def to non-positive limits and caps at upper.
func clampLimit(limit, def, upper int) int {
	if limit <= 0 {
		return def
	}
	if limit > upper {
		return upper
	}
	return limit
}
