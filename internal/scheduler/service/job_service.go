package service

import (
	"context"
	"encoding/json"
	"fmt"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/scheduler/dto"
	"stock-ai-predictor/internal/scheduler/repository"
	"stock-ai-predictor/pkg/common"
	"stock-ai-predictor/pkg/logger"
)

// JobService defines the interface for reading and triggering jobs.
type JobService interface {
	GetAllJobs(ctx context.Context) ([]*dto.JobResponse, error)
	GetJobByType(ctx context.Context, jobType string) (*dto.JobResponse, error)
	TriggerJob(ctx context.Context, jobType string) (*dto.TriggerJobResponse, error)
}

// NewJobService creates a new job service.
func NewJobService(jobRepo repository.JobRepository, publisher TaskPublisher, log *logger.Logger) JobService {
	return &jobService{
		jobRepo:   jobRepo,
		publisher: publisher,
		logger:    log,
	}
}

type jobService struct {
	jobRepo   repository.JobRepository
	publisher TaskPublisher
	logger    *logger.Logger
}

// GetAllJobs retrieves all jobs with their schedules.
func (s *jobService) GetAllJobs(ctx context.Context) ([]*dto.JobResponse, error) {
	jobs, err := s.jobRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to get all jobs", logger.ErrorField(err))
		return nil, err
	}

	jobResponses := make([]*dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		jobResponses = append(jobResponses, mapToJobResponse(&jobs[i]))
	}
	return jobResponses, nil
}

// GetJobByType retrieves a single job.
func (s *jobService) GetJobByType(ctx context.Context, jobType string) (*dto.JobResponse, error) {
	t, err := parseJobType(jobType)
	if err != nil {
		return nil, err
	}
	job, err := s.jobRepo.FindByType(ctx, t)
	if err != nil {
		return nil, err
	}
	return mapToJobResponse(job), nil
}

// TriggerJob queues a manual run of the job.
func (s *jobService) TriggerJob(ctx context.Context, jobType string) (*dto.TriggerJobResponse, error) {
	t, err := parseJobType(jobType)
	if err != nil {
		return nil, err
	}
	job, err := s.jobRepo.FindByType(ctx, t)
	if err != nil {
		return nil, err
	}

	history, err := s.publisher.Publish(ctx, job, nil, entity.TriggeredByManual)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Job triggered manually", logger.StringField("job_type", jobType), logger.Field("history_id", history.ID))
	return &dto.TriggerJobResponse{
		HistoryID: history.ID,
		JobType:   string(job.Type),
		Status:    string(history.Status),
	}, nil
}

func parseJobType(s string) (entity.JobType, error) {
	t := entity.JobType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown job type %q", common.ErrInvalidInput, s)
	}
	return t, nil
}

func mapToJobResponse(job *entity.Job) *dto.JobResponse {
	scheduleResponses := make([]dto.ScheduleResponseDTO, 0, len(job.Schedules))
	for _, schedule := range job.Schedules {
		scheduleResponses = append(scheduleResponses, dto.ScheduleResponseDTO{
			ID:             schedule.ID,
			CronExpression: schedule.CronExpression,
			IsActive:       schedule.IsActive,
			NextExecution:  schedule.NextExecution,
			LastExecution:  schedule.LastExecution,
		})
	}

	payload := json.RawMessage(job.Payload)
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}

	return &dto.JobResponse{
		ID:          job.ID,
		Name:        job.Name,
		Description: job.Description,
		Type:        string(job.Type),
		Payload:     payload,
		Timeout:     job.Timeout,
		Schedules:   scheduleResponses,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
}
