package service

import (
	"context"
	"time"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/scheduler/repository"
	"stock-ai-predictor/pkg/logger"

	"github.com/robfig/cron/v3"
)

// SchedulerService defines the interface for the job scheduling service.
type SchedulerService interface {
	Start(ctx context.Context)
	ProcessJobs(ctx context.Context)
}

// NewSchedulerService creates a new scheduler service.
func NewSchedulerService(scheduleRepo repository.TaskScheduleRepository, jobRepo repository.JobRepository, publisher TaskPublisher, log *logger.Logger, pollingInterval time.Duration) SchedulerService {
	return &schedulerService{
		scheduleRepo:    scheduleRepo,
		jobRepo:         jobRepo,
		publisher:       publisher,
		logger:          log,
		pollingInterval: pollingInterval,
		cronParser:      cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

type schedulerService struct {
	scheduleRepo    repository.TaskScheduleRepository
	jobRepo         repository.JobRepository
	publisher       TaskPublisher
	logger          *logger.Logger
	pollingInterval time.Duration
	cronParser      cron.Parser
	now             func() time.Time
}

// Start begins the periodic job processing loop.
func (s *schedulerService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.pollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler service stopping")
			return
		case <-ticker.C:
			s.ProcessJobs(ctx)
		}
	}
}

// ProcessJobs finds and enqueues jobs that are due.
func (s *schedulerService) ProcessJobs(ctx context.Context) {
	now := s.now()
	schedules, err := s.scheduleRepo.FindJobsToSchedule(ctx, now)
	if err != nil {
		s.logger.Error("Failed to find jobs to schedule", logger.ErrorField(err))
		return
	}

	for _, schedule := range schedules {
		s.publishTask(ctx, schedule, now)
	}
}

func (s *schedulerService) publishTask(ctx context.Context, schedule entity.TaskSchedule, now time.Time) {
	cronSchedule, err := s.cronParser.Parse(schedule.CronExpression)
	if err != nil {
		s.logger.Error("Failed to parse cron expression", logger.ErrorField(err), logger.Field("schedule_id", schedule.ID))
		return
	}

	// A schedule that never ran only records its first slot; runs are not
	// fired for the moment the service happened to start.
	if !schedule.NextExecution.Valid {
		schedule.NextExecution.Time = cronSchedule.Next(now)
		schedule.NextExecution.Valid = true
		if err := s.scheduleRepo.Update(ctx, &schedule); err != nil {
			s.logger.Error("Failed to initialise next execution time", logger.ErrorField(err), logger.Field("schedule_id", schedule.ID))
		}
		return
	}

	job, err := s.jobRepo.FindByID(ctx, schedule.JobID)
	if err != nil {
		s.logger.Error("Failed to find job for schedule", logger.ErrorField(err), logger.Field("schedule_id", schedule.ID))
		return
	}

	scheduleID := schedule.ID
	if _, err := s.publisher.Publish(ctx, job, &scheduleID, entity.TriggeredBySchedule); err != nil {
		// Next execution stays in the past, so the next tick retries.
		return
	}

	schedule.LastExecution.Time = now
	schedule.LastExecution.Valid = true
	schedule.NextExecution.Time = cronSchedule.Next(now)
	schedule.NextExecution.Valid = true

	if err := s.scheduleRepo.Update(ctx, &schedule); err != nil {
		s.logger.Error("Failed to update next execution time", logger.ErrorField(err), logger.Field("schedule_id", schedule.ID))
	}
}
