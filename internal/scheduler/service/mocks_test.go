package service

import (
	"context"
	"time"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/scheduler/dto"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

type mockLLMClient struct{ mock.Mock }

func (m *mockLLMClient) Complete(ctx context.Context, systemRole, userPrompt string, temperature float64) (string, error) {
	args := m.Called(ctx, systemRole, userPrompt, temperature)
	return args.String(0), args.Error(1)
}

type mockJobRepository struct{ mock.Mock }

func (m *mockJobRepository) FindByID(ctx context.Context, id uint) (*entity.Job, error) {
	args := m.Called(ctx, id)
	job, _ := args.Get(0).(*entity.Job)
	return job, args.Error(1)
}

func (m *mockJobRepository) FindByType(ctx context.Context, jobType entity.JobType) (*entity.Job, error) {
	args := m.Called(ctx, jobType)
	job, _ := args.Get(0).(*entity.Job)
	return job, args.Error(1)
}

func (m *mockJobRepository) FindAll(ctx context.Context) ([]entity.Job, error) {
	args := m.Called(ctx)
	jobs, _ := args.Get(0).([]entity.Job)
	return jobs, args.Error(1)
}

type mockScheduleRepository struct{ mock.Mock }

func (m *mockScheduleRepository) FindJobsToSchedule(ctx context.Context, now time.Time) ([]entity.TaskSchedule, error) {
	args := m.Called(ctx, now)
	schedules, _ := args.Get(0).([]entity.TaskSchedule)
	return schedules, args.Error(1)
}

func (m *mockScheduleRepository) Update(ctx context.Context, schedule *entity.TaskSchedule) error {
	return m.Called(ctx, schedule).Error(0)
}

type mockHistoryRepository struct{ mock.Mock }

func (m *mockHistoryRepository) Create(ctx context.Context, history *entity.TaskExecutionHistory) error {
	args := m.Called(ctx, history)
	if args.Error(0) == nil && history.ID == 0 {
		history.ID = 42
	}
	return args.Error(0)
}

func (m *mockHistoryRepository) FindByID(ctx context.Context, id uint) (*entity.TaskExecutionHistory, error) {
	args := m.Called(ctx, id)
	h, _ := args.Get(0).(*entity.TaskExecutionHistory)
	return h, args.Error(1)
}

func (m *mockHistoryRepository) FindAll(ctx context.Context, limit int) ([]entity.TaskExecutionHistory, error) {
	args := m.Called(ctx, limit)
	h, _ := args.Get(0).([]entity.TaskExecutionHistory)
	return h, args.Error(1)
}

func (m *mockHistoryRepository) FindAllByJobID(ctx context.Context, jobID uint, limit int) ([]entity.TaskExecutionHistory, error) {
	args := m.Called(ctx, jobID, limit)
	h, _ := args.Get(0).([]entity.TaskExecutionHistory)
	return h, args.Error(1)
}

func (m *mockHistoryRepository) Update(ctx context.Context, history *entity.TaskExecutionHistory) error {
	return m.Called(ctx, history).Error(0)
}

type mockInstrumentRepository struct{ mock.Mock }

func (m *mockInstrumentRepository) FindAll(ctx context.Context, includeInactive bool) ([]entity.Instrument, error) {
	args := m.Called(ctx, includeInactive)
	out, _ := args.Get(0).([]entity.Instrument)
	return out, args.Error(1)
}

func (m *mockInstrumentRepository) FindBySymbol(ctx context.Context, symbol string) (*entity.Instrument, error) {
	args := m.Called(ctx, symbol)
	out, _ := args.Get(0).(*entity.Instrument)
	return out, args.Error(1)
}

func (m *mockInstrumentRepository) Create(ctx context.Context, instrument *entity.Instrument) error {
	return m.Called(ctx, instrument).Error(0)
}

func (m *mockInstrumentRepository) Deactivate(ctx context.Context, symbol string) error {
	return m.Called(ctx, symbol).Error(0)
}

func (m *mockInstrumentRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockPredictionRepository struct{ mock.Mock }

func (m *mockPredictionRepository) FindRecent(ctx context.Context, filter dto.PredictionFilter) ([]dto.PredictionRow, error) {
	args := m.Called(ctx, filter)
	out, _ := args.Get(0).([]dto.PredictionRow)
	return out, args.Error(1)
}

type mockPerformanceRepository struct{ mock.Mock }

func (m *mockPerformanceRepository) FindSince(ctx context.Context, since time.Time) ([]entity.StrategyPerformance, error) {
	args := m.Called(ctx, since)
	out, _ := args.Get(0).([]entity.StrategyPerformance)
	return out, args.Error(1)
}

func (m *mockPerformanceRepository) OverallAccuracy(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, job *entity.Job, scheduleID *uint, triggeredBy string) (*entity.TaskExecutionHistory, error) {
	args := m.Called(ctx, job, scheduleID, triggeredBy)
	h, _ := args.Get(0).(*entity.TaskExecutionHistory)
	return h, args.Error(1)
}

// streamRecorder satisfies redis.Cmdable for XAdd only; other commands panic.
type streamRecorder struct {
	redis.Cmdable
	added []*redis.XAddArgs
	err   error
}

func (s *streamRecorder) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	s.added = append(s.added, a)
	if s.err != nil {
		return redis.NewStringResult("", s.err)
	}
	return redis.NewStringResult("1-0", nil)
}
