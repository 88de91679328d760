package service

import (
	"context"
	"time"

	"stock-ai-predictor/internal/entity"

	"github.com/stretchr/testify/mock"
)

type mockLLMClient struct {
	mock.Mock
}

func (m *mockLLMClient) Complete(ctx context.Context, systemRole, userPrompt string, temperature float64) (string, error) {
	args := m.Called(ctx, systemRole, userPrompt, temperature)
	return args.String(0), args.Error(1)
}

type mockPredictionRepository struct {
	mock.Mock
}

func (m *mockPredictionRepository) Create(ctx context.Context, prediction *entity.Prediction) error {
	return m.Called(ctx, prediction).Error(0)
}

func (m *mockPredictionRepository) FindDue(ctx context.Context, today time.Time) ([]entity.Prediction, error) {
	args := m.Called(ctx, today)
	predictions, _ := args.Get(0).([]entity.Prediction)
	return predictions, args.Error(1)
}

type mockPriceHistoryRepository struct {
	mock.Mock
}

func (m *mockPriceHistoryRepository) Upsert(ctx context.Context, bars []entity.PriceBar) error {
	return m.Called(ctx, bars).Error(0)
}

func (m *mockPriceHistoryRepository) FindHistory(ctx context.Context, instrumentID uint, limit int) ([]entity.PriceBar, error) {
	args := m.Called(ctx, instrumentID, limit)
	bars, _ := args.Get(0).([]entity.PriceBar)
	return bars, args.Error(1)
}

func (m *mockPriceHistoryRepository) FindLatestBefore(ctx context.Context, instrumentID uint, date time.Time) (*entity.PriceBar, error) {
	args := m.Called(ctx, instrumentID, date)
	bar, _ := args.Get(0).(*entity.PriceBar)
	return bar, args.Error(1)
}

func (m *mockPriceHistoryRepository) FindEarliestOnOrAfter(ctx context.Context, instrumentID uint, date time.Time) (*entity.PriceBar, error) {
	args := m.Called(ctx, instrumentID, date)
	bar, _ := args.Get(0).(*entity.PriceBar)
	return bar, args.Error(1)
}

type mockResultRepository struct {
	mock.Mock
}

func (m *mockResultRepository) Create(ctx context.Context, result *entity.Result) error {
	return m.Called(ctx, result).Error(0)
}

func (m *mockResultRepository) OverallAccuracy(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

type mockStrategyPerformanceRepository struct {
	mock.Mock
}

func (m *mockStrategyPerformanceRepository) Upsert(ctx context.Context, perf *entity.StrategyPerformance) error {
	return m.Called(ctx, perf).Error(0)
}

type mockJobRepository struct {
	mock.Mock
}

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

type mockHistoryRepository struct {
	mock.Mock
}

func (m *mockHistoryRepository) Create(ctx context.Context, history *entity.TaskExecutionHistory) error {
	return m.Called(ctx, history).Error(0)
}

func (m *mockHistoryRepository) Update(ctx context.Context, history *entity.TaskExecutionHistory) error {
	return m.Called(ctx, history).Error(0)
}

type stubStrategy struct {
	jobType entity.JobType
	output  string
	err     error
	calls   int
}

func (s *stubStrategy) Execute(ctx context.Context, job *entity.Job) (string, error) {
	s.calls++
	return s.output, s.err
}

func (s *stubStrategy) GetType() entity.JobType {
	return s.jobType
}
