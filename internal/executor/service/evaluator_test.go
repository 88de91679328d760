package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/pkg/common"
	"stock-ai-predictor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClassifyDirection(t *testing.T) {
	tests := []struct {
		pct  float64
		want entity.Direction
	}{
		{0.51, entity.DirectionUp},
		{-0.51, entity.DirectionDown},
		{0.5, entity.DirectionNeutral},
		{-0.5, entity.DirectionNeutral},
		{0.0, entity.DirectionNeutral},
		{12.3, entity.DirectionUp},
		{-7, entity.DirectionDown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyDirection(tt.pct), "pct=%v", tt.pct)
	}
}

type evaluatorMocks struct {
	predictions *mockPredictionRepository
	prices      *mockPriceHistoryRepository
	results     *mockResultRepository
	performance *mockStrategyPerformanceRepository
}

func newEvaluatorUnderTest() (Evaluator, evaluatorMocks) {
	m := evaluatorMocks{
		predictions: new(mockPredictionRepository),
		prices:      new(mockPriceHistoryRepository),
		results:     new(mockResultRepository),
		performance: new(mockStrategyPerformanceRepository),
	}
	return NewEvaluator(logger.NewNop(), m.predictions, m.prices, m.results, m.performance), m
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEvaluatorResolvesDuePrediction(t *testing.T) {
	now := time.Date(2025, 1, 12, 9, 0, 0, 0, time.UTC)
	target := date(2025, 1, 10)
	prediction := entity.Prediction{ID: 1, InstrumentID: 3, TargetDate: target, Direction: entity.DirectionUp, Strategy: entity.StrategyMomentum}

	evaluator, m := newEvaluatorUnderTest()
	m.predictions.On("FindDue", mock.Anything, date(2025, 1, 12)).Return([]entity.Prediction{prediction}, nil)
	m.prices.On("FindLatestBefore", mock.Anything, uint(3), target).Return(&entity.PriceBar{Date: date(2025, 1, 9), Close: 100}, nil)
	m.prices.On("FindEarliestOnOrAfter", mock.Anything, uint(3), target).Return(&entity.PriceBar{Date: date(2025, 1, 10), Close: 101}, nil)

	var stored *entity.Result
	m.results.On("Create", mock.Anything, mock.AnythingOfType("*entity.Result")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*entity.Result) }).
		Return(nil).Once()
	m.results.On("OverallAccuracy", mock.Anything).Return(100.0, nil)

	var perf *entity.StrategyPerformance
	m.performance.On("Upsert", mock.Anything, mock.AnythingOfType("*entity.StrategyPerformance")).
		Run(func(args mock.Arguments) { perf = args.Get(1).(*entity.StrategyPerformance) }).
		Return(nil)

	report, err := evaluator.Run(context.Background(), now)

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, uint(1), stored.PredictionID)
	assert.InDelta(t, 1.0, stored.PriceChangePercent, 1e-9)
	assert.Equal(t, entity.DirectionUp, stored.ActualDirection)
	assert.True(t, stored.Correct)
	m.results.AssertNumberOfCalls(t, "Create", 1)

	require.NotNil(t, perf)
	assert.Equal(t, entity.StrategyMomentum, perf.Strategy)
	assert.Equal(t, date(2025, 1, 5), perf.WeekStart)
	assert.Equal(t, 1, perf.TotalPredictions)
	assert.Equal(t, 1, perf.CorrectPredictions)
	assert.Equal(t, 100.0, perf.Accuracy)

	assert.Equal(t, 1, report.Due)
	assert.Equal(t, 1, report.Evaluated)
	assert.Equal(t, "2025-01-05", report.WeekStart)
	assert.Equal(t, 100.0, report.OverallAccuracy)
}

func TestEvaluatorNeutralOutcomeIsIncorrect(t *testing.T) {
	now := date(2025, 1, 12)
	target := date(2025, 1, 10)
	prediction := entity.Prediction{ID: 2, InstrumentID: 3, TargetDate: target, Direction: entity.DirectionUp, Strategy: entity.StrategyContrarian}

	evaluator, m := newEvaluatorUnderTest()
	m.predictions.On("FindDue", mock.Anything, mock.Anything).Return([]entity.Prediction{prediction}, nil)
	m.prices.On("FindLatestBefore", mock.Anything, uint(3), target).Return(&entity.PriceBar{Close: 100}, nil)
	m.prices.On("FindEarliestOnOrAfter", mock.Anything, uint(3), target).Return(&entity.PriceBar{Close: 100.4}, nil)

	var stored *entity.Result
	m.results.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) { stored = args.Get(1).(*entity.Result) }).Return(nil)
	m.results.On("OverallAccuracy", mock.Anything).Return(0.0, nil)
	m.performance.On("Upsert", mock.Anything, mock.MatchedBy(func(p *entity.StrategyPerformance) bool {
		return p.Strategy == entity.StrategyContrarian && p.TotalPredictions == 1 && p.CorrectPredictions == 0 && p.Accuracy == 0
	})).Return(nil).Once()

	report, err := evaluator.Run(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, entity.DirectionNeutral, stored.ActualDirection)
	assert.False(t, stored.Correct)
	assert.Equal(t, 1, report.Strategies[entity.StrategyContrarian].Total)
	m.performance.AssertExpectations(t)
}

func TestEvaluatorSkipsWhenPricesMissing(t *testing.T) {
	target := date(2025, 1, 10)
	evaluator, m := newEvaluatorUnderTest()
	m.predictions.On("FindDue", mock.Anything, mock.Anything).Return([]entity.Prediction{
		{ID: 1, InstrumentID: 3, TargetDate: target, Direction: entity.DirectionUp, Strategy: entity.StrategyMomentum},
	}, nil)
	m.prices.On("FindLatestBefore", mock.Anything, uint(3), target).Return(&entity.PriceBar{Close: 100}, nil)
	m.prices.On("FindEarliestOnOrAfter", mock.Anything, uint(3), target).Return(nil, nil)
	m.results.On("OverallAccuracy", mock.Anything).Return(0.0, nil)

	report, err := evaluator.Run(context.Background(), date(2025, 1, 10))

	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Evaluated)
	m.results.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.performance.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestEvaluatorContinuesAfterResultWriteFailure(t *testing.T) {
	target := date(2025, 1, 10)
	evaluator, m := newEvaluatorUnderTest()
	m.predictions.On("FindDue", mock.Anything, mock.Anything).Return([]entity.Prediction{
		{ID: 1, InstrumentID: 3, TargetDate: target, Direction: entity.DirectionUp, Strategy: entity.StrategyMomentum},
		{ID: 2, InstrumentID: 4, TargetDate: target, Direction: entity.DirectionDown, Strategy: entity.StrategyMomentum},
	}, nil)
	m.prices.On("FindLatestBefore", mock.Anything, mock.Anything, target).Return(&entity.PriceBar{Close: 100}, nil)
	m.prices.On("FindEarliestOnOrAfter", mock.Anything, mock.Anything, target).Return(&entity.PriceBar{Close: 98}, nil)
	m.results.On("Create", mock.Anything, mock.MatchedBy(func(r *entity.Result) bool { return r.PredictionID == 1 })).
		Return(common.ErrDuplicateIngestion)
	m.results.On("Create", mock.Anything, mock.MatchedBy(func(r *entity.Result) bool { return r.PredictionID == 2 })).
		Return(nil)
	m.results.On("OverallAccuracy", mock.Anything).Return(50.0, nil)
	m.performance.On("Upsert", mock.Anything, mock.MatchedBy(func(p *entity.StrategyPerformance) bool {
		return p.TotalPredictions == 1 && p.CorrectPredictions == 1
	})).Return(nil).Once()

	report, err := evaluator.Run(context.Background(), date(2025, 1, 11))

	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Evaluated)
	m.performance.AssertExpectations(t)
}

func TestEvaluatorFindDueFailureIsFatal(t *testing.T) {
	evaluator, m := newEvaluatorUnderTest()
	m.predictions.On("FindDue", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := evaluator.Run(context.Background(), date(2025, 1, 11))

	assert.Error(t, err)
	m.results.AssertNotCalled(t, "OverallAccuracy", mock.Anything)
}
