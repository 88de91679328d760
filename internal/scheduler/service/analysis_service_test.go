package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/scheduler/dto"
	"stock-ai-predictor/pkg/common"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var reviewNow = time.Date(2025, 3, 31, 9, 0, 0, 0, time.UTC)

func newTestReview(llmClient *mockLLMClient, perfRepo *mockPerformanceRepository) *strategyReviewService {
	s := NewStrategyReviewService(llmClient, perfRepo, logger.NewNop()).(*strategyReviewService)
	s.now = func() time.Time { return reviewNow }
	return s
}

func reviewRows() []entity.StrategyPerformance {
	return []entity.StrategyPerformance{
		{Strategy: entity.StrategyMomentum, TotalPredictions: 4, CorrectPredictions: 3},
		{Strategy: entity.StrategyMomentum, TotalPredictions: 6, CorrectPredictions: 3},
		{Strategy: entity.StrategyContrarian, TotalPredictions: 5, CorrectPredictions: 1},
	}
}

func TestStrategyReviewSumsWeeksAndParsesAdvice(t *testing.T) {
	llmClient := new(mockLLMClient)
	perfRepo := new(mockPerformanceRepository)
	perfRepo.On("FindSince", mock.Anything, utils.AddDays(reviewNow, -28)).Return(reviewRows(), nil)
	llmClient.On("Complete", mock.Anything, reviewSystemRole, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, `"momentum"`) && strings.Contains(p, `"total": 10`)
	}), reviewTemperature).Return("```json\n"+`{
  "best_strategy": "momentum",
  "worst_strategy": "contrarian",
  "recommendations": ["keep momentum", " ", "drop contrarian"],
  "market_condition_assessment": "trending"
}`+"\n```", nil)

	review, err := newTestReview(llmClient, perfRepo).Review(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, 4, review.Weeks)
	require.Len(t, review.Strategies, 2)
	assert.Equal(t, dto.StrategyStat{Total: 10, Correct: 6, Accuracy: 60, Known: true}, review.Strategies["momentum"])
	assert.InDelta(t, 20.0, review.Strategies["contrarian"].Accuracy, 1e-9)
	assert.Equal(t, "momentum", review.BestStrategy)
	assert.Equal(t, "contrarian", review.WorstStrategy)
	assert.Equal(t, []string{"keep momentum", "drop contrarian"}, review.Recommendations)
	assert.Equal(t, "trending", review.MarketConditionAssessment)
}

func TestStrategyReviewKeepsStatsWhenReasoningFails(t *testing.T) {
	for name, reply := range map[string]struct {
		text string
		err  error
	}{
		"unavailable": {"", common.ErrReasoningUnavailable},
		"malformed":   {"I cannot help with that", nil},
	} {
		t.Run(name, func(t *testing.T) {
			llmClient := new(mockLLMClient)
			perfRepo := new(mockPerformanceRepository)
			perfRepo.On("FindSince", mock.Anything, mock.Anything).Return(reviewRows(), nil)
			llmClient.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(reply.text, reply.err)

			review, err := newTestReview(llmClient, perfRepo).Review(context.Background(), 0)

			require.NoError(t, err)
			assert.Equal(t, DefaultPerformanceWeeks, review.Weeks)
			assert.Len(t, review.Strategies, 2)
			assert.Empty(t, review.BestStrategy)
			assert.NotNil(t, review.Recommendations)
			assert.Empty(t, review.Recommendations)
		})
	}
}

func TestStrategyReviewWithoutDataSkipsReasoning(t *testing.T) {
	llmClient := new(mockLLMClient)
	perfRepo := new(mockPerformanceRepository)
	perfRepo.On("FindSince", mock.Anything, mock.Anything).Return([]entity.StrategyPerformance{}, nil)

	review, err := newTestReview(llmClient, perfRepo).Review(context.Background(), 12)

	require.NoError(t, err)
	assert.Empty(t, review.Strategies)
	llmClient.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStrategyReviewFlagsInventedStrategies(t *testing.T) {
	llmClient := new(mockLLMClient)
	perfRepo := new(mockPerformanceRepository)
	perfRepo.On("FindSince", mock.Anything, mock.Anything).Return([]entity.StrategyPerformance{
		{Strategy: entity.StrategyNewsImpact, TotalPredictions: 2, CorrectPredictions: 1},
		{Strategy: "earnings_drift_review_only", TotalPredictions: 3, CorrectPredictions: 3},
	}, nil)
	llmClient.On("Complete", mock.Anything, mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, `"known": false`)
	}), mock.Anything).Return("{}", nil)

	review, err := newTestReview(llmClient, perfRepo).Review(context.Background(), 4)

	require.NoError(t, err)
	assert.True(t, review.Strategies["news_impact"].Known)
	assert.False(t, review.Strategies["earnings_drift_review_only"].Known)
	assert.Subset(t, review.KnownStrategies, []string{"contrarian", "correlation", "momentum", "news_impact"})
	assert.NotContains(t, review.KnownStrategies, "earnings_drift_review_only")
	llmClient.AssertExpectations(t)
}

func TestStrategyReviewStoreFailureIsReturned(t *testing.T) {
	perfRepo := new(mockPerformanceRepository)
	perfRepo.On("FindSince", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := newTestReview(new(mockLLMClient), perfRepo).Review(context.Background(), 12)

	assert.Error(t, err)
}

func newTestInsights(llmClient *mockLLMClient, instRepo *mockInstrumentRepository, predRepo *mockPredictionRepository, perfRepo *mockPerformanceRepository) InsightService {
	s := NewInsightService(llmClient, instRepo, predRepo, perfRepo, logger.NewNop()).(*insightService)
	s.now = func() time.Time { return reviewNow }
	return s
}

func TestInsightsSendTruncatedData(t *testing.T) {
	llmClient := new(mockLLMClient)
	instRepo := new(mockInstrumentRepository)
	predRepo := new(mockPredictionRepository)
	perfRepo := new(mockPerformanceRepository)

	rows := make([]dto.PredictionRow, 0, insightPredictionLimit)
	for i := 0; i < insightPredictionLimit; i++ {
		rows = append(rows, dto.PredictionRow{
			ID: uint(i + 1), Symbol: "AAPL", Name: "Apple Inc.", Direction: "up",
			Confidence: 0.7, Strategy: "momentum", Reasoning: strings.Repeat("long reasoning ", 50),
			PredictionDate: reviewNow, TargetDate: reviewNow.AddDate(0, 0, 7),
		})
	}
	instRepo.On("CountActive", mock.Anything).Return(int64(12), nil)
	perfRepo.On("OverallAccuracy", mock.Anything).Return(61.5, nil)
	predRepo.On("FindRecent", mock.Anything, dto.PredictionFilter{Limit: insightPredictionLimit}).Return(rows, nil)
	perfRepo.On("FindSince", mock.Anything, utils.AddDays(reviewNow, -7*insightPerformanceWeeks)).Return([]entity.StrategyPerformance{}, nil)

	var prompt string
	llmClient.On("Complete", mock.Anything, insightSystemRole, mock.Anything, insightTemperature).
		Run(func(args mock.Arguments) { prompt = args.String(2) }).
		Return("Markets were calm.", nil)

	got := newTestInsights(llmClient, instRepo, predRepo, perfRepo).Generate(context.Background())

	assert.Equal(t, "Markets were calm.", got)
	assert.Contains(t, prompt, `"tracked_instruments": 12`)
	assert.Contains(t, prompt, `"overall_accuracy": 61.5`)
	assert.NotContains(t, prompt, "long reasoning")
	assert.LessOrEqual(t, len([]rune(buildInsightPrompt(""))), len([]rune(prompt))-1)
	assert.LessOrEqual(t, len([]rune(prompt)), len([]rune(buildInsightPrompt("")))+maxInsightDataChars)
}

func TestInsightsFallBackOnFailure(t *testing.T) {
	t.Run("reasoning unavailable", func(t *testing.T) {
		llmClient := new(mockLLMClient)
		instRepo := new(mockInstrumentRepository)
		predRepo := new(mockPredictionRepository)
		perfRepo := new(mockPerformanceRepository)
		instRepo.On("CountActive", mock.Anything).Return(int64(0), nil)
		perfRepo.On("OverallAccuracy", mock.Anything).Return(0.0, nil)
		predRepo.On("FindRecent", mock.Anything, mock.Anything).Return([]dto.PredictionRow{}, nil)
		perfRepo.On("FindSince", mock.Anything, mock.Anything).Return([]entity.StrategyPerformance{}, nil)
		llmClient.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", common.ErrReasoningUnavailable)

		assert.Equal(t, InsightFallback, newTestInsights(llmClient, instRepo, predRepo, perfRepo).Generate(context.Background()))
	})

	t.Run("store failure", func(t *testing.T) {
		llmClient := new(mockLLMClient)
		instRepo := new(mockInstrumentRepository)
		instRepo.On("CountActive", mock.Anything).Return(int64(0), errors.New("db down"))

		got := newTestInsights(llmClient, instRepo, new(mockPredictionRepository), new(mockPerformanceRepository)).Generate(context.Background())

		assert.Equal(t, InsightFallback, got)
		llmClient.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPredictionServiceMapsResultAndDefaults(t *testing.T) {
	predRepo := new(mockPredictionRepository)
	actual := "neutral"
	correct := false
	pct := 0.2
	predRepo.On("FindRecent", mock.Anything, dto.PredictionFilter{Limit: DefaultPredictionLimit}).Return([]dto.PredictionRow{
		{
			ID: 1, Symbol: "AAPL", Direction: "up", Strategy: "momentum",
			PredictionDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			TargetDate:     time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
			KeyFactors:     []byte(`["earnings"]`),
			ActualDirection: &actual, Correct: &correct, PriceChangePercent: &pct,
		},
		{ID: 2, Symbol: "MSFT", Direction: "down", KeyFactors: []byte("not json")},
	}, nil)

	got, err := NewPredictionService(predRepo, logger.NewNop()).List(context.Background(), nil, 0)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-01-08", got[0].TargetDate)
	assert.JSONEq(t, `["earnings"]`, string(got[0].KeyFactors))
	require.NotNil(t, got[0].Result)
	assert.Equal(t, "neutral", got[0].Result.ActualDirection)
	assert.False(t, got[0].Result.Correct)
	assert.Nil(t, got[1].Result)
	assert.Nil(t, got[1].KeyFactors)
}

func TestPerformanceServiceWindow(t *testing.T) {
	perfRepo := new(mockPerformanceRepository)
	perfRepo.On("FindSince", mock.Anything, utils.AddDays(reviewNow, -84)).Return([]entity.StrategyPerformance{
		{Strategy: entity.StrategyNewsImpact, WeekStart: time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC), TotalPredictions: 3, CorrectPredictions: 2, Accuracy: 66.67},
	}, nil)
	svc := NewPerformanceService(perfRepo, logger.NewNop()).(*performanceService)
	svc.now = func() time.Time { return reviewNow }

	rows, err := svc.GetPerformance(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "news_impact", rows[0].Strategy)
	assert.Equal(t, "2025-03-24", rows[0].WeekStart)
}

func TestInstrumentAddNormalisesAndReturnsExisting(t *testing.T) {
	instRepo := new(mockInstrumentRepository)
	existing := &entity.Instrument{ID: 3, Symbol: "AAPL", Name: "Apple Inc.", Active: true}
	instRepo.On("FindBySymbol", mock.Anything, "AAPL").Return(existing, nil)

	got, created, err := NewInstrumentService(instRepo, logger.NewNop()).
		Add(context.Background(), &dto.CreateInstrumentRequest{Symbol: "  aapl ", Name: "Other name"})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uint(3), got.ID)
	assert.Equal(t, "Apple Inc.", got.Name)
	instRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInstrumentAddCreatesNew(t *testing.T) {
	instRepo := new(mockInstrumentRepository)
	sector := " Technology "
	instRepo.On("FindBySymbol", mock.Anything, "NVDA").Return(nil, common.ErrNotFound)
	instRepo.On("Create", mock.Anything, mock.MatchedBy(func(i *entity.Instrument) bool {
		return i.Symbol == "NVDA" && i.Name == "NVDA" && i.Active && i.Sector != nil && *i.Sector == "Technology"
	})).Return(nil)

	got, created, err := NewInstrumentService(instRepo, logger.NewNop()).
		Add(context.Background(), &dto.CreateInstrumentRequest{Symbol: "nvda", Sector: &sector})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "NVDA", got.Symbol)
}

func TestInstrumentAddRejectsBadSymbol(t *testing.T) {
	svc := NewInstrumentService(new(mockInstrumentRepository), logger.NewNop())

	_, _, err := svc.Add(context.Background(), &dto.CreateInstrumentRequest{Symbol: "   "})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, _, err = svc.Add(context.Background(), &dto.CreateInstrumentRequest{Symbol: strings.Repeat("X", 21)})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
