package service

import (
	"context"
	"encoding/json"
	"time"

	"stock-ai-predictor/internal/scheduler/dto"
	"stock-ai-predictor/internal/scheduler/repository"
	"stock-ai-predictor/pkg/llm"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/trace"
	"stock-ai-predictor/pkg/utils"
)

const (
	insightTemperature      = 0.7
	insightPredictionLimit  = 20
	insightPerformanceWeeks = 4
)

// InsightService writes free-text market commentary on demand.
type InsightService interface {
	Generate(ctx context.Context) string
}

// NewInsightService creates a new insight service.
func NewInsightService(
	llmClient llm.Client,
	instrumentRepo repository.InstrumentRepository,
	predictionRepo repository.PredictionRepository,
	performanceRepo repository.PerformanceRepository,
	log *logger.Logger,
) InsightService {
	return &insightService{
		llmClient:       llmClient,
		instrumentRepo:  instrumentRepo,
		predictionRepo:  predictionRepo,
		performanceRepo: performanceRepo,
		logger:          log,
		now:             time.Now,
	}
}

type insightService struct {
	llmClient       llm.Client
	instrumentRepo  repository.InstrumentRepository
	predictionRepo  repository.PredictionRepository
	performanceRepo repository.PerformanceRepository
	logger          *logger.Logger
	now             func() time.Time
}

type insightData struct {
	TrackedInstruments  int64                              `json:"tracked_instruments"`
	OverallAccuracy     float64                            `json:"overall_accuracy"`
	LatestPredictions   []*dto.PredictionResponse          `json:"latest_predictions"`
	StrategyPerformance []*dto.StrategyPerformanceResponse `json:"strategy_performance"`
}

// Generate never fails; any problem yields InsightFallback.
func (s *insightService) Generate(ctx context.Context) string {
	ctx, span := trace.StartSpan(ctx, "insights.generate")
	defer span.End()

	data, err := s.collect(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to collect insight data", logger.ErrorField(err))
		trace.RecordError(span, err)
		return InsightFallback
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to marshal insight data", logger.ErrorField(err))
		return InsightFallback
	}

	text, err := s.llmClient.Complete(ctx, insightSystemRole, buildInsightPrompt(utils.Truncate(string(raw), maxInsightDataChars)), insightTemperature)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to generate market insights", logger.ErrorField(err))
		trace.RecordError(span, err)
		return InsightFallback
	}
	return text
}

func (s *insightService) collect(ctx context.Context) (*insightData, error) {
	count, err := s.instrumentRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	accuracy, err := s.performanceRepo.OverallAccuracy(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.predictionRepo.FindRecent(ctx, dto.PredictionFilter{Limit: insightPredictionLimit})
	if err != nil {
		return nil, err
	}
	perf, err := s.performanceRepo.FindSince(ctx, weeksAgo(s.now(), insightPerformanceWeeks))
	if err != nil {
		return nil, err
	}

	data := &insightData{
		TrackedInstruments:  count,
		OverallAccuracy:     accuracy,
		LatestPredictions:   make([]*dto.PredictionResponse, 0, len(rows)),
		StrategyPerformance: make([]*dto.StrategyPerformanceResponse, 0, len(perf)),
	}
	for i := range rows {
		p := mapToPredictionResponse(&rows[i])
		// Reasoning text would crowd the rest out of the truncated payload.
		p.Reasoning = ""
		data.LatestPredictions = append(data.LatestPredictions, p)
	}
	for _, r := range perf {
		data.StrategyPerformance = append(data.StrategyPerformance, &dto.StrategyPerformanceResponse{
			Strategy:           string(r.Strategy),
			WeekStart:          utils.FormatDate(r.WeekStart),
			TotalPredictions:   r.TotalPredictions,
			CorrectPredictions: r.CorrectPredictions,
			Accuracy:           r.Accuracy,
		})
	}
	return data, nil
}
