package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/scheduler/dto"
	"stock-ai-predictor/internal/scheduler/repository"
	"stock-ai-predictor/pkg/llm"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/trace"
)

const reviewTemperature = 0.5

// StrategyReviewService compares strategies over recent weeks and asks the
// reasoning service which to favour.
type StrategyReviewService interface {
	Review(ctx context.Context, weeks int) (*dto.StrategyReviewResponse, error)
}

// NewStrategyReviewService creates a new strategy review service.
func NewStrategyReviewService(llmClient llm.Client, performanceRepo repository.PerformanceRepository, log *logger.Logger) StrategyReviewService {
	return &strategyReviewService{
		llmClient:       llmClient,
		performanceRepo: performanceRepo,
		logger:          log,
		now:             time.Now,
	}
}

type strategyReviewService struct {
	llmClient       llm.Client
	performanceRepo repository.PerformanceRepository
	logger          *logger.Logger
	now             func() time.Time
}

// Review only fails when the rollups cannot be read. Without stats, or when
// the reasoning service fails, the advice fields stay empty.
func (s *strategyReviewService) Review(ctx context.Context, weeks int) (*dto.StrategyReviewResponse, error) {
	ctx, span := trace.StartSpan(ctx, "strategy.review")
	defer span.End()

	weeks = clampLimit(weeks, DefaultPerformanceWeeks, maxPerformanceWeeks)
	rows, err := s.performanceRepo.FindSince(ctx, weeksAgo(s.now(), weeks))
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read strategy performance", logger.ErrorField(err))
		trace.RecordError(span, err)
		return nil, err
	}

	stats := make(map[string]dto.StrategyStat)
	for _, r := range rows {
		st := stats[string(r.Strategy)]
		st.Total += r.TotalPredictions
		st.Correct += r.CorrectPredictions
		stats[string(r.Strategy)] = st
	}
	for name, st := range stats {
		if st.Total > 0 {
			st.Accuracy = float64(st.Correct) / float64(st.Total) * 100
		}
		st.Known = entity.IsKnownStrategy(entity.Strategy(name))
		stats[name] = st
	}

	known := entity.KnownStrategies()
	knownNames := make([]string, 0, len(known))
	for _, k := range known {
		knownNames = append(knownNames, string(k))
	}

	review := &dto.StrategyReviewResponse{
		Weeks:           weeks,
		Strategies:      stats,
		KnownStrategies: knownNames,
		StrategyAdvice: dto.StrategyAdvice{
			Recommendations: []string{},
		},
	}
	if len(stats) == 0 {
		return review, nil
	}

	raw, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return review, nil
	}

	text, err := s.llmClient.Complete(ctx, reviewSystemRole, buildStrategyReviewPrompt(string(raw)), reviewTemperature)
	if err != nil {
		s.logger.WarnContext(ctx, "Strategy review unavailable", logger.ErrorField(err))
		return review, nil
	}

	var advice dto.StrategyAdvice
	if err := llm.Decode(text, &advice); err != nil {
		s.logger.WarnContext(ctx, "Strategy review response unusable", logger.ErrorField(err))
		return review, nil
	}

	review.BestStrategy = strings.TrimSpace(advice.BestStrategy)
	review.WorstStrategy = strings.TrimSpace(advice.WorstStrategy)
	review.MarketConditionAssessment = strings.TrimSpace(advice.MarketConditionAssessment)
	for _, rec := range advice.Recommendations {
		if rec = strings.TrimSpace(rec); rec != "" {
			review.Recommendations = append(review.Recommendations, rec)
		}
	}
	return review, nil
}
