package service

import (
	"context"
	"time"

	"stock-ai-predictor/internal/scheduler/dto"
	"stock-ai-predictor/internal/scheduler/repository"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/utils"
)

const (
	DefaultPerformanceWeeks = 12
	maxPerformanceWeeks     = 104
)

// PerformanceService reads strategy rollups and overall accuracy.
type PerformanceService interface {
	GetPerformance(ctx context.Context, weeks int) ([]*dto.StrategyPerformanceResponse, error)
	GetAccuracy(ctx context.Context) (*dto.AccuracyResponse, error)
}

// NewPerformanceService creates a new performance service.
func NewPerformanceService(performanceRepo repository.PerformanceRepository, log *logger.Logger) PerformanceService {
	return &performanceService{
		performanceRepo: performanceRepo,
		logger:          log,
		now:             time.Now,
	}
}

type performanceService struct {
	performanceRepo repository.PerformanceRepository
	logger          *logger.Logger
	now             func() time.Time
}

// GetPerformance returns rollups for the last weeks weeks, newest first.
func (s *performanceService) GetPerformance(ctx context.Context, weeks int) ([]*dto.StrategyPerformanceResponse, error) {
	rows, err := s.performanceRepo.FindSince(ctx, weeksAgo(s.now(), weeks))
	if err != nil {
		s.logger.Error("Failed to get strategy performance", logger.ErrorField(err))
		return nil, err
	}

	out := make([]*dto.StrategyPerformanceResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, &dto.StrategyPerformanceResponse{
			Strategy:           string(r.Strategy),
			WeekStart:          utils.FormatDate(r.WeekStart),
			TotalPredictions:   r.TotalPredictions,
			CorrectPredictions: r.CorrectPredictions,
			Accuracy:           r.Accuracy,
		})
	}
	return out, nil
}

func (s *performanceService) GetAccuracy(ctx context.Context) (*dto.AccuracyResponse, error) {
	accuracy, err := s.performanceRepo.OverallAccuracy(ctx)
	if err != nil {
		s.logger.Error("Failed to get overall accuracy", logger.ErrorField(err))
		return nil, err
	}
	return &dto.AccuracyResponse{Accuracy: accuracy}, nil
}

// weeksAgo returns the earliest week_start included in a window of weeks weeks.
func weeksAgo(now time.Time, weeks int) time.Time {
	weeks = clampLimit(weeks, DefaultPerformanceWeeks, maxPerformanceWeeks)
	return utils.AddDays(now, -7*weeks)
}
