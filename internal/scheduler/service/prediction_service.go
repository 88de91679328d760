package service

import (
	"context"
	"encoding/json"
	"time"

	"stock-ai-predictor/internal/scheduler/dto"
	"stock-ai-predictor/internal/scheduler/repository"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/utils"
)

const (
	DefaultPredictionLimit = 50
	maxPredictionLimit     = 500
)

// PredictionService lists stored forecasts.
type PredictionService interface {
	List(ctx context.Context, targetDate *time.Time, limit int) ([]*dto.PredictionResponse, error)
}

// NewPredictionService creates a new prediction service.
func NewPredictionService(predictionRepo repository.PredictionRepository, log *logger.Logger) PredictionService {
	return &predictionService{predictionRepo: predictionRepo, logger: log}
}

type predictionService struct {
	predictionRepo repository.PredictionRepository
	logger         *logger.Logger
}

// List returns the newest predictions, optionally only those targeting one date.
func (s *predictionService) List(ctx context.Context, targetDate *time.Time, limit int) ([]*dto.PredictionResponse, error) {
	rows, err := s.predictionRepo.FindRecent(ctx, dto.PredictionFilter{
		TargetDate: targetDate,
		Limit:      clampLimit(limit, DefaultPredictionLimit, maxPredictionLimit),
	})
	if err != nil {
		s.logger.Error("Failed to list predictions", logger.ErrorField(err))
		return nil, err
	}

	out := make([]*dto.PredictionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, mapToPredictionResponse(&rows[i]))
	}
	return out, nil
}

func mapToPredictionResponse(row *dto.PredictionRow) *dto.PredictionResponse {
	resp := &dto.PredictionResponse{
		ID:             row.ID,
		Symbol:         row.Symbol,
		Name:           row.Name,
		PredictionDate: utils.FormatDate(row.PredictionDate),
		TargetDate:     utils.FormatDate(row.TargetDate),
		Direction:      row.Direction,
		Confidence:     row.Confidence,
		Reasoning:      row.Reasoning,
		Strategy:       row.Strategy,
		RiskLevel:      row.RiskLevel,
		CreatedAt:      row.CreatedAt,
	}
	if len(row.KeyFactors) > 0 && json.Valid(row.KeyFactors) {
		resp.KeyFactors = json.RawMessage(row.KeyFactors)
	}
	if row.ActualDirection != nil {
		resp.Result = &dto.ResultResponse{ActualDirection: *row.ActualDirection}
		if row.Correct != nil {
			resp.Result.Correct = *row.Correct
		}
		if row.PriceChangePercent != nil {
			resp.Result.PriceChangePercent = *row.PriceChangePercent
		}
	}
	return resp
}
