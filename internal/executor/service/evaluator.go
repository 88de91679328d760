package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/executor/dto"
	"stock-ai-predictor/internal/executor/repository"
	"stock-ai-predictor/pkg/common"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/utils"
)

// DirectionThreshold is the percent move a realized outcome must exceed to
// count as up or down.
const DirectionThreshold = 0.5

// ClassifyDirection maps a realized percent change to a direction.
func ClassifyDirection(pctChange float64) entity.Direction {
	switch {
	case pctChange > DirectionThreshold:
		return entity.DirectionUp
	case pctChange < -DirectionThreshold:
		return entity.DirectionDown
	default:
		return entity.DirectionNeutral
	}
}

// Evaluator resolves due predictions against realized prices.
type Evaluator interface {
	Run(ctx context.Context, now time.Time) (dto.EvaluationReport, error)
}

type evaluator struct {
	log             *logger.Logger
	predictionRepo  repository.PredictionRepository
	priceRepo       repository.PriceHistoryRepository
	resultRepo      repository.ResultRepository
	performanceRepo repository.StrategyPerformanceRepository
}

// NewEvaluator creates a new Evaluator.
func NewEvaluator(
	log *logger.Logger,
	predictionRepo repository.PredictionRepository,
	priceRepo repository.PriceHistoryRepository,
	resultRepo repository.ResultRepository,
	performanceRepo repository.StrategyPerformanceRepository,
) Evaluator {
	return &evaluator{
		log:             log,
		predictionRepo:  predictionRepo,
		priceRepo:       priceRepo,
		resultRepo:      resultRepo,
		performanceRepo: performanceRepo,
	}
}

func (e *evaluator) Run(ctx context.Context, now time.Time) (dto.EvaluationReport, error) {
	today := utils.DateOnly(now)
	weekStart := WeekStart(now)
	report := dto.EvaluationReport{
		WeekStart:  utils.FormatDate(weekStart),
		Strategies: make(map[entity.Strategy]dto.StrategyTally),
	}

	due, err := e.predictionRepo.FindDue(ctx, today)
	if err != nil {
		return report, fmt.Errorf("failed to find due predictions: %w", err)
	}
	report.Due = len(due)
	e.log.InfoContext(ctx, "Evaluating due predictions", logger.IntField("due", len(due)), logger.StringField("today", utils.FormatDate(today)))

	for i := range due {
		prediction := &due[i]
		result, err := e.evaluate(ctx, prediction, now)
		if err != nil {
			if errors.Is(err, common.ErrStaleEvaluationInput) {
				report.Skipped++
				e.log.InfoContext(ctx, "Skipping prediction, price data not available yet",
					logger.IntField("prediction_id", int(prediction.ID)),
					logger.StringField("target_date", utils.FormatDate(prediction.TargetDate)))
				continue
			}
			report.Failed++
			e.log.ErrorContext(ctx, "Failed to evaluate prediction", logger.ErrorField(err), logger.IntField("prediction_id", int(prediction.ID)))
			continue
		}

		if err := e.resultRepo.Create(ctx, result); err != nil {
			report.Failed++
			e.log.ErrorContext(ctx, "Failed to store result", logger.ErrorField(err), logger.IntField("prediction_id", int(prediction.ID)))
			continue
		}

		report.Evaluated++
		entity.RegisterStrategy(prediction.Strategy)
		tally := report.Strategies[prediction.Strategy]
		tally.Total++
		if result.Correct {
			tally.Correct++
		}
		report.Strategies[prediction.Strategy] = tally
	}

	for strategy, tally := range report.Strategies {
		perf := &entity.StrategyPerformance{
			Strategy:           strategy,
			WeekStart:          weekStart,
			TotalPredictions:   tally.Total,
			CorrectPredictions: tally.Correct,
			Accuracy:           tally.Accuracy(),
		}
		if err := e.performanceRepo.Upsert(ctx, perf); err != nil {
			e.log.ErrorContext(ctx, "Failed to upsert strategy performance", logger.ErrorField(err), logger.StringField("strategy", string(strategy)))
			continue
		}
		e.log.InfoContext(ctx, "Strategy performance updated",
			logger.StringField("strategy", string(strategy)),
			logger.IntField("total", tally.Total),
			logger.IntField("correct", tally.Correct),
			logger.FloatField("accuracy", tally.Accuracy()))
	}

	overall, err := e.resultRepo.OverallAccuracy(ctx)
	if err != nil {
		e.log.WarnContext(ctx, "Failed to read overall accuracy", logger.ErrorField(err))
	} else {
		report.OverallAccuracy = overall
	}

	return report, nil
}

func (e *evaluator) evaluate(ctx context.Context, prediction *entity.Prediction, now time.Time) (*entity.Result, error) {
	target := utils.DateOnly(prediction.TargetDate)

	before, err := e.priceRepo.FindLatestBefore(ctx, prediction.InstrumentID, target)
	if err != nil {
		return nil, fmt.Errorf("failed to find price before target: %w", err)
	}
	after, err := e.priceRepo.FindEarliestOnOrAfter(ctx, prediction.InstrumentID, target)
	if err != nil {
		return nil, fmt.Errorf("failed to find price on or after target: %w", err)
	}
	if before == nil || after == nil || before.Close == 0 {
		return nil, common.ErrStaleEvaluationInput
	}

	pctChange := (after.Close - before.Close) / before.Close * 100
	actual := ClassifyDirection(pctChange)

	return &entity.Result{
		PredictionID:       prediction.ID,
		ActualDirection:    actual,
		Correct:            prediction.Direction == actual,
		PriceChangePercent: pctChange,
		EvaluatedAt:        now.UTC(),
	}, nil
}
