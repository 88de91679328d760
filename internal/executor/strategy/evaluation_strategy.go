package strategy

import (
	"context"
	"fmt"
	"time"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/executor/service"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/telegram"
)

// EvaluationStrategy resolves due predictions and refreshes the weekly
// strategy rollup.
type EvaluationStrategy struct {
	logger      *logger.Logger
	evaluator   service.Evaluator
	telegramBot telegram.Notifier
	now         func() time.Time
}

var _ service.JobExecutionStrategy = (*EvaluationStrategy)(nil)

// NewEvaluationStrategy creates a new EvaluationStrategy.
func NewEvaluationStrategy(log *logger.Logger, evaluator service.Evaluator, telegramBot telegram.Notifier) *EvaluationStrategy {
	return &EvaluationStrategy{logger: log, evaluator: evaluator, telegramBot: telegramBot, now: time.Now}
}

// GetType returns the job type this strategy handles.
func (s *EvaluationStrategy) GetType() entity.JobType {
	return entity.JobTypeEvaluation
}

// Execute runs one evaluation pass.
func (s *EvaluationStrategy) Execute(ctx context.Context, job *entity.Job) (string, error) {
	report, err := s.evaluator.Run(ctx, s.now())
	if err != nil {
		return "", fmt.Errorf("evaluation failed: %w", err)
	}

	s.logger.InfoContext(ctx, "Evaluation complete",
		logger.IntField("due", report.Due),
		logger.IntField("evaluated", report.Evaluated),
		logger.IntField("skipped", report.Skipped),
		logger.IntField("failed", report.Failed),
		logger.FloatField("overall_accuracy", report.OverallAccuracy))
	notify(ctx, s.logger, s.telegramBot, telegram.FormatEvaluationReport(report))

	return marshalOutput(report)
}
