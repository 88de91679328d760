package service

import (
	"context"
	"errors"
	"testing"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/pkg/common"
	"stock-ai-predictor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRunJobRecordsCompletedHistory(t *testing.T) {
	jobs := new(mockJobRepository)
	histories := new(mockHistoryRepository)
	strategy := &stubStrategy{jobType: entity.JobTypeEvaluation, output: `{"due":0}`}

	jobs.On("FindByType", mock.Anything, entity.JobTypeEvaluation).Return(&entity.Job{ID: 3, Type: entity.JobTypeEvaluation, Timeout: 60}, nil)
	histories.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.TaskExecutionHistory).ID = 11
	}).Return(nil)
	histories.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := NewExecutorService(nil, jobs, histories, logger.NewNop(), []JobExecutionStrategy{strategy})
	history, err := svc.RunJob(context.Background(), entity.JobTypeEvaluation, entity.TriggeredByCLI)

	require.NoError(t, err)
	assert.Equal(t, 1, strategy.calls)
	assert.Equal(t, uint(11), history.ID)
	assert.Equal(t, entity.StatusCompleted, history.Status)
	assert.Equal(t, entity.TriggeredByCLI, history.TriggeredBy)
	assert.Equal(t, `{"due":0}`, history.Output.String)
	assert.True(t, history.CompletedAt.Valid)
	histories.AssertNumberOfCalls(t, "Update", 2)
}

func TestRunJobRecordsFailure(t *testing.T) {
	jobs := new(mockJobRepository)
	histories := new(mockHistoryRepository)
	strategy := &stubStrategy{jobType: entity.JobTypeDailyUpdate, err: errors.New("failed to get instruments")}

	jobs.On("FindByType", mock.Anything, entity.JobTypeDailyUpdate).Return(&entity.Job{ID: 1, Type: entity.JobTypeDailyUpdate}, nil)
	histories.On("Create", mock.Anything, mock.Anything).Return(nil)
	histories.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := NewExecutorService(nil, jobs, histories, logger.NewNop(), []JobExecutionStrategy{strategy})
	history, err := svc.RunJob(context.Background(), entity.JobTypeDailyUpdate, entity.TriggeredByCLI)

	assert.Error(t, err)
	require.NotNil(t, history)
	assert.Equal(t, entity.StatusFailed, history.Status)
	assert.Equal(t, "failed to get instruments", history.ErrorMessage.String)
}

func TestRunJobWithoutStrategyFails(t *testing.T) {
	jobs := new(mockJobRepository)
	histories := new(mockHistoryRepository)

	jobs.On("FindByType", mock.Anything, entity.JobTypeWeeklyPrediction).Return(&entity.Job{ID: 2, Type: entity.JobTypeWeeklyPrediction}, nil)
	histories.On("Create", mock.Anything, mock.Anything).Return(nil)
	histories.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := NewExecutorService(nil, jobs, histories, logger.NewNop(), nil)
	history, err := svc.RunJob(context.Background(), entity.JobTypeWeeklyPrediction, entity.TriggeredByManual)

	assert.Error(t, err)
	assert.Equal(t, entity.StatusFailed, history.Status)
	assert.Contains(t, history.ErrorMessage.String, "no executor strategy")
}

func TestRunJobUnknownJob(t *testing.T) {
	jobs := new(mockJobRepository)
	jobs.On("FindByType", mock.Anything, entity.JobType("nope")).Return(nil, common.ErrNotFound)

	svc := NewExecutorService(nil, jobs, new(mockHistoryRepository), logger.NewNop(), nil)
	_, err := svc.RunJob(context.Background(), entity.JobType("nope"), entity.TriggeredByCLI)

	assert.ErrorIs(t, err, common.ErrNotFound)
}
