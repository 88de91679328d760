package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/scheduler/dto"
	"stock-ai-predictor/pkg/common"
	"stock-ai-predictor/pkg/utils"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.Instrument{},
		&entity.Prediction{},
		&entity.Result{},
		&entity.StrategyPerformance{},
		&entity.Job{},
		&entity.TaskSchedule{},
		&entity.TaskExecutionHistory{},
	))
	return db
}

func day(s string) time.Time {
	d, err := utils.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestInstrumentRepositoryListAndDeactivate(t *testing.T) {
	db := newTestDB(t)
	repo := NewInstrumentRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Instrument{Symbol: "MSFT", Name: "Microsoft", Active: true}))
	require.NoError(t, repo.Create(ctx, &entity.Instrument{Symbol: "AAPL", Name: "Apple", Active: true}))

	require.NoError(t, repo.Deactivate(ctx, "MSFT"))

	active, err := repo.FindAll(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "AAPL", active[0].Symbol)

	all, err := repo.FindAll(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "AAPL", all[0].Symbol)
	assert.False(t, all[1].Active)

	n, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestInstrumentRepositoryErrors(t *testing.T) {
	db := newTestDB(t)
	repo := NewInstrumentRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Instrument{Symbol: "AAPL", Name: "Apple", Active: true}))

	err := repo.Create(ctx, &entity.Instrument{Symbol: "AAPL", Name: "Apple again", Active: true})
	assert.ErrorIs(t, err, common.ErrDuplicateIngestion)

	assert.ErrorIs(t, repo.Deactivate(ctx, "NOPE"), common.ErrNotFound)

	_, err = repo.FindBySymbol(ctx, "NOPE")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPredictionRepositoryFindRecentJoinsResult(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	inst := entity.Instrument{Symbol: "AAPL", Name: "Apple", Active: true}
	require.NoError(t, db.Create(&inst).Error)

	older := entity.Prediction{
		InstrumentID:   inst.ID,
		PredictionDate: day("2025-01-01"),
		TargetDate:     day("2025-01-08"),
		Direction:      entity.DirectionUp,
		Confidence:     0.7,
		Reasoning:      "trend",
		Strategy:       entity.StrategyMomentum,
		KeyFactors:     datatypes.JSON(`["volume"]`),
		CreatedAt:      time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	newer := entity.Prediction{
		InstrumentID:   inst.ID,
		PredictionDate: day("2025-01-08"),
		TargetDate:     day("2025-01-15"),
		Direction:      entity.DirectionDown,
		Confidence:     0.6,
		Reasoning:      "reversal",
		Strategy:       entity.StrategyContrarian,
		CreatedAt:      time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)
	require.NoError(t, db.Create(&entity.Result{
		PredictionID:       older.ID,
		ActualDirection:    entity.DirectionUp,
		Correct:            true,
		PriceChangePercent: 1.25,
		EvaluatedAt:        time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC),
	}).Error)

	repo := NewPredictionRepository(db)

	rows, err := repo.FindRecent(ctx, dto.PredictionFilter{Limit: 50})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Nil(t, rows[0].ActualDirection)
	assert.Equal(t, "AAPL", rows[1].Symbol)
	assert.Equal(t, "Apple", rows[1].Name)
	require.NotNil(t, rows[1].ActualDirection)
	assert.Equal(t, "up", *rows[1].ActualDirection)
	require.NotNil(t, rows[1].Correct)
	assert.True(t, *rows[1].Correct)
	require.NotNil(t, rows[1].PriceChangePercent)
	assert.InDelta(t, 1.25, *rows[1].PriceChangePercent, 1e-9)

	target := day("2025-01-15")
	rows, err = repo.FindRecent(ctx, dto.PredictionFilter{TargetDate: &target, Limit: 50})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, newer.ID, rows[0].ID)

	rows, err = repo.FindRecent(ctx, dto.PredictionFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestPerformanceRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewPerformanceRepository(db)

	accuracy, err := repo.OverallAccuracy(ctx)
	require.NoError(t, err)
	assert.Zero(t, accuracy)

	for _, p := range []entity.StrategyPerformance{
		{Strategy: entity.StrategyMomentum, WeekStart: day("2025-01-05"), TotalPredictions: 4, CorrectPredictions: 3, Accuracy: 75},
		{Strategy: entity.StrategyContrarian, WeekStart: day("2025-01-12"), TotalPredictions: 2, CorrectPredictions: 1, Accuracy: 50},
		{Strategy: entity.StrategyMomentum, WeekStart: day("2024-10-01"), TotalPredictions: 9, CorrectPredictions: 9, Accuracy: 100},
	} {
		p := p
		require.NoError(t, db.Create(&p).Error)
	}

	rows, err := repo.FindSince(ctx, day("2025-01-01"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, entity.StrategyContrarian, rows[0].Strategy)
	assert.Equal(t, entity.StrategyMomentum, rows[1].Strategy)

	for i, correct := range []bool{true, false, true, true} {
		require.NoError(t, db.Create(&entity.Result{
			PredictionID:    uint(i + 1),
			ActualDirection: entity.DirectionUp,
			Correct:         correct,
			EvaluatedAt:     time.Now(),
		}).Error)
	}
	accuracy, err = repo.OverallAccuracy(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, accuracy, 1e-9)
}

func seedJob(t *testing.T, db *gorm.DB, jobType entity.JobType, cronExpr string) entity.Job {
	t.Helper()
	job := entity.Job{
		Name:      string(jobType),
		Type:      jobType,
		Payload:   datatypes.JSON(`{}`),
		Timeout:   600,
		Schedules: []entity.TaskSchedule{{CronExpression: cronExpr, IsActive: true}},
	}
	require.NoError(t, db.Create(&job).Error)
	return job
}

func TestJobRepositoryFindByType(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedJob(t, db, entity.JobTypeDailyUpdate, "0 22 * * 1-5")
	seedJob(t, db, entity.JobTypeEvaluation, "0 6 * * 1")
	repo := NewJobRepository(db)

	job, err := repo.FindByType(ctx, entity.JobTypeEvaluation)
	require.NoError(t, err)
	assert.Equal(t, entity.JobTypeEvaluation, job.Type)
	require.Len(t, job.Schedules, 1)
	assert.Equal(t, "0 6 * * 1", job.Schedules[0].CronExpression)

	_, err = repo.FindByType(ctx, entity.JobTypeWeeklyPrediction)
	assert.ErrorIs(t, err, common.ErrNotFound)

	jobs, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}

func TestTaskScheduleRepositoryFindsDueSchedules(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)

	daily := seedJob(t, db, entity.JobTypeDailyUpdate, "0 22 * * 1-5")
	weekly := seedJob(t, db, entity.JobTypeWeeklyPrediction, "0 7 * * 1")
	eval := seedJob(t, db, entity.JobTypeEvaluation, "0 6 * * 1")

	repo := NewTaskScheduleRepository(db)

	past := weekly.Schedules[0]
	past.NextExecution = sql.NullTime{Time: now.Add(-time.Hour), Valid: true}
	require.NoError(t, repo.Update(ctx, &past))

	future := eval.Schedules[0]
	future.NextExecution = sql.NullTime{Time: now.Add(time.Hour), Valid: true}
	require.NoError(t, repo.Update(ctx, &future))

	due, err := repo.FindJobsToSchedule(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, daily.Schedules[0].ID, due[0].ID)
	assert.Equal(t, past.ID, due[1].ID)
}

func TestTaskExecutionHistoryRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	job := seedJob(t, db, entity.JobTypeDailyUpdate, "0 22 * * 1-5")
	repo := NewTaskExecutionHistoryRepository(db)

	base := time.Date(2025, 1, 6, 22, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &entity.TaskExecutionHistory{
			JobID:       job.ID,
			TriggeredBy: entity.TriggeredBySchedule,
			Status:      entity.StatusCompleted,
			StartedAt:   base.AddDate(0, 0, i),
		}))
	}

	all, err := repo.FindAll(ctx, 2)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].StartedAt.After(all[1].StartedAt))

	byJob, err := repo.FindAllByJobID(ctx, job.ID, 10)
	require.NoError(t, err)
	assert.Len(t, byJob, 3)

	h := byJob[0]
	h.Status = entity.StatusFailed
	h.ErrorMessage = sql.NullString{String: "stream down", Valid: true}
	h.CompletedAt = sql.NullTime{Time: base, Valid: true}
	require.NoError(t, repo.Update(ctx, &h))

	got, err := repo.FindByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFailed, got.Status)
	assert.Equal(t, "stream down", got.ErrorMessage.String)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
