package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/executor/config"
	"stock-ai-predictor/internal/executor/dto"
	"stock-ai-predictor/internal/executor/repository"
	"stock-ai-predictor/internal/executor/service"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/telegram"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
		&entity.PriceBar{},
		&entity.NewsItem{},
		&entity.SocialPost{},
		&entity.Prediction{},
		&entity.Result{},
		&entity.StrategyPerformance{},
	))
	return db
}

func seedInstrument(t *testing.T, db *gorm.DB, symbol, name string) entity.Instrument {
	t.Helper()
	inst := entity.Instrument{Symbol: symbol, Name: name, Active: true}
	require.NoError(t, db.Create(&inst).Error)
	return inst
}

// fakeLLM answers by system role so one client can serve several components.
type fakeLLM struct {
	mu        sync.Mutex
	responses map[string]string
	calls     map[string]int
}

func newFakeLLM() *fakeLLM {
	return &fakeLLM{responses: map[string]string{}, calls: map[string]int{}}
}

func (f *fakeLLM) on(roleFragment, response string) *fakeLLM {
	f.responses[roleFragment] = response
	return f
}

func (f *fakeLLM) Complete(ctx context.Context, systemRole, userPrompt string, temperature float64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for fragment, resp := range f.responses {
		if strings.Contains(systemRole, fragment) {
			f.calls[fragment]++
			return resp, nil
		}
	}
	return "", errors.New("unexpected call")
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) SendMessage(text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
	return nil
}

var _ telegram.Notifier = (*recordingNotifier)(nil)

type fakePriceSource struct {
	bars     map[string][]dto.PriceBarData
	overview dto.MarketOverview
}

func (f *fakePriceSource) GetPriceBars(ctx context.Context, symbol, period string) ([]dto.PriceBarData, error) {
	bars, ok := f.bars[symbol]
	if !ok {
		return nil, errors.New("chart request failed")
	}
	return bars, nil
}

func (f *fakePriceSource) GetMarketOverview(ctx context.Context) (dto.MarketOverview, error) {
	if f.overview == nil {
		return nil, errors.New("overview unavailable")
	}
	return f.overview, nil
}

type fakeCompanyNews struct{ articles map[string][]dto.NewsArticle }

func (f *fakeCompanyNews) GetCompanyNews(ctx context.Context, symbol string, daysBack int) ([]dto.NewsArticle, error) {
	return f.articles[symbol], nil
}

type fakeSocialSource struct{ posts map[string][]dto.SocialPostData }

func (f *fakeSocialSource) GetSocialPosts(ctx context.Context, symbol string) ([]dto.SocialPostData, error) {
	return f.posts[symbol], nil
}

type fakeMarketNews struct{ articles []dto.NewsArticle }

func (f *fakeMarketNews) GetMarketNews(ctx context.Context) ([]dto.NewsArticle, error) {
	return f.articles, nil
}

type fakeArticles struct{ body string }

func (f *fakeArticles) GetArticleContent(ctx context.Context, url string) (string, error) {
	return f.body, nil
}

const sentimentJSON = `{"sentiment_score": 0.4, "sentiment_label": "positive", "key_points": ["growth"]}`

func TestDailyUpdateIngestsAndCountsFailures(t *testing.T) {
	db := newTestDB(t)
	aapl := seedInstrument(t, db, "AAPL", "Apple Inc.")
	seedInstrument(t, db, "MSFT", "Microsoft")

	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	prices := &fakePriceSource{bars: map[string][]dto.PriceBarData{
		"AAPL": {
			{Date: day, Open: 1, High: 2, Low: 1, Close: 2, Volume: 10},
			{Date: day.AddDate(0, 0, 1), Open: 2, High: 3, Low: 2, Close: 3, Volume: 20},
		},
	}}
	posts := []dto.SocialPostData{
		{PostID: "p1", Title: "AAPL to the moon", Score: 120},
		{PostID: "p1", Title: "AAPL to the moon (crosspost)", Score: 120},
		{PostID: "p2", Title: "AAPL puts", Score: 5},
	}
	llmClient := newFakeLLM().on("sentiment", sentimentJSON)
	notifier := &recordingNotifier{}

	strategy := NewDailyUpdateStrategy(
		&config.Config{},
		logger.NewNop(),
		repository.NewInstrumentRepository(db),
		repository.NewPriceHistoryRepository(db),
		repository.NewNewsItemRepository(db),
		repository.NewSocialPostRepository(db),
		prices,
		&fakeCompanyNews{articles: map[string][]dto.NewsArticle{"AAPL": {{Title: "Apple beats", URL: "https://example.com/a", Source: "Finnhub"}}}},
		&fakeSocialSource{posts: map[string][]dto.SocialPostData{"AAPL": posts}},
		&fakeMarketNews{articles: []dto.NewsArticle{{Title: "Stocks rally", Source: "Reuters"}}},
		&fakeArticles{body: "Full article body"},
		service.NewSentimentScorer(llmClient, logger.NewNop(), time.Minute),
		notifier,
	)

	output, err := strategy.Execute(context.Background(), &entity.Job{Type: entity.JobTypeDailyUpdate})
	require.NoError(t, err)

	var summary dto.JobSummary
	require.NoError(t, json.Unmarshal([]byte(output), &summary))
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 2, summary.Details["bars"])
	assert.Equal(t, 1, summary.Details["news"])
	assert.Equal(t, 2, summary.Details["posts"])
	assert.Equal(t, 1, summary.Details["dropped_posts"])
	assert.Equal(t, 1, summary.Details["market_news"])

	var news []entity.NewsItem
	require.NoError(t, db.Order("id").Find(&news).Error)
	require.Len(t, news, 2)
	assert.Equal(t, "Full article body", news[0].Content)
	assert.Equal(t, aapl.ID, *news[0].InstrumentID)
	assert.Equal(t, entity.SentimentPositive, news[0].SentimentLabel)
	assert.Nil(t, news[1].InstrumentID)

	var stored entity.SocialPost
	require.NoError(t, db.Where("post_id = ?", "p1").First(&stored).Error)
	assert.Equal(t, "AAPL to the moon", stored.Title)
	assert.Equal(t, "reddit", stored.Platform)

	assert.Len(t, notifier.messages, 1)
}

func TestDailyUpdateSkipsScoringOfStoredPosts(t *testing.T) {
	db := newTestDB(t)
	aapl := seedInstrument(t, db, "AAPL", "Apple Inc.")
	postRepo := repository.NewSocialPostRepository(db)
	_, err := postRepo.CreateIgnoreDuplicate(context.Background(), &entity.SocialPost{
		InstrumentID: aapl.ID, Platform: "reddit", PostID: "old", Title: "seen yesterday",
	})
	require.NoError(t, err)

	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	llmClient := newFakeLLM().on("sentiment", sentimentJSON)
	strategy := NewDailyUpdateStrategy(
		&config.Config{},
		logger.NewNop(),
		repository.NewInstrumentRepository(db),
		repository.NewPriceHistoryRepository(db),
		repository.NewNewsItemRepository(db),
		postRepo,
		&fakePriceSource{bars: map[string][]dto.PriceBarData{"AAPL": {{Date: day, Close: 2}}}},
		&fakeCompanyNews{},
		&fakeSocialSource{posts: map[string][]dto.SocialPostData{"AAPL": {
			{PostID: "old", Title: "seen yesterday"},
			{PostID: "new", Title: "fresh take"},
		}}},
		&fakeMarketNews{},
		&fakeArticles{},
		service.NewSentimentScorer(llmClient, logger.NewNop(), time.Minute),
		telegram.NewNopNotifier(),
	)

	output, err := strategy.Execute(context.Background(), &entity.Job{Type: entity.JobTypeDailyUpdate})
	require.NoError(t, err)

	var summary dto.JobSummary
	require.NoError(t, json.Unmarshal([]byte(output), &summary))
	assert.Equal(t, 1, summary.Details["posts"])
	assert.Equal(t, 1, summary.Details["dropped_posts"])
	assert.Equal(t, 1, llmClient.calls["sentiment"])
}

func TestWeeklyPredictionStoresCandidate(t *testing.T) {
	db := newTestDB(t)
	aapl := seedInstrument(t, db, "AAPL", "Apple Inc.")

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var bars []entity.PriceBar
	for i := 0; i < 35; i++ {
		bars = append(bars, entity.PriceBar{
			InstrumentID: aapl.ID,
			Date:         start.AddDate(0, 0, i),
			Close:        150 + 15*float64(i)/34,
		})
	}
	priceRepo := repository.NewPriceHistoryRepository(db)
	require.NoError(t, priceRepo.Upsert(context.Background(), bars))

	llmClient := newFakeLLM().on("stock analyst", `{"direction":"up","confidence":0.7,"strategy":"momentum","reasoning":"..."}`)
	notifier := &recordingNotifier{}

	strategy := NewWeeklyPredictionStrategy(
		&config.Config{},
		logger.NewNop(),
		repository.NewInstrumentRepository(db),
		priceRepo,
		repository.NewNewsItemRepository(db),
		repository.NewSocialPostRepository(db),
		repository.NewPredictionRepository(db),
		&fakePriceSource{},
		service.NewCorrelationFinder(llmClient, logger.NewNop()),
		service.NewPredictionGenerator(llmClient, logger.NewNop()),
		notifier,
	)
	now := time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC)
	strategy.now = func() time.Time { return now }

	output, err := strategy.Execute(context.Background(), &entity.Job{Type: entity.JobTypeWeeklyPrediction, Payload: []byte(`{"history_bars": 365}`)})
	require.NoError(t, err)

	var summary dto.JobSummary
	require.NoError(t, json.Unmarshal([]byte(output), &summary))
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Details["predictions"])

	var predictions []entity.Prediction
	require.NoError(t, db.Find(&predictions).Error)
	require.Len(t, predictions, 1)
	p := predictions[0]
	assert.Equal(t, entity.DirectionUp, p.Direction)
	assert.Equal(t, 0.7, p.Confidence)
	assert.Equal(t, entity.StrategyMomentum, p.Strategy)
	assert.Equal(t, p.PredictionDate.AddDate(0, 0, 7).Format("2006-01-02"), p.TargetDate.Format("2006-01-02"))
	assert.Equal(t, "2025-02-10", p.PredictionDate.Format("2006-01-02"))

	assert.Equal(t, 0, llmClient.calls["market analysis"])
	assert.Len(t, notifier.messages, 2)
}

func TestWeeklyPredictionAbstainsOnShortHistory(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstrument(t, db, "NEWCO", "New Co")
	priceRepo := repository.NewPriceHistoryRepository(db)
	require.NoError(t, priceRepo.Upsert(context.Background(), []entity.PriceBar{
		{InstrumentID: inst.ID, Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Close: 10},
	}))
	llmClient := newFakeLLM()

	strategy := NewWeeklyPredictionStrategy(
		&config.Config{},
		logger.NewNop(),
		repository.NewInstrumentRepository(db),
		priceRepo,
		repository.NewNewsItemRepository(db),
		repository.NewSocialPostRepository(db),
		repository.NewPredictionRepository(db),
		&fakePriceSource{},
		service.NewCorrelationFinder(llmClient, logger.NewNop()),
		service.NewPredictionGenerator(llmClient, logger.NewNop()),
		telegram.NewNopNotifier(),
	)

	output, err := strategy.Execute(context.Background(), &entity.Job{Type: entity.JobTypeWeeklyPrediction})
	require.NoError(t, err)

	var summary dto.JobSummary
	require.NoError(t, json.Unmarshal([]byte(output), &summary))
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Details["abstained"])
	assert.Equal(t, 0, summary.Details["predictions"])
}

func TestWeeklyPredictionCountsUnparseableAnswerAsNoPrediction(t *testing.T) {
	db := newTestDB(t)
	inst := seedInstrument(t, db, "AAPL", "Apple Inc.")
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var bars []entity.PriceBar
	for i := 0; i < 35; i++ {
		bars = append(bars, entity.PriceBar{InstrumentID: inst.ID, Date: start.AddDate(0, 0, i), Close: 100 + float64(i)})
	}
	priceRepo := repository.NewPriceHistoryRepository(db)
	require.NoError(t, priceRepo.Upsert(context.Background(), bars))
	llmClient := newFakeLLM().on("stock analyst", "not json at all")

	strategy := NewWeeklyPredictionStrategy(
		&config.Config{},
		logger.NewNop(),
		repository.NewInstrumentRepository(db),
		priceRepo,
		repository.NewNewsItemRepository(db),
		repository.NewSocialPostRepository(db),
		repository.NewPredictionRepository(db),
		&fakePriceSource{},
		service.NewCorrelationFinder(llmClient, logger.NewNop()),
		service.NewPredictionGenerator(llmClient, logger.NewNop()),
		telegram.NewNopNotifier(),
	)

	output, err := strategy.Execute(context.Background(), &entity.Job{Type: entity.JobTypeWeeklyPrediction})
	require.NoError(t, err)

	var summary dto.JobSummary
	require.NoError(t, json.Unmarshal([]byte(output), &summary))
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 1, summary.Details["no_prediction"])
	assert.Equal(t, 0, summary.Details["predictions"])
	assert.Equal(t, 1, llmClient.calls["stock analyst"])

	var count int64
	require.NoError(t, db.Model(&entity.Prediction{}).Count(&count).Error)
	assert.Zero(t, count)
}

type stubEvaluator struct {
	report dto.EvaluationReport
	err    error
}

func (s *stubEvaluator) Run(ctx context.Context, now time.Time) (dto.EvaluationReport, error) {
	return s.report, s.err
}

func TestEvaluationStrategy(t *testing.T) {
	notifier := &recordingNotifier{}
	report := dto.EvaluationReport{Due: 2, Evaluated: 2, WeekStart: "2025-01-05", Strategies: map[entity.Strategy]dto.StrategyTally{
		entity.StrategyNewsImpact: {Total: 2, Correct: 1},
	}, OverallAccuracy: 50}

	strategy := NewEvaluationStrategy(logger.NewNop(), &stubEvaluator{report: report}, notifier)
	output, err := strategy.Execute(context.Background(), &entity.Job{})

	require.NoError(t, err)
	assert.Contains(t, output, `"evaluated":2`)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "`news_impact`: 1/2 (50.0%)")

	failing := NewEvaluationStrategy(logger.NewNop(), &stubEvaluator{err: errors.New("db down")}, notifier)
	_, err = failing.Execute(context.Background(), &entity.Job{})
	assert.Error(t, err)
}

func TestForEachInstrumentKeepsOrderAndIsolatesFailures(t *testing.T) {
	instruments := []entity.Instrument{{Symbol: "A"}, {Symbol: "B"}, {Symbol: "C"}}

	results := forEachInstrument(context.Background(), logger.NewNop(), instruments, 2, func(ctx context.Context, inst entity.Instrument) error {
		if inst.Symbol == "B" {
			return errors.New("boom")
		}
		return nil
	})

	require.Len(t, results, 3)
	assert.True(t, results[0].IsSuccess)
	assert.False(t, results[1].IsSuccess)
	assert.Equal(t, "boom", results[1].Error)
	assert.Equal(t, "C", results[2].Symbol)
	assert.True(t, results[2].IsSuccess)
}
