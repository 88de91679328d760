package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/datatypes"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/executor/config"
	"stock-ai-predictor/internal/executor/dto"
	"stock-ai-predictor/internal/executor/repository"
	"stock-ai-predictor/internal/executor/service"
	"stock-ai-predictor/pkg/common"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/telegram"
)

const (
	defaultHistoryBars  = 365
	defaultLookbackDays = 7
	defaultNewsLimit    = 20
	defaultPostsLimit   = 50
)

// WeeklyPredictionPayload tunes the weekly forecast job.
type WeeklyPredictionPayload struct {
	HistoryBars   int `json:"history_bars"`
	LookbackDays  int `json:"lookback_days"`
	NewsLimit     int `json:"news_limit"`
	PostsLimit    int `json:"posts_limit"`
	MaxConcurrent int `json:"max_concurrent"`
}

func (p *WeeklyPredictionPayload) applyDefaults() {
	if p.HistoryBars <= 0 {
		p.HistoryBars = defaultHistoryBars
	}
	if p.LookbackDays <= 0 {
		p.LookbackDays = defaultLookbackDays
	}
	if p.NewsLimit <= 0 {
		p.NewsLimit = defaultNewsLimit
	}
	if p.PostsLimit <= 0 {
		p.PostsLimit = defaultPostsLimit
	}
}

// WeeklyPredictionStrategy produces one 7-day forecast per active instrument.
type WeeklyPredictionStrategy struct {
	cfg            *config.Config
	logger         *logger.Logger
	instrumentRepo repository.InstrumentRepository
	priceRepo      repository.PriceHistoryRepository
	newsRepo       repository.NewsItemRepository
	postRepo       repository.SocialPostRepository
	predictionRepo repository.PredictionRepository
	marketSource   repository.YahooFinanceRepository
	finder         service.CorrelationFinder
	generator      service.PredictionGenerator
	telegramBot    telegram.Notifier
	now            func() time.Time
}

var _ service.JobExecutionStrategy = (*WeeklyPredictionStrategy)(nil)

// NewWeeklyPredictionStrategy creates a new WeeklyPredictionStrategy.
func NewWeeklyPredictionStrategy(
	cfg *config.Config,
	log *logger.Logger,
	instrumentRepo repository.InstrumentRepository,
	priceRepo repository.PriceHistoryRepository,
	newsRepo repository.NewsItemRepository,
	postRepo repository.SocialPostRepository,
	predictionRepo repository.PredictionRepository,
	marketSource repository.YahooFinanceRepository,
	finder service.CorrelationFinder,
	generator service.PredictionGenerator,
	telegramBot telegram.Notifier,
) *WeeklyPredictionStrategy {
	return &WeeklyPredictionStrategy{
		cfg:            cfg,
		logger:         log,
		instrumentRepo: instrumentRepo,
		priceRepo:      priceRepo,
		newsRepo:       newsRepo,
		postRepo:       postRepo,
		predictionRepo: predictionRepo,
		marketSource:   marketSource,
		finder:         finder,
		generator:      generator,
		telegramBot:    telegramBot,
		now:            time.Now,
	}
}

// GetType returns the job type this strategy handles.
func (s *WeeklyPredictionStrategy) GetType() entity.JobType {
	return entity.JobTypeWeeklyPrediction
}

// Execute gathers signals, finds correlations and stores one prediction per
// instrument that has enough history.
func (s *WeeklyPredictionStrategy) Execute(ctx context.Context, job *entity.Job) (string, error) {
	var payload WeeklyPredictionPayload
	if err := decodePayload(job, &payload); err != nil {
		return "", err
	}
	payload.applyDefaults()
	now := s.now()

	instruments, err := s.instrumentRepo.FindActive(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get instruments", logger.ErrorField(err))
		return "", fmt.Errorf("failed to get instruments: %w", err)
	}
	s.logger.InfoContext(ctx, "Generating predictions", logger.IntField("instruments", len(instruments)))

	overview, err := s.marketSource.GetMarketOverview(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Market overview unavailable", logger.ErrorField(err))
		overview = dto.MarketOverview{}
	}

	histories := make([]dto.InstrumentHistory, 0, len(instruments))
	historyErrs := make(map[uint]error)
	for _, inst := range instruments {
		bars, err := s.priceRepo.FindHistory(ctx, inst.ID, payload.HistoryBars)
		if err != nil {
			historyErrs[inst.ID] = err
			continue
		}
		histories = append(histories, dto.InstrumentHistory{Instrument: inst, Bars: bars})
	}
	barsByID := make(map[uint][]entity.PriceBar, len(histories))
	for _, h := range histories {
		barsByID[h.Instrument.ID] = h.Bars
	}

	correlations := s.finder.Find(ctx, histories)
	s.logger.InfoContext(ctx, "Correlation analysis complete", logger.IntField("correlations", len(correlations)))

	var (
		abstained    atomic.Int64
		noPrediction atomic.Int64
		mu           sync.Mutex
		candidates   []dto.PredictionCandidate
	)
	since := now.AddDate(0, 0, -payload.LookbackDays)

	results := forEachInstrument(ctx, s.logger, instruments, concurrency(payload.MaxConcurrent, s.cfg.Executor.MaxConcurrentInstruments),
		func(ctx context.Context, inst entity.Instrument) error {
			if err, ok := historyErrs[inst.ID]; ok {
				return fmt.Errorf("failed to load price history: %w", err)
			}
			news, err := s.newsRepo.FindRecent(ctx, inst.ID, since, payload.NewsLimit)
			if err != nil {
				return fmt.Errorf("failed to load recent news: %w", err)
			}
			posts, err := s.postRepo.FindRecent(ctx, inst.ID, since, payload.PostsLimit)
			if err != nil {
				return fmt.Errorf("failed to load recent posts: %w", err)
			}

			candidate, err := s.generator.Generate(ctx, dto.PredictionInput{
				Instrument:     inst,
				Bars:           barsByID[inst.ID],
				News:           news,
				Posts:          posts,
				MarketOverview: overview,
				Correlations:   correlations,
			}, now)
			if errors.Is(err, common.ErrInsufficientData) {
				abstained.Add(1)
				s.logger.InfoContext(ctx, "No prediction, not enough history", logger.StringField("symbol", inst.Symbol), logger.IntField("bars", len(barsByID[inst.ID])))
				return nil
			}
			if err != nil {
				noPrediction.Add(1)
				s.logger.WarnContext(ctx, "No prediction, generator failed", logger.StringField("symbol", inst.Symbol), logger.ErrorField(err))
				return nil
			}

			if err := s.store(ctx, candidate); err != nil {
				return err
			}
			s.logger.InfoContext(ctx, "Prediction stored",
				logger.StringField("symbol", inst.Symbol),
				logger.StringField("direction", string(candidate.Direction)),
				logger.FloatField("confidence", candidate.Confidence),
				logger.StringField("strategy", string(candidate.Strategy)))

			mu.Lock()
			candidates = append(candidates, *candidate)
			mu.Unlock()
			return nil
		})

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Symbol < candidates[j].Symbol })

	summary := dto.NewJobSummary(string(s.GetType()), results)
	summary.Details = map[string]int{
		"predictions":   len(candidates),
		"abstained":     int(abstained.Load()),
		"no_prediction": int(noPrediction.Load()),
		"correlations":  len(correlations),
	}

	notify(ctx, s.logger, s.telegramBot, telegram.FormatPredictionsForTelegram(candidates)...)
	notify(ctx, s.logger, s.telegramBot, telegram.FormatJobSummary(summary))

	return marshalOutput(summary)
}

func (s *WeeklyPredictionStrategy) store(ctx context.Context, candidate *dto.PredictionCandidate) error {
	keyFactors, err := json.Marshal(candidate.KeyFactors)
	if err != nil {
		return fmt.Errorf("failed to marshal key factors: %w", err)
	}

	entity.RegisterStrategy(candidate.Strategy)
	prediction := &entity.Prediction{
		InstrumentID:   candidate.InstrumentID,
		PredictionDate: candidate.PredictionDate,
		TargetDate:     candidate.TargetDate,
		Direction:      candidate.Direction,
		Confidence:     candidate.Confidence,
		Reasoning:      candidate.Reasoning,
		Strategy:       candidate.Strategy,
		KeyFactors:     datatypes.JSON(keyFactors),
		RiskLevel:      candidate.RiskLevel,
	}
	if err := s.predictionRepo.Create(ctx, prediction); err != nil {
		return fmt.Errorf("failed to store prediction: %w", err)
	}
	return nil
}
