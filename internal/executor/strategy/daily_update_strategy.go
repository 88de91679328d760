package strategy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/executor/config"
	"stock-ai-predictor/internal/executor/dto"
	"stock-ai-predictor/internal/executor/repository"
	"stock-ai-predictor/internal/executor/service"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/telegram"
	"stock-ai-predictor/pkg/utils"
)

const (
	defaultPricePeriod   = "3mo"
	defaultNewsDaysBack  = 1
	defaultPostsPerDay   = 20
	socialPlatformReddit = "reddit"
)

// DailyUpdatePayload tunes the daily ingestion job.
type DailyUpdatePayload struct {
	Period            string `json:"period"`
	NewsDaysBack      int    `json:"news_days_back"`
	MaxPosts          int    `json:"max_posts"`
	IncludeMarketNews *bool  `json:"include_market_news"`
	MaxConcurrent     int    `json:"max_concurrent"`
}

func (p *DailyUpdatePayload) applyDefaults() {
	if p.Period == "" {
		p.Period = defaultPricePeriod
	}
	if p.NewsDaysBack <= 0 {
		p.NewsDaysBack = defaultNewsDaysBack
	}
	if p.MaxPosts <= 0 {
		p.MaxPosts = defaultPostsPerDay
	}
	if p.IncludeMarketNews == nil {
		p.IncludeMarketNews = utils.ToPointer(true)
	}
}

// DailyUpdateStrategy ingests prices, company news, social posts and general
// market news, scoring the sentiment of every text it stores.
type DailyUpdateStrategy struct {
	cfg            *config.Config
	logger         *logger.Logger
	instrumentRepo repository.InstrumentRepository
	priceRepo      repository.PriceHistoryRepository
	newsRepo       repository.NewsItemRepository
	postRepo       repository.SocialPostRepository
	priceSource    repository.YahooFinanceRepository
	companyNews    repository.CompanyNewsRepository
	socialSource   repository.SocialPostSourceRepository
	marketNews     repository.MarketNewsRepository
	articles       repository.ArticleRepository
	scorer         service.SentimentScorer
	telegramBot    telegram.Notifier
}

var _ service.JobExecutionStrategy = (*DailyUpdateStrategy)(nil)

// NewDailyUpdateStrategy creates a new DailyUpdateStrategy.
func NewDailyUpdateStrategy(
	cfg *config.Config,
	log *logger.Logger,
	instrumentRepo repository.InstrumentRepository,
	priceRepo repository.PriceHistoryRepository,
	newsRepo repository.NewsItemRepository,
	postRepo repository.SocialPostRepository,
	priceSource repository.YahooFinanceRepository,
	companyNews repository.CompanyNewsRepository,
	socialSource repository.SocialPostSourceRepository,
	marketNews repository.MarketNewsRepository,
	articles repository.ArticleRepository,
	scorer service.SentimentScorer,
	telegramBot telegram.Notifier,
) *DailyUpdateStrategy {
	return &DailyUpdateStrategy{
		cfg:            cfg,
		logger:         log,
		instrumentRepo: instrumentRepo,
		priceRepo:      priceRepo,
		newsRepo:       newsRepo,
		postRepo:       postRepo,
		priceSource:    priceSource,
		companyNews:    companyNews,
		socialSource:   socialSource,
		marketNews:     marketNews,
		articles:       articles,
		scorer:         scorer,
		telegramBot:    telegramBot,
	}
}

// GetType returns the job type this strategy handles.
func (s *DailyUpdateStrategy) GetType() entity.JobType {
	return entity.JobTypeDailyUpdate
}

type dailyCounters struct {
	bars, news, posts, droppedPosts, marketNews atomic.Int64
}

// Execute runs the daily ingestion over all active instruments.
func (s *DailyUpdateStrategy) Execute(ctx context.Context, job *entity.Job) (string, error) {
	var payload DailyUpdatePayload
	if err := decodePayload(job, &payload); err != nil {
		return "", err
	}
	payload.applyDefaults()

	instruments, err := s.instrumentRepo.FindActive(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get instruments", logger.ErrorField(err))
		return "", fmt.Errorf("failed to get instruments: %w", err)
	}
	s.logger.InfoContext(ctx, "Starting daily update", logger.IntField("instruments", len(instruments)))

	var counters dailyCounters
	results := forEachInstrument(ctx, s.logger, instruments, concurrency(payload.MaxConcurrent, s.cfg.Executor.MaxConcurrentInstruments),
		func(ctx context.Context, inst entity.Instrument) error {
			return s.updateInstrument(ctx, inst, payload, &counters)
		})

	summary := dto.NewJobSummary(string(s.GetType()), results)
	if *payload.IncludeMarketNews {
		if err := s.ingestMarketNews(ctx, &counters); err != nil {
			s.logger.ErrorContext(ctx, "Failed to ingest market news", logger.ErrorField(err))
			summary.Results = append(summary.Results, dto.InstrumentResult{Symbol: "market", Error: err.Error()})
			summary.Failed++
		}
	}
	summary.Details = map[string]int{
		"bars":          int(counters.bars.Load()),
		"news":          int(counters.news.Load()),
		"posts":         int(counters.posts.Load()),
		"dropped_posts": int(counters.droppedPosts.Load()),
		"market_news":   int(counters.marketNews.Load()),
	}

	s.logger.InfoContext(ctx, "Daily update complete",
		logger.IntField("succeeded", summary.Succeeded),
		logger.IntField("failed", summary.Failed))
	notify(ctx, s.logger, s.telegramBot, telegram.FormatJobSummary(summary))

	return marshalOutput(summary)
}

func (s *DailyUpdateStrategy) updateInstrument(ctx context.Context, inst entity.Instrument, payload DailyUpdatePayload, counters *dailyCounters) error {
	var errs []error

	bars, err := s.ingestPrices(ctx, inst, payload.Period)
	if err != nil {
		errs = append(errs, fmt.Errorf("prices: %w", err))
	}
	counters.bars.Add(int64(bars))

	news, err := s.ingestCompanyNews(ctx, inst, payload.NewsDaysBack)
	if err != nil {
		errs = append(errs, fmt.Errorf("news: %w", err))
	}
	counters.news.Add(int64(news))

	stats, err := s.ingestSocialPosts(ctx, inst, payload.MaxPosts)
	if err != nil {
		errs = append(errs, fmt.Errorf("social: %w", err))
	}
	counters.posts.Add(int64(stats.Posts))
	counters.droppedPosts.Add(int64(stats.DroppedPosts))

	s.logger.InfoContext(ctx, "Instrument updated",
		logger.StringField("symbol", inst.Symbol),
		logger.IntField("bars", bars),
		logger.IntField("news", news),
		logger.IntField("posts", stats.Posts),
		logger.IntField("dropped_posts", stats.DroppedPosts))

	return errors.Join(errs...)
}

func (s *DailyUpdateStrategy) ingestPrices(ctx context.Context, inst entity.Instrument, period string) (int, error) {
	data, err := s.priceSource.GetPriceBars(ctx, inst.Symbol, period)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, fmt.Errorf("no price data for %s", inst.Symbol)
	}

	bars := make([]entity.PriceBar, 0, len(data))
	for _, d := range data {
		bars = append(bars, entity.PriceBar{
			InstrumentID: inst.ID,
			Date:         utils.DateOnly(d.Date),
			Open:         d.Open,
			High:         d.High,
			Low:          d.Low,
			Close:        d.Close,
			Volume:       d.Volume,
		})
	}
	if err := s.priceRepo.Upsert(ctx, bars); err != nil {
		return 0, err
	}
	return len(bars), nil
}

func (s *DailyUpdateStrategy) ingestCompanyNews(ctx context.Context, inst entity.Instrument, daysBack int) (int, error) {
	articles, err := s.companyNews.GetCompanyNews(ctx, inst.Symbol, daysBack)
	if err != nil {
		return 0, err
	}

	stored := 0
	for _, article := range articles {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		if strings.TrimSpace(article.Content) == "" && article.URL != "" {
			content, err := s.articles.GetArticleContent(ctx, article.URL)
			if err != nil {
				s.logger.DebugContext(ctx, "Article body unavailable", logger.ErrorField(err), logger.StringField("url", article.URL))
			} else {
				article.Content = content
			}
		}

		item := s.newsItem(ctx, article, utils.ToPointer(inst.ID))
		if err := s.newsRepo.Create(ctx, item); err != nil {
			s.logger.ErrorContext(ctx, "Failed to store news item", logger.ErrorField(err), logger.StringField("symbol", inst.Symbol))
			continue
		}
		stored++
	}
	return stored, nil
}

func (s *DailyUpdateStrategy) ingestSocialPosts(ctx context.Context, inst entity.Instrument, maxPosts int) (dto.DailyUpdateStats, error) {
	var stats dto.DailyUpdateStats

	posts, err := s.socialSource.GetSocialPosts(ctx, inst.Symbol)
	if err != nil {
		return stats, err
	}
	if len(posts) > maxPosts {
		posts = posts[:maxPosts]
	}

	for _, p := range posts {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		// Known posts are dropped before scoring.
		exists, err := s.postRepo.ExistsByPostID(ctx, p.PostID)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to look up social post", logger.ErrorField(err), logger.StringField("post_id", p.PostID))
			continue
		}
		if exists {
			stats.DroppedPosts++
			continue
		}

		sentiment := s.scorer.Score(ctx, strings.TrimSpace(p.Title+" "+p.Content))
		platform := p.Platform
		if platform == "" {
			platform = socialPlatformReddit
		}
		post := &entity.SocialPost{
			InstrumentID:   inst.ID,
			Platform:       platform,
			PostID:         p.PostID,
			Title:          p.Title,
			Content:        p.Content,
			Author:         p.Author,
			Score:          p.Score,
			CommentsCount:  p.CommentsCount,
			PostedAt:       p.PostedAt,
			Sentiment:      sentiment.Score,
			SentimentLabel: sentiment.Label,
		}
		inserted, err := s.postRepo.CreateIgnoreDuplicate(ctx, post)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to store social post", logger.ErrorField(err), logger.StringField("post_id", p.PostID))
			continue
		}
		if inserted {
			stats.Posts++
		} else {
			stats.DroppedPosts++
		}
	}
	return stats, nil
}

func (s *DailyUpdateStrategy) ingestMarketNews(ctx context.Context, counters *dailyCounters) error {
	articles, err := s.marketNews.GetMarketNews(ctx)
	if err != nil {
		return err
	}
	for _, article := range articles {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		if err := s.newsRepo.Create(ctx, s.newsItem(ctx, article, nil)); err != nil {
			s.logger.ErrorContext(ctx, "Failed to store market news", logger.ErrorField(err), logger.StringField("title", article.Title))
			continue
		}
		counters.marketNews.Add(1)
	}
	return nil
}

func (s *DailyUpdateStrategy) newsItem(ctx context.Context, article dto.NewsArticle, instrumentID *uint) *entity.NewsItem {
	sentiment := s.scorer.Score(ctx, strings.TrimSpace(article.Title+" "+article.Content))
	return &entity.NewsItem{
		InstrumentID:   instrumentID,
		Title:          article.Title,
		Content:        article.Content,
		Source:         article.Source,
		URL:            article.URL,
		PublishedAt:    article.PublishedAt,
		Sentiment:      sentiment.Score,
		SentimentLabel: sentiment.Label,
	}
}
