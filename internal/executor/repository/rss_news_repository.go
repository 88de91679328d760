package repository

import (
	"context"
	"time"

	"stock-ai-predictor/internal/executor/config"
	"stock-ai-predictor/internal/executor/dto"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/utils"

	"github.com/mmcdole/gofeed"
)

// MarketNewsRepository fetches general market news not tied to one instrument.
type MarketNewsRepository interface {
	GetMarketNews(ctx context.Context) ([]dto.NewsArticle, error)
}

type rssNewsRepository struct {
	feeds    []string
	maxItems int
	parser   *gofeed.Parser
	log      *logger.Logger
}

// NewRSSNewsRepository creates the RSS market news collector.
func NewRSSNewsRepository(cfg *config.Config, log *logger.Logger) MarketNewsRepository {
	maxItems := cfg.RSS.MaxItemsFeed
	if maxItems <= 0 {
		maxItems = 10
	}
	parser := gofeed.NewParser()
	parser.UserAgent = browserUserAgent
	return &rssNewsRepository{
		feeds:    cfg.RSS.Feeds,
		maxItems: maxItems,
		parser:   parser,
		log:      log,
	}
}

// GetMarketNews reads every configured feed. Failing feeds are logged and skipped.
func (r *rssNewsRepository) GetMarketNews(ctx context.Context) ([]dto.NewsArticle, error) {
	var articles []dto.NewsArticle
	for _, feedURL := range r.feeds {
		if !utils.ShouldContinue(ctx, r.log) {
			return articles, ctx.Err()
		}

		feedCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		feed, err := r.parser.ParseURLWithContext(feedURL, feedCtx)
		cancel()
		if err != nil {
			r.log.WarnContext(ctx, "Failed to parse RSS feed", logger.StringField("url", feedURL), logger.ErrorField(err))
			continue
		}

		source := feed.Title
		for i, item := range feed.Items {
			if i >= r.maxItems {
				break
			}
			if item == nil || item.Title == "" {
				continue
			}
			article := dto.NewsArticle{
				Title:   utils.SafeText(item.Title),
				Content: htmlToText(item.Description),
				Source:  source,
				URL:     item.Link,
			}
			if item.PublishedParsed != nil {
				article.PublishedAt = utils.ToPointer(item.PublishedParsed.UTC())
			}
			articles = append(articles, article)
		}
	}
	return articles, nil
}
