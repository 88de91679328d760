package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"stock-ai-predictor/internal/executor/config"
	"stock-ai-predictor/internal/executor/dto"
	"stock-ai-predictor/pkg/common"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/utils"
)

const (
	defaultFinnhubBaseURL = "https://finnhub.io/api/v1"
	maxCompanyNews        = 20
)

// CompanyNewsRepository fetches news about one company.
type CompanyNewsRepository interface {
	GetCompanyNews(ctx context.Context, symbol string, daysBack int) ([]dto.NewsArticle, error)
}

type finnhubRepository struct {
	baseURL string
	apiKey  string
	fetcher *httpFetcher
	log     *logger.Logger
	now     func() time.Time
}

// NewFinnhubRepository creates the Finnhub company-news collector.
func NewFinnhubRepository(cfg *config.Config, log *logger.Logger) CompanyNewsRepository {
	baseURL := cfg.Finnhub.BaseURL
	if baseURL == "" {
		baseURL = defaultFinnhubBaseURL
	}
	return &finnhubRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.Finnhub.APIKey,
		fetcher: newHTTPFetcher("finnhub", log, perMinuteLimiter(cfg.Finnhub.MaxRequestPerMinute), 10*time.Second, ""),
		log:     log,
		now:     time.Now,
	}
}

// GetCompanyNews returns up to 20 articles published in the last daysBack
// days. Without an API key it returns nothing.
func (r *finnhubRepository) GetCompanyNews(ctx context.Context, symbol string, daysBack int) ([]dto.NewsArticle, error) {
	if r.apiKey == "" {
		r.log.DebugContext(ctx, "Finnhub API key not configured, skipping company news", logger.StringField("symbol", symbol))
		return nil, nil
	}

	now := r.now().UTC()
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", utils.FormatDate(now.AddDate(0, 0, -daysBack)))
	params.Set("to", utils.FormatDate(now))
	params.Set("token", r.apiKey)

	body, err := r.fetcher.get(ctx, r.baseURL+"/company-news?"+params.Encode(), "application/json")
	if err != nil {
		return nil, err
	}

	var items []dto.FinnhubNewsItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: finnhub: decoding news: %v", common.ErrTransportFailure, err)
	}

	if len(items) > maxCompanyNews {
		items = items[:maxCompanyNews]
	}

	articles := make([]dto.NewsArticle, 0, len(items))
	for _, item := range items {
		source := item.Source
		if source == "" {
			source = "Finnhub"
		}
		article := dto.NewsArticle{
			Title:   item.Headline,
			Content: item.Summary,
			Source:  source,
			URL:     item.URL,
		}
		if item.Datetime > 0 {
			article.PublishedAt = utils.ToPointer(time.Unix(item.Datetime, 0).UTC())
		}
		articles = append(articles, article)
	}
	return articles, nil
}
