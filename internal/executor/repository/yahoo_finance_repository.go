package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"time"

	"stock-ai-predictor/internal/executor/config"
	"stock-ai-predictor/internal/executor/dto"
	"stock-ai-predictor/pkg/common"
	"stock-ai-predictor/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// MarketIndices are the indices summarised in the market overview.
var MarketIndices = []struct {
	Symbol string
	Name   string
}{
	{"^GSPC", "S&P 500"},
	{"^DJI", "Dow Jones"},
	{"^IXIC", "NASDAQ"},
	{"^VIX", "VIX"},
}

// YahooFinanceRepository fetches daily bars and index levels.
type YahooFinanceRepository interface {
	GetPriceBars(ctx context.Context, symbol, period string) ([]dto.PriceBarData, error)
	GetMarketOverview(ctx context.Context) (dto.MarketOverview, error)
}

type yahooFinanceRepository struct {
	baseURL     string
	fetcher     *httpFetcher
	log         *logger.Logger
	redisClient redis.Cmdable
	overviewTTL time.Duration
}

// NewYahooFinanceRepository creates the Yahoo chart API collector. redisClient
// may be nil, which disables market overview caching.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger, redisClient redis.Cmdable) YahooFinanceRepository {
	baseURL := cfg.YahooFinance.BaseURL
	if baseURL == "" {
		baseURL = defaultYahooBaseURL
	}
	return &yahooFinanceRepository{
		baseURL:     baseURL,
		fetcher:     newHTTPFetcher("yahoo_finance", log, perMinuteLimiter(cfg.YahooFinance.MaxRequestPerMinute), 15*time.Second, ""),
		log:         log,
		redisClient: redisClient,
		overviewTTL: cfg.Cache.MarketOverviewTTL,
	}
}

// GetPriceBars returns daily bars for period ("5d", "3mo", "1y", ...) in
// ascending date order. Days without a close are skipped.
func (r *yahooFinanceRepository) GetPriceBars(ctx context.Context, symbol, period string) ([]dto.PriceBarData, error) {
	result, err := r.chart(ctx, symbol, period)
	if err != nil {
		return nil, err
	}
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]
	exchange := time.FixedZone(result.Meta.ExchangeTimezoneName, result.Meta.GmtOffset)

	bars := make([]dto.PriceBarData, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		closePrice := at(quote.Close, i)
		if closePrice == nil {
			continue
		}
		bar := dto.PriceBarData{
			Date:  sessionDate(ts, exchange),
			Close: *closePrice,
		}
		if v := at(quote.Open, i); v != nil {
			bar.Open = *v
		}
		if v := at(quote.High, i); v != nil {
			bar.High = *v
		}
		if v := at(quote.Low, i); v != nil {
			bar.Low = *v
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// sessionDate maps a bar timestamp to its trading day on the exchange
// calendar, as midnight UTC of that date.
func sessionDate(ts int64, exchange *time.Location) time.Time {
	y, m, d := time.Unix(ts, 0).In(exchange).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GetMarketOverview returns the last close and day-over-day change of the
// major indices. Indices that fail are left out. The result is cached in
// Redis when a client is configured.
func (r *yahooFinanceRepository) GetMarketOverview(ctx context.Context) (dto.MarketOverview, error) {
	if cached, ok := r.cachedOverview(ctx); ok {
		return cached, nil
	}

	overview := dto.MarketOverview{}
	for _, idx := range MarketIndices {
		bars, err := r.GetPriceBars(ctx, idx.Symbol, "5d")
		if err != nil {
			r.log.WarnContext(ctx, "Failed to fetch market index", logger.StringField("symbol", idx.Symbol), logger.ErrorField(err))
			continue
		}
		if len(bars) == 0 {
			continue
		}
		latest := bars[len(bars)-1]
		previous := latest
		if len(bars) > 1 {
			previous = bars[len(bars)-2]
		}
		var change float64
		if previous.Close != 0 {
			change = (latest.Close - previous.Close) / previous.Close * 100
		}
		overview[idx.Name] = dto.IndexQuote{
			Symbol:        idx.Symbol,
			Price:         round2(latest.Close),
			ChangePercent: round2(change),
		}
	}

	r.storeOverview(ctx, overview)
	return overview, nil
}

func (r *yahooFinanceRepository) chart(ctx context.Context, symbol, period string) (*dto.YahooChartResult, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d",
		r.baseURL, url.PathEscape(symbol), url.QueryEscape(period))

	body, err := r.fetcher.get(ctx, endpoint, "application/json")
	if err != nil {
		return nil, err
	}

	var resp dto.YahooChartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: yahoo_finance: decoding chart: %v", common.ErrTransportFailure, err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("%w: yahoo_finance: %s", common.ErrTransportFailure, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: yahoo_finance: no data for %s", common.ErrTransportFailure, symbol)
	}
	return &resp.Chart.Result[0], nil
}

func (r *yahooFinanceRepository) cachedOverview(ctx context.Context) (dto.MarketOverview, bool) {
	if r.redisClient == nil || r.overviewTTL <= 0 {
		return nil, false
	}
	raw, err := r.redisClient.Get(ctx, common.RedisKeyMarketOverview).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.WarnContext(ctx, "Failed to read cached market overview", logger.ErrorField(err))
		}
		return nil, false
	}
	var overview dto.MarketOverview
	if err := json.Unmarshal(raw, &overview); err != nil {
		return nil, false
	}
	return overview, true
}

func (r *yahooFinanceRepository) storeOverview(ctx context.Context, overview dto.MarketOverview) {
	if r.redisClient == nil || r.overviewTTL <= 0 || len(overview) == 0 {
		return
	}
	raw, err := json.Marshal(overview)
	if err != nil {
		return
	}
	if err := r.redisClient.Set(ctx, common.RedisKeyMarketOverview, raw, r.overviewTTL).Err(); err != nil {
		r.log.WarnContext(ctx, "Failed to cache market overview", logger.ErrorField(err))
	}
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) || values[i] == nil || math.IsNaN(*values[i]) {
		return nil
	}
	return values[i]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
