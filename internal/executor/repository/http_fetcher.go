package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"stock-ai-predictor/pkg/common"
	"stock-ai-predictor/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// httpFetcher performs rate-limited GET requests for the data collectors.
type httpFetcher struct {
	name           string
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	userAgent      string
}

func newHTTPFetcher(name string, log *logger.Logger, limiter *rate.Limiter, timeout time.Duration, userAgent string) *httpFetcher {
	if userAgent == "" {
		userAgent = browserUserAgent
	}
	return &httpFetcher{
		name:           name,
		log:            log,
		httpClient:     &http.Client{Timeout: timeout},
		requestLimiter: limiter,
		userAgent:      userAgent,
	}
}

// perMinuteLimiter allows n requests per minute; n <= 0 disables limiting.
func perMinuteLimiter(n int) *rate.Limiter {
	if n <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
}

// intervalLimiter allows one request per interval.
func intervalLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

func (f *httpFetcher) get(ctx context.Context, url string, accept string) ([]byte, error) {
	fields := []zap.Field{
		zap.String("provider", f.name),
		zap.String("url", url),
	}

	if err := f.requestLimiter.Wait(ctx); err != nil {
		f.log.ErrorContext(ctx, "Failed to wait for request limit", append(fields, zap.Error(err))...)
		return nil, fmt.Errorf("%w: %s: %v", common.ErrTransportFailure, f.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", f.name, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.log.ErrorContext(ctx, "Failed to send request", append(fields, zap.Error(err))...)
		return nil, fmt.Errorf("%w: %s: %v", common.ErrTransportFailure, f.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.log.ErrorContext(ctx, "Failed to read response body", append(fields, zap.Error(err))...)
		return nil, fmt.Errorf("%w: %s: %v", common.ErrTransportFailure, f.name, err)
	}

	if resp.StatusCode != http.StatusOK {
		f.log.ErrorContext(ctx, "Received non-OK response", append(fields, zap.Int("status_code", resp.StatusCode))...)
		return nil, fmt.Errorf("%w: %s: status %d", common.ErrTransportFailure, f.name, resp.StatusCode)
	}

	return body, nil
}
