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
	defaultRedditBaseURL   = "https://www.reddit.com"
	defaultRedditUserAgent = "StockAIPredictor/1.0"
	redditContentLimit     = 500
	platformReddit         = "reddit"
)

var defaultSubreddits = []string{"wallstreetbets", "stocks", "investing", "stockmarket"}

// SocialPostSourceRepository fetches forum posts mentioning a symbol.
type SocialPostSourceRepository interface {
	GetSocialPosts(ctx context.Context, symbol string) ([]dto.SocialPostData, error)
}

type redditRepository struct {
	baseURL    string
	subreddits []string
	limit      int
	timeFilter string
	fetcher    *httpFetcher
	log        *logger.Logger
}

// NewRedditRepository creates the Reddit search collector. Requests are
// paced by reddit.request_delay (one second by default).
func NewRedditRepository(cfg *config.Config, log *logger.Logger) SocialPostSourceRepository {
	rc := cfg.Reddit
	if rc.BaseURL == "" {
		rc.BaseURL = defaultRedditBaseURL
	}
	if len(rc.Subreddits) == 0 {
		rc.Subreddits = defaultSubreddits
	}
	if rc.LimitPerSub <= 0 {
		rc.LimitPerSub = 10
	}
	if rc.TimeFilter == "" {
		rc.TimeFilter = "week"
	}
	if rc.RequestDelay == 0 {
		rc.RequestDelay = time.Second
	}
	if rc.UserAgent == "" {
		rc.UserAgent = defaultRedditUserAgent
	}
	return &redditRepository{
		baseURL:    strings.TrimRight(rc.BaseURL, "/"),
		subreddits: rc.Subreddits,
		limit:      rc.LimitPerSub,
		timeFilter: rc.TimeFilter,
		fetcher:    newHTTPFetcher(platformReddit, log, intervalLimiter(rc.RequestDelay), 10*time.Second, rc.UserAgent),
		log:        log,
	}
}

// GetSocialPosts searches every configured subreddit for symbol. A failing
// subreddit is logged and skipped; an error is returned only when all fail.
func (r *redditRepository) GetSocialPosts(ctx context.Context, symbol string) ([]dto.SocialPostData, error) {
	var (
		posts    []dto.SocialPostData
		failures int
		lastErr  error
	)
	for _, sub := range r.subreddits {
		if !utils.ShouldContinue(ctx, r.log) {
			return posts, ctx.Err()
		}
		subPosts, err := r.search(ctx, sub, symbol)
		if err != nil {
			r.log.WarnContext(ctx, "Failed to fetch subreddit posts",
				logger.StringField("subreddit", sub),
				logger.StringField("symbol", symbol),
				logger.ErrorField(err),
			)
			failures++
			lastErr = err
			continue
		}
		posts = append(posts, subPosts...)
	}
	if failures == len(r.subreddits) && lastErr != nil {
		return nil, lastErr
	}
	return posts, nil
}

func (r *redditRepository) search(ctx context.Context, subreddit, symbol string) ([]dto.SocialPostData, error) {
	params := url.Values{}
	params.Set("q", symbol)
	params.Set("restrict_sr", "1")
	params.Set("t", r.timeFilter)
	params.Set("limit", fmt.Sprintf("%d", r.limit))
	params.Set("sort", "relevance")

	endpoint := fmt.Sprintf("%s/r/%s/search.json?%s", r.baseURL, url.PathEscape(subreddit), params.Encode())
	body, err := r.fetcher.get(ctx, endpoint, "application/json")
	if err != nil {
		return nil, err
	}

	var listing dto.RedditListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("%w: reddit: decoding listing: %v", common.ErrTransportFailure, err)
	}

	posts := make([]dto.SocialPostData, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		p := child.Data
		if p.ID == "" {
			continue
		}
		post := dto.SocialPostData{
			Platform:      platformReddit,
			PostID:        p.ID,
			Title:         p.Title,
			Content:       utils.Truncate(p.Selftext, redditContentLimit),
			Author:        p.Author,
			Score:         p.Score,
			CommentsCount: p.NumComments,
			URL:           r.baseURL + p.Permalink,
		}
		if p.CreatedUTC > 0 {
			post.PostedAt = utils.ToPointer(time.Unix(int64(p.CreatedUTC), 0).UTC())
		}
		posts = append(posts, post)
	}
	return posts, nil
}
