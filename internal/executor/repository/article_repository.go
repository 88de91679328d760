package repository

import (
	"context"
	"fmt"
	"time"

	"stock-ai-predictor/pkg/logger"

	"github.com/mauidude/go-readability"
)

// ArticleRepository downloads an article page and extracts its body text.
type ArticleRepository interface {
	GetArticleContent(ctx context.Context, url string) (string, error)
}

type articleRepository struct {
	fetcher *httpFetcher
	log     *logger.Logger
}

// NewArticleRepository creates the article text extractor.
func NewArticleRepository(log *logger.Logger) ArticleRepository {
	return &articleRepository{
		fetcher: newHTTPFetcher("article", log, perMinuteLimiter(60), 20*time.Second, ""),
		log:     log,
	}
}

func (r *articleRepository) GetArticleContent(ctx context.Context, url string) (string, error) {
	body, err := r.fetcher.get(ctx, url, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return "", err
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		r.log.WarnContext(ctx, "Failed to parse article", logger.StringField("url", url), logger.ErrorField(err))
		return "", fmt.Errorf("failed to parse article: %w", err)
	}

	return htmlToText(doc.Content()), nil
}
