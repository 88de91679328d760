package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"time"

	"github.com/patrickmn/go-cache"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/executor/dto"
	"stock-ai-predictor/pkg/llm"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/utils"
)

const (
	maxSentimentChars    = 1000
	sentimentTemperature = 0.3
	sentimentDeadband    = 0.05
	defaultSentimentTTL  = 6 * time.Hour
)

// SentimentScorer scores free text. It never fails; unscorable text is neutral.
type SentimentScorer interface {
	Score(ctx context.Context, text string) dto.SentimentResult
}

type sentimentScorer struct {
	llmClient llm.Client
	log       *logger.Logger
	memo      *cache.Cache
}

// NewSentimentScorer creates a scorer that remembers results for ttl.
func NewSentimentScorer(llmClient llm.Client, log *logger.Logger, ttl time.Duration) SentimentScorer {
	if ttl <= 0 {
		ttl = defaultSentimentTTL
	}
	return &sentimentScorer{
		llmClient: llmClient,
		log:       log,
		memo:      cache.New(ttl, 2*ttl),
	}
}

func (s *sentimentScorer) Score(ctx context.Context, text string) dto.SentimentResult {
	text = utils.Truncate(text, maxSentimentChars)
	key := memoKey(text)
	if cached, ok := s.memo.Get(key); ok {
		return cached.(dto.SentimentResult)
	}

	raw, err := s.llmClient.Complete(ctx, sentimentSystemRole, BuildSentimentPrompt(text), sentimentTemperature)
	if err != nil {
		s.log.WarnContext(ctx, "Sentiment scoring unavailable, using neutral", logger.ErrorField(err))
		return dto.NeutralSentiment()
	}

	var result dto.SentimentResult
	if err := llm.Decode(raw, &result); err != nil {
		s.log.WarnContext(ctx, "Sentiment response could not be parsed, using neutral", logger.ErrorField(err))
		return dto.NeutralSentiment()
	}

	result = normalizeSentiment(result)
	s.memo.Set(key, result, cache.DefaultExpiration)
	return result
}

func normalizeSentiment(result dto.SentimentResult) dto.SentimentResult {
	if math.IsNaN(result.Score) {
		result.Score = 0
	}
	result.Score = math.Max(-1, math.Min(1, result.Score))
	if !result.Label.Valid() {
		result.Label = LabelForScore(result.Score)
	}
	if result.KeyPoints == nil {
		result.KeyPoints = []string{}
	}
	return result
}

// LabelForScore maps a score to a label using a small deadband around zero.
func LabelForScore(score float64) entity.SentimentLabel {
	switch {
	case score > sentimentDeadband:
		return entity.SentimentPositive
	case score < -sentimentDeadband:
		return entity.SentimentNegative
	default:
		return entity.SentimentNeutral
	}
}

func memoKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
