package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/executor/dto"
	"stock-ai-predictor/pkg/common"
	"stock-ai-predictor/pkg/llm"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/utils"
)

const predictionTemperature = 0.6

// PredictionGenerator produces one weekly forecast per instrument.
type PredictionGenerator interface {
	// Generate returns common.ErrInsufficientData when the instrument has fewer
	// than 30 bars. Any error means no prediction for this instrument.
	Generate(ctx context.Context, input dto.PredictionInput, now time.Time) (*dto.PredictionCandidate, error)
}

type predictionGenerator struct {
	llmClient llm.Client
	log       *logger.Logger
}

// NewPredictionGenerator creates a new PredictionGenerator.
func NewPredictionGenerator(llmClient llm.Client, log *logger.Logger) PredictionGenerator {
	return &predictionGenerator{llmClient: llmClient, log: log}
}

type predictionResponse struct {
	Direction  *string  `json:"direction"`
	Confidence *float64 `json:"confidence"`
	Strategy   *string  `json:"strategy"`
	Reasoning  *string  `json:"reasoning"`
	KeyFactors []string `json:"key_factors"`
	RiskLevel  string   `json:"risk_level"`
}

func (g *predictionGenerator) Generate(ctx context.Context, input dto.PredictionInput, now time.Time) (*dto.PredictionCandidate, error) {
	symbol := input.Instrument.Symbol
	if len(input.Bars) < MinHistoryBars {
		return nil, fmt.Errorf("%s has %d bars: %w", symbol, len(input.Bars), common.ErrInsufficientData)
	}

	bars := make([]entity.PriceBar, len(input.Bars))
	copy(bars, input.Bars)
	SortBarsAscending(bars)
	recent := LastN(bars, TrendWindow)

	name := input.Instrument.Name
	if name == "" {
		name = symbol
	}
	posts := input.Posts
	if len(posts) > maxPromptPosts {
		posts = posts[:maxPromptPosts]
	}

	prompt := BuildPredictionPrompt(PredictionPromptData{
		Symbol:         symbol,
		Name:           name,
		ChangePercent:  PercentChange(recent[0].Close, recent[len(recent)-1].Close),
		LastClose:      recent[len(recent)-1].Close,
		News:           SummarizeNews(input.News, maxPromptNews),
		Social:         SummarizeSocial(posts),
		MarketOverview: input.MarketOverview,
		Correlations:   FilterCorrelations(input.Correlations, symbol),
	})

	raw, err := g.llmClient.Complete(ctx, predictionSystemRole, prompt, predictionTemperature)
	if err != nil {
		return nil, fmt.Errorf("generate prediction for %s: %w", symbol, err)
	}

	var resp predictionResponse
	if err := llm.Decode(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse prediction for %s: %w", symbol, err)
	}

	candidate, err := toCandidate(resp)
	if err != nil {
		return nil, fmt.Errorf("validate prediction for %s: %w", symbol, err)
	}

	today := utils.DateOnly(now)
	candidate.InstrumentID = input.Instrument.ID
	candidate.Symbol = symbol
	candidate.PredictionDate = today
	candidate.TargetDate = utils.AddDays(today, entity.PredictionHorizonDays)
	return candidate, nil
}

func toCandidate(resp predictionResponse) (*dto.PredictionCandidate, error) {
	if resp.Direction == nil {
		return nil, fmt.Errorf("missing direction: %w", common.ErrIncompleteResponse)
	}
	direction, ok := entity.ParseForecastDirection(*resp.Direction)
	if !ok {
		return nil, fmt.Errorf("direction %q: %w", *resp.Direction, common.ErrIncompleteResponse)
	}
	if resp.Confidence == nil || *resp.Confidence < 0 || *resp.Confidence > 1 {
		return nil, fmt.Errorf("missing or out of range confidence: %w", common.ErrIncompleteResponse)
	}
	if resp.Strategy == nil {
		return nil, fmt.Errorf("missing strategy: %w", common.ErrIncompleteResponse)
	}
	strategy, err := entity.ParseStrategy(*resp.Strategy)
	if err != nil {
		return nil, fmt.Errorf("strategy: %v: %w", err, common.ErrIncompleteResponse)
	}
	if resp.Reasoning == nil || strings.TrimSpace(*resp.Reasoning) == "" {
		return nil, fmt.Errorf("missing reasoning: %w", common.ErrIncompleteResponse)
	}

	keyFactors := resp.KeyFactors
	if keyFactors == nil {
		keyFactors = []string{}
	}
	return &dto.PredictionCandidate{
		Direction:  direction,
		Confidence: *resp.Confidence,
		Strategy:   strategy,
		Reasoning:  strings.TrimSpace(*resp.Reasoning),
		KeyFactors: keyFactors,
		RiskLevel:  strings.ToLower(strings.TrimSpace(resp.RiskLevel)),
	}, nil
}
