package service

import (
	"context"

	"stock-ai-predictor/internal/executor/dto"
	"stock-ai-predictor/pkg/llm"
	"stock-ai-predictor/pkg/logger"
)

const correlationTemperature = 0.5

// CorrelationFinder asks the reasoning service for relationships between
// instruments. An empty result is a valid outcome.
type CorrelationFinder interface {
	Find(ctx context.Context, histories []dto.InstrumentHistory) []dto.Correlation
}

type correlationFinder struct {
	llmClient llm.Client
	log       *logger.Logger
}

// NewCorrelationFinder creates a new CorrelationFinder.
func NewCorrelationFinder(llmClient llm.Client, log *logger.Logger) CorrelationFinder {
	return &correlationFinder{llmClient: llmClient, log: log}
}

func (f *correlationFinder) Find(ctx context.Context, histories []dto.InstrumentHistory) []dto.Correlation {
	summaries := TrendSummaries(histories)
	if len(summaries) < 2 {
		f.log.InfoContext(ctx, "Not enough instruments with history for correlation analysis", logger.IntField("qualifying", len(summaries)))
		return []dto.Correlation{}
	}

	raw, err := f.llmClient.Complete(ctx, correlationSystemRole, BuildCorrelationPrompt(summaries), correlationTemperature)
	if err != nil {
		f.log.WarnContext(ctx, "Correlation analysis unavailable", logger.ErrorField(err))
		return []dto.Correlation{}
	}

	var parsed []dto.Correlation
	if err := llm.Decode(raw, &parsed); err != nil {
		f.log.WarnContext(ctx, "Correlation response could not be parsed", logger.ErrorField(err))
		return []dto.Correlation{}
	}

	out := make([]dto.Correlation, 0, len(parsed))
	for _, c := range parsed {
		if !validCorrelation(c) {
			f.log.DebugContext(ctx, "Dropping malformed correlation",
				logger.StringField("instrument1", c.Instrument1),
				logger.StringField("instrument2", c.Instrument2))
			continue
		}
		out = append(out, c)
	}
	return out
}

// TrendSummaries summarises the first ten instruments with at least 30 bars.
func TrendSummaries(histories []dto.InstrumentHistory) []dto.TrendSummary {
	summaries := make([]dto.TrendSummary, 0, maxCorrelationSymbols)
	for _, h := range histories {
		if len(h.Bars) < MinHistoryBars {
			continue
		}
		summaries = append(summaries, SummarizeTrend(h.Instrument.Symbol, h.Bars, TrendWindow))
		if len(summaries) == maxCorrelationSymbols {
			break
		}
	}
	return summaries
}

func validCorrelation(c dto.Correlation) bool {
	if c.Instrument1 == "" || c.Instrument2 == "" {
		return false
	}
	switch c.Relationship {
	case dto.RelationshipInverse, dto.RelationshipPositive:
	default:
		return false
	}
	switch c.Strength {
	case dto.StrengthStrong, dto.StrengthModerate, dto.StrengthWeak:
		return true
	}
	return false
}
