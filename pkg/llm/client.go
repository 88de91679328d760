// Package llm is the single gateway to the hosted reasoning service.
//
// Callers hand it a system role, a user prompt and a sampling temperature and
// get back raw text. Parsing that text is done with ExtractPayload and Decode.
// Clients never retry; pacing against provider quotas is done inside the
// client by blocking, which only adds latency.
package llm

import (
	"context"
	"fmt"
	"time"

	"stock-ai-predictor/pkg/config"
	"stock-ai-predictor/pkg/logger"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Client sends one completion request to the reasoning service.
type Client interface {
	Complete(ctx context.Context, systemRole, userPrompt string, temperature float64) (string, error)
}

// New builds the Client selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLM, log *logger.Logger) (Client, error) {
	switch cfg.Provider {
	case ProviderGemini, "":
		genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
		}
		return NewGeminiClient(cfg, log, genAiClient), nil
	case ProviderOpenAI:
		return NewOpenAIClient(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func newRequestLimiter(maxPerMinute int) *rate.Limiter {
	if maxPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(maxPerMinute)), 1)
}

func requestTimeout(cfg config.LLM) time.Duration {
	if cfg.TimeoutSeconds <= 0 {
		return 90 * time.Second
	}
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}

// estimateTokens is a rough chars/4 estimate used when the provider cannot count.
func estimateTokens(texts ...string) int {
	n := 0
	for _, t := range texts {
		n += len(t)
	}
	return n/4 + 1
}
