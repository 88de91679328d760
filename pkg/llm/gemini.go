package llm

import (
	"context"
	"fmt"
	"strings"

	"stock-ai-predictor/pkg/common"
	"stock-ai-predictor/pkg/config"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/ratelimit"
	"stock-ai-predictor/pkg/trace"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// GeminiClient talks to Google Gemini through the genai SDK.
type GeminiClient struct {
	cfg            config.LLM
	logger         *logger.Logger
	genAiClient    *genai.Client
	requestLimiter *rate.Limiter
	tokenLimiter   *ratelimit.TokenLimiter
}

func NewGeminiClient(cfg config.LLM, log *logger.Logger, genAiClient *genai.Client) *GeminiClient {
	return &GeminiClient{
		cfg:            cfg,
		logger:         log,
		genAiClient:    genAiClient,
		requestLimiter: newRequestLimiter(cfg.MaxRequestPerMinute),
		tokenLimiter:   ratelimit.NewTokenLimiter(cfg.MaxTokenPerMinute),
	}
}

func (c *GeminiClient) Complete(ctx context.Context, systemRole, userPrompt string, temperature float64) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.gemini.complete",
		attribute.String("llm.model", c.cfg.Model),
		attribute.Float64("llm.temperature", temperature),
	)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, requestTimeout(c.cfg))
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(userPrompt, genai.RoleUser),
	}

	tokens := estimateTokens(systemRole, userPrompt)
	tokenResp, err := c.genAiClient.Models.CountTokens(ctx, c.cfg.Model, contents, nil)
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to count Gemini tokens, using estimate", logger.ErrorField(err), logger.IntField("estimate", tokens))
	} else {
		tokens = int(tokenResp.TotalTokens)
	}

	c.logger.DebugContext(ctx, "Gemini token count",
		logger.IntField("total_tokens", tokens),
		logger.IntField("remaining", c.tokenLimiter.GetRemaining()),
	)

	if err := c.tokenLimiter.Wait(ctx, tokens); err != nil {
		trace.RecordError(span, err)
		return "", fmt.Errorf("%w: waiting for token budget: %v", common.ErrReasoningUnavailable, err)
	}
	if err := c.requestLimiter.Wait(ctx); err != nil {
		trace.RecordError(span, err)
		return "", fmt.Errorf("%w: waiting for request budget: %v", common.ErrReasoningUnavailable, err)
	}

	resp, err := c.genAiClient.Models.GenerateContent(ctx, c.cfg.Model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemRole, genai.RoleUser),
		Temperature:       genai.Ptr(float32(temperature)),
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "Gemini request failed", logger.ErrorField(err))
		trace.RecordError(span, err)
		return "", fmt.Errorf("%w: %v", common.ErrReasoningUnavailable, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		err := fmt.Errorf("%w: empty response", common.ErrReasoningUnavailable)
		trace.RecordError(span, err)
		return "", err
	}

	span.SetAttributes(attribute.Int("llm.response_chars", len(text)))
	return text, nil
}
