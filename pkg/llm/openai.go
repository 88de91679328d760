package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"stock-ai-predictor/pkg/common"
	"stock-ai-predictor/pkg/config"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/ratelimit"
	"stock-ai-predictor/pkg/trace"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

const defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// OpenAIClient calls an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	cfg            config.LLM
	logger         *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	tokenLimiter   *ratelimit.TokenLimiter
}

func NewOpenAIClient(cfg config.LLM, log *logger.Logger) *OpenAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenAIURL
	}
	return &OpenAIClient{
		cfg:            cfg,
		logger:         log,
		httpClient:     &http.Client{Timeout: requestTimeout(cfg)},
		requestLimiter: newRequestLimiter(cfg.MaxRequestPerMinute),
		tokenLimiter:   ratelimit.NewTokenLimiter(cfg.MaxTokenPerMinute),
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, systemRole, userPrompt string, temperature float64) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.openai.complete",
		attribute.String("llm.model", c.cfg.Model),
		attribute.Float64("llm.temperature", temperature),
	)
	defer span.End()

	if err := c.tokenLimiter.Wait(ctx, estimateTokens(systemRole, userPrompt)); err != nil {
		trace.RecordError(span, err)
		return "", fmt.Errorf("%w: waiting for token budget: %v", common.ErrReasoningUnavailable, err)
	}
	if err := c.requestLimiter.Wait(ctx); err != nil {
		trace.RecordError(span, err)
		return "", fmt.Errorf("%w: waiting for request budget: %v", common.ErrReasoningUnavailable, err)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemRole},
			{Role: "user", Content: userPrompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to send request to OpenAI API", logger.ErrorField(err))
		trace.RecordError(span, err)
		return "", fmt.Errorf("%w: %v", common.ErrReasoningUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		trace.RecordError(span, err)
		return "", fmt.Errorf("%w: reading response: %v", common.ErrReasoningUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.ErrorContext(ctx, "Received non-OK response from OpenAI API",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(respBody)),
		)
		err := fmt.Errorf("%w: status %d", common.ErrReasoningUnavailable, resp.StatusCode)
		trace.RecordError(span, err)
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		trace.RecordError(span, err)
		return "", fmt.Errorf("%w: decoding envelope: %v", common.ErrReasoningUnavailable, err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		err := fmt.Errorf("%w: empty response", common.ErrReasoningUnavailable)
		trace.RecordError(span, err)
		return "", err
	}

	span.SetAttributes(attribute.Int("llm.total_tokens", parsed.Usage.TotalTokens))
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
