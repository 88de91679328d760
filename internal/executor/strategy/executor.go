package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/executor/dto"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/telegram"
	"stock-ai-predictor/pkg/utils"
)

type instrumentFunc func(ctx context.Context, instrument entity.Instrument) error

// forEachInstrument runs fn for every instrument with at most maxConcurrent in
// flight. A failing instrument is recorded and the rest continue. Results keep
// the order of instruments; instruments never started after ctx ends are
// reported as failed.
func forEachInstrument(ctx context.Context, log *logger.Logger, instruments []entity.Instrument, maxConcurrent int, fn instrumentFunc) []dto.InstrumentResult {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	results := make([]dto.InstrumentResult, len(instruments))
	for i, inst := range instruments {
		results[i] = dto.InstrumentResult{Symbol: inst.Symbol, Error: "not started"}
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	semaphore := make(chan struct{}, maxConcurrent)

	for i, inst := range instruments {
		if !utils.ShouldContinue(ctx, log) {
			break
		}
		semaphore <- struct{}{}
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			defer func() { <-semaphore }()

			result := dto.InstrumentResult{Symbol: inst.Symbol, IsSuccess: true}
			if err := fn(ctx, inst); err != nil {
				log.ErrorContext(ctx, "Instrument step failed", logger.ErrorField(err), logger.StringField("symbol", inst.Symbol))
				result = dto.InstrumentResult{Symbol: inst.Symbol, Error: err.Error()}
			}

			mu.Lock()
			results[i] = result
			mu.Unlock()
		})
	}
	wg.Wait()

	return results
}

func decodePayload(job *entity.Job, dst interface{}) error {
	if len(job.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(job.Payload, dst); err != nil {
		return fmt.Errorf("failed to unmarshal job payload: %w", err)
	}
	return nil
}

func marshalOutput(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job output: %w", err)
	}
	return string(raw), nil
}

func notify(ctx context.Context, log *logger.Logger, notifier telegram.Notifier, messages ...string) {
	for _, msg := range messages {
		if err := notifier.SendMessage(msg); err != nil {
			log.WarnContext(ctx, "Failed to send Telegram report", logger.ErrorField(err))
		}
	}
}

func concurrency(fromPayload, fromConfig int) int {
	if fromPayload > 0 {
		return fromPayload
	}
	if fromConfig > 0 {
		return fromConfig
	}
	return 1
}
