package consumer

import (
	"context"
	"sync"
	"time"

	"stock-ai-predictor/internal/executor/config"
	"stock-ai-predictor/internal/executor/service"
	"stock-ai-predictor/pkg/common"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/utils"
)

const defaultReadTimeout = 5 * time.Second

// RedisConsumer manages the consumption of tasks from a Redis stream.
type RedisConsumer struct {
	cfg             *config.Config
	executorService service.ExecutorService
	logger          *logger.Logger
	stopChan        chan struct{}
	stopOnce        sync.Once
	wg              sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(cfg *config.Config, executorService service.ExecutorService, log *logger.Logger) *RedisConsumer {
	return &RedisConsumer{
		cfg:             cfg,
		executorService: executorService,
		logger:          log,
		stopChan:        make(chan struct{}),
	}
}

// Start begins the consumer's task processing loop.
func (c *RedisConsumer) Start(ctx context.Context) {
	c.logger.Info("Redis consumer started")
	timeout := c.cfg.Executor.RedisStreamTaskExecutionTimeout
	if timeout <= 0 {
		timeout = defaultReadTimeout
	}
	c.RegisterStreamHandler(ctx, c.executorService.ProcessTask, common.RedisStreamTaskExecution, timeout)
}

// RegisterStreamHandler calls fn in a loop until ctx ends or Stop is called.
func (c *RedisConsumer) RegisterStreamHandler(ctx context.Context, fn func(ctx context.Context), streamName string, timeout time.Duration) {
	c.logger.Info("Registering stream handler", logger.Field("stream", streamName))
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Redis consumer stopping due to context cancellation")
				return
			case <-c.stopChan:
				c.logger.Info("Redis consumer stopping")
				return
			default:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			}
		}
	})
}

// Stop gracefully shuts down the consumer.
func (c *RedisConsumer) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}
