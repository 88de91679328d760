package common

const (
	RedisStreamTaskExecution = "predictor.task.execution"

	RedisStreamGroup    = "executor-group"
	RedisStreamConsumer = "executor-consumer"

	RedisKeyMarketOverview = "predictor:market_overview"
)
