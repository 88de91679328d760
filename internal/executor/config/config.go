package config

import (
	"time"

	"stock-ai-predictor/pkg/config"
)

// Executor holds executor-specific configuration.
type Executor struct {
	RedisStreamTaskExecutionTimeout time.Duration `mapstructure:"redis_stream_task_execution_timeout"`
	// MaxConcurrentInstruments bounds per-instrument work inside one job.
	MaxConcurrentInstruments int `mapstructure:"max_concurrent_instruments"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// YahooFinance holds the configuration for the Yahoo Finance chart API.
type YahooFinance struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Finnhub holds the configuration for the Finnhub company-news API.
type Finnhub struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Reddit holds the configuration for the Reddit search collector.
type Reddit struct {
	BaseURL      string        `mapstructure:"base_url"`
	UserAgent    string        `mapstructure:"user_agent"`
	Subreddits   []string      `mapstructure:"subreddits"`
	LimitPerSub  int           `mapstructure:"limit_per_subreddit"`
	TimeFilter   string        `mapstructure:"time_filter"`
	RequestDelay time.Duration `mapstructure:"request_delay"`
}

// RSS holds the general market news feeds.
type RSS struct {
	Feeds        []string `mapstructure:"feeds"`
	MaxItemsFeed int      `mapstructure:"max_items_per_feed"`
}

// Cache holds cache TTLs.
type Cache struct {
	MarketOverviewTTL time.Duration `mapstructure:"market_overview_ttl"`
	SentimentTTL      time.Duration `mapstructure:"sentiment_ttl"`
}

// Config holds the full configuration for the executor service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	Trace        config.Trace    `mapstructure:"trace"`
	LLM          config.LLM      `mapstructure:"llm"`
	Executor     Executor        `mapstructure:"executor"`
	Telegram     Telegram        `mapstructure:"telegram"`
	YahooFinance YahooFinance    `mapstructure:"yahoo_finance"`
	Finnhub      Finnhub         `mapstructure:"finnhub"`
	Reddit       Reddit          `mapstructure:"reddit"`
	RSS          RSS             `mapstructure:"rss"`
	Cache        Cache           `mapstructure:"cache"`
}

// Load loads the executor configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
