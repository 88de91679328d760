package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-ai-predictor/internal/entity"
	"stock-ai-predictor/internal/executor/config"
	"stock-ai-predictor/internal/executor/delivery/consumer"
	"stock-ai-predictor/internal/executor/repository"
	"stock-ai-predictor/internal/executor/service"
	"stock-ai-predictor/internal/executor/strategy"
	"stock-ai-predictor/pkg/common"
	"stock-ai-predictor/pkg/llm"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/postgres"
	"stock-ai-predictor/pkg/redis"
	"stock-ai-predictor/pkg/telegram"
	"stock-ai-predictor/pkg/trace"

	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the execution service",
	Run:   runServe,
}

var runCmd = &cobra.Command{
	Use:       "run <daily_update|weekly_prediction|evaluation>",
	Short:     "Runs one batch job synchronously and exits",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(entity.JobTypeDailyUpdate), string(entity.JobTypeWeeklyPrediction), string(entity.JobTypeEvaluation)},
	RunE:      runJob,
}

// app holds the wired executor and the resources to release on exit.
type app struct {
	cfg         *config.Config
	logger      *logger.Logger
	executorSvc service.ExecutorService
	closers     []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func bootstrap(ctx context.Context) *app {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	a := &app{cfg: cfg, logger: appLogger}
	a.closers = append(a.closers, func() { _ = appLogger.Sync() })

	appLogger.Info("Starting Execution Service", logger.StringField("name", cfg.App.Name), logger.StringField("version", cfg.App.Version))

	if err := trace.Init(cfg.Trace, cfg.App.Version); err != nil {
		appLogger.Fatal("Failed to initialize tracing", logger.ErrorField(err))
	}
	a.closers = append(a.closers, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = trace.Shutdown(shutdownCtx)
	})

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		a.closers = append(a.closers, func() { _ = sqlDB.Close() })
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	a.closers = append(a.closers, func() { _ = redisClient.Close() })

	// Reasoning service
	llmClient, err := llm.New(ctx, cfg.LLM, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize reasoning client", logger.ErrorField(err))
	}

	// Notifications are optional.
	telegramNotifier := telegram.NewNopNotifier()
	if cfg.Telegram.Enabled {
		telegramNotifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize repositories
	jobRepo := repository.NewJobRepository(db.DB)
	historyRepo := repository.NewTaskExecutionHistoryRepository(db.DB)
	instrumentRepo := repository.NewInstrumentRepository(db.DB)
	priceRepo := repository.NewPriceHistoryRepository(db.DB)
	newsRepo := repository.NewNewsItemRepository(db.DB)
	postRepo := repository.NewSocialPostRepository(db.DB)
	predictionRepo := repository.NewPredictionRepository(db.DB)
	resultRepo := repository.NewResultRepository(db.DB)
	performanceRepo := repository.NewStrategyPerformanceRepository(db.DB)

	// Collectors
	yahooFinanceRepo := repository.NewYahooFinanceRepository(cfg, appLogger, redisClient.Client)
	finnhubRepo := repository.NewFinnhubRepository(cfg, appLogger)
	redditRepo := repository.NewRedditRepository(cfg, appLogger)
	rssRepo := repository.NewRSSNewsRepository(cfg, appLogger)
	articleRepo := repository.NewArticleRepository(appLogger)

	// Analysis services
	scorer := service.NewSentimentScorer(llmClient, appLogger, cfg.Cache.SentimentTTL)
	finder := service.NewCorrelationFinder(llmClient, appLogger)
	generator := service.NewPredictionGenerator(llmClient, appLogger)
	evaluator := service.NewEvaluator(appLogger, predictionRepo, priceRepo, resultRepo, performanceRepo)

	// Initialize Strategies
	strategies := []service.JobExecutionStrategy{
		strategy.NewDailyUpdateStrategy(
			cfg,
			appLogger,
			instrumentRepo,
			priceRepo,
			newsRepo,
			postRepo,
			yahooFinanceRepo,
			finnhubRepo,
			redditRepo,
			rssRepo,
			articleRepo,
			scorer,
			telegramNotifier,
		),
		strategy.NewWeeklyPredictionStrategy(
			cfg,
			appLogger,
			instrumentRepo,
			priceRepo,
			newsRepo,
			postRepo,
			predictionRepo,
			yahooFinanceRepo,
			finder,
			generator,
			telegramNotifier,
		),
		strategy.NewEvaluationStrategy(appLogger, evaluator, telegramNotifier),
	}

	// Initialize executor service
	a.executorSvc = service.NewExecutorService(redisClient.Client, jobRepo, historyRepo, appLogger, strategies)

	if err := redisClient.EnsureGroup(ctx, common.RedisStreamTaskExecution, common.RedisStreamGroup); err != nil {
		appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
	}
	return a
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := bootstrap(ctx)
	defer a.Close()

	// Initialize and start the Redis consumer
	redisConsumer := consumer.NewRedisConsumer(a.cfg, a.executorSvc, a.logger)
	redisConsumer.Start(ctx)

	a.logger.Info("Execution service started. Waiting for tasks...")

	// Wait for interrupt signal to gracefully shut down the service
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("Shutting down execution service...")
	cancel()
	redisConsumer.Stop()
	a.logger.Info("Execution service stopped.")
}

func runJob(cmd *cobra.Command, args []string) error {
	jobType := entity.JobType(args[0])
	if !jobType.Valid() {
		return fmt.Errorf("unknown job type %q", args[0])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := bootstrap(ctx)
	defer a.Close()

	history, err := a.executorSvc.RunJob(ctx, jobType, entity.TriggeredByCLI)
	if history != nil && history.Output.Valid {
		fmt.Fprintln(cmd.OutOrStdout(), history.Output.String)
	}
	return err
}

func main() {
	rootCmd := &cobra.Command{Use: "execution-service", SilenceUsage: true}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-executor.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd, runCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing execution-service CLI: %s\n", err)
		os.Exit(1)
	}
}
