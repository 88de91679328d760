package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-ai-predictor/internal/scheduler/config"
	delivery "stock-ai-predictor/internal/scheduler/delivery/http"
	_ "stock-ai-predictor/internal/scheduler/docs"
	"stock-ai-predictor/internal/scheduler/repository"
	"stock-ai-predictor/internal/scheduler/service"
	"stock-ai-predictor/pkg/llm"
	"stock-ai-predictor/pkg/logger"
	"stock-ai-predictor/pkg/postgres"
	"stock-ai-predictor/pkg/redis"
	"stock-ai-predictor/pkg/trace"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the scheduling service and read API",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Scheduling Service", logger.Field("name", cfg.App.Name))

	if err := trace.Init(cfg.Trace, cfg.App.Version); err != nil {
		appLogger.Fatal("Failed to initialize tracing", logger.ErrorField(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = trace.Shutdown(shutdownCtx)
	}()

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
		defer sqlDB.Close()
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
	defer redisClient.Close()

	llmClient, err := llm.New(ctx, cfg.LLM, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize reasoning client", logger.ErrorField(err))
	}

	// Initialize repositories
	jobRepo := repository.NewJobRepository(db.DB)
	scheduleRepo := repository.NewTaskScheduleRepository(db.DB)
	historyRepo := repository.NewTaskExecutionHistoryRepository(db.DB)
	instrumentRepo := repository.NewInstrumentRepository(db.DB)
	predictionRepo := repository.NewPredictionRepository(db.DB)
	performanceRepo := repository.NewPerformanceRepository(db.DB)

	// Initialize services
	pollingInterval, err := time.ParseDuration(cfg.Scheduler.PollingInterval)
	if err != nil {
		appLogger.Fatal("Invalid polling interval", logger.ErrorField(err))
	}
	insightTimeout := 2 * time.Minute
	if cfg.Scheduler.InsightTimeout != "" {
		if insightTimeout, err = time.ParseDuration(cfg.Scheduler.InsightTimeout); err != nil {
			appLogger.Fatal("Invalid insight timeout", logger.ErrorField(err))
		}
	}

	publisher := service.NewTaskPublisher(redisClient.Client, historyRepo, appLogger, cfg.Redis.StreamMaxLen)
	schedulerSvc := service.NewSchedulerService(scheduleRepo, jobRepo, publisher, appLogger, pollingInterval)
	jobSvc := service.NewJobService(jobRepo, publisher, appLogger)
	historySvc := service.NewExecutionHistoryService(historyRepo, jobRepo, appLogger)
	instrumentSvc := service.NewInstrumentService(instrumentRepo, appLogger)
	predictionSvc := service.NewPredictionService(predictionRepo, appLogger)
	performanceSvc := service.NewPerformanceService(performanceRepo, appLogger)
	reviewSvc := service.NewStrategyReviewService(llmClient, performanceRepo, appLogger)
	insightSvc := service.NewInsightService(llmClient, instrumentRepo, predictionRepo, performanceRepo, appLogger)

	// Start scheduler service
	go schedulerSvc.Start(ctx)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{Timeout: insightTimeout}))

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	instrumentHandler := delivery.NewInstrumentHandler(instrumentSvc, appLogger)
	instrumentHandler.RegisterRoutes(apiV1.Group("/instruments"))

	predictionHandler := delivery.NewPredictionHandler(predictionSvc, performanceSvc, reviewSvc, insightSvc, appLogger)
	predictionHandler.RegisterRoutes(apiV1)

	jobHandler := delivery.NewJobHandler(jobSvc, appLogger)
	jobsGroup := apiV1.Group("/jobs")
	jobHandler.RegisterRoutes(jobsGroup)

	historyHandler := delivery.NewExecutionHistoryHandler(historySvc, appLogger)
	executionsGroup := apiV1.Group("/executions")
	historyHandler.RegisterRoutes(executionsGroup)
	historyHandler.RegisterJobRoutes(jobsGroup)

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Stock AI Predictor API
// @version 1.0
// @description Read API and job triggers for the stock prediction pipeline.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "scheduling-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-scheduler.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing scheduling-service CLI: %s\n", err)
		os.Exit(1)
	}
}
