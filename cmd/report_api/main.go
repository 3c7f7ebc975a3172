package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fraud-risk-scorer/internal/config"
	"github.com/fraud-risk-scorer/internal/data/mongo"
	"github.com/fraud-risk-scorer/internal/data/postgres"
	"github.com/fraud-risk-scorer/internal/data/redis"
	"github.com/fraud-risk-scorer/internal/logger"
	"github.com/fraud-risk-scorer/internal/platform/persistence"
	"github.com/fraud-risk-scorer/internal/report_api"
	"github.com/fraud-risk-scorer/internal/report_api/handler"
	"github.com/fraud-risk-scorer/internal/report_api/service"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("report_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	health := map[string]handler.Pinger{
		"postgres": postgresDB.Pool(),
		"mongodb":  handler.PingFunc(mongoDB.Ping),
	}

	// Initialize repositories
	scoredRepo := postgres.NewScoredTransactionRepository(log, postgresDB)
	reportRepo := mongo.NewRunReportRepository(log, mongoDB.Database())

	// Summary cache is optional; the database answers when Redis is absent
	var summaryCache service.SummaryCache
	if cfg.Redis.Enabled() {
		redisClient, err := persistence.NewRedisClient(appCtx, log, &cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, serving summary without cache", "error", err)
		} else {
			defer redisClient.Close()
			summaryCache = redis.NewSummaryCache(redisClient, cfg.Redis.SummaryTTL, log)
			health["redis"] = handler.PingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			})
		}
	}

	// Initialize services
	services := report_api.Services{
		Fraud:  service.NewFraudReportService(log, scoredRepo, summaryCache),
		Runs:   service.NewRunReportService(log, reportRepo),
		Health: health,
	}

	// Initialize REST server
	server := report_api.NewServer(log, cfg, services)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	cancelAppCtx()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	var shutdownErr error
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
		shutdownErr = err
	}

	postgresDB.Close()

	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
		shutdownErr = err
	}

	if serverErr != nil || shutdownErr != nil {
		log.Error("Server shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Server shutdown completed successfully")
}
