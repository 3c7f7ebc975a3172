package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fraud-risk-scorer/internal/config"
	"github.com/fraud-risk-scorer/internal/data/mongo"
	"github.com/fraud-risk-scorer/internal/data/postgres"
	"github.com/fraud-risk-scorer/internal/data/redis"
	"github.com/fraud-risk-scorer/internal/export"
	"github.com/fraud-risk-scorer/internal/fraud_scorer/components"
	"github.com/fraud-risk-scorer/internal/fraud_scorer/service"
	"github.com/fraud-risk-scorer/internal/ingest"
	"github.com/fraud-risk-scorer/internal/logger"
	"github.com/fraud-risk-scorer/internal/platform/messaging/producers"
	"github.com/fraud-risk-scorer/internal/platform/metrics"
	"github.com/fraud-risk-scorer/internal/platform/persistence"
	"github.com/fraud-risk-scorer/internal/scoring"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("fraud_scorer")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		return 1
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Fraud Scorer",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"input", cfg.Batch.InputPath,
	)

	// A signal cancels the run between partitions
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(quit)
	go func() {
		select {
		case <-quit:
			log.Info("Shutdown signal received, cancelling run")
			cancelAppCtx()
		case <-appCtx.Done():
		}
	}()

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		return 1
	}
	defer postgresDB.Close()

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		return 1
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoDB.Close(closeCtx); err != nil {
			log.Error("Error closing MongoDB connection", "error", err)
		}
	}()

	// Initialize repositories
	scoredRepo := postgres.NewScoredTransactionRepository(log, postgresDB)
	reportRepo := mongo.NewRunReportRepository(log, mongoDB.Database())

	// Initialize scoring engine
	runner := components.CreatePartitionRunner(cfg, log)
	if poolRunner, ok := runner.(*scoring.PoolRunner); ok {
		defer poolRunner.Shutdown()
	}

	batchMetrics := metrics.NewBatchMetrics()

	deps := service.Dependencies{
		Source:  ingest.NewCSVSource(cfg.Batch.InputPath, log),
		Scorer:  components.CreateEngine(runner, log),
		Sink:    components.NewResultSink(postgresDB.Pool(), scoredRepo, log),
		Reports: reportRepo,
		Metrics: components.NewMetricsRecorder(batchMetrics, metrics.NewPusher(cfg.Metrics.PushgatewayURL, cfg.Metrics.JobName)),
	}

	if cfg.Batch.ExportDir != "" {
		deps.Exporter = export.NewCSVExporter(cfg.Batch.ExportDir, log)
	}

	// Optional Kafka producers, nil when their topic is not configured
	alertProducer, err := producers.NewAlertProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize alert producer", "error", err)
		return 1
	}
	if alertProducer != nil {
		defer closeProducer(log, "alert", alertProducer)
		deps.Alerts = components.NewAlertDispatcher(alertProducer, log)
	}

	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ producer", "error", err)
		return 1
	}
	if dlqProducer != nil {
		defer closeProducer(log, "dlq", dlqProducer)
		deps.Rejections = components.NewRejectionRecorder(dlqProducer, log)
	}

	// Optional summary cache
	if cfg.Redis.Enabled() {
		redisClient, err := persistence.NewRedisClient(appCtx, log, &cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, summary cache will not be invalidated", "error", err)
		} else {
			defer redisClient.Close()
			deps.Cache = redis.NewSummaryCache(redisClient, cfg.Redis.SummaryTTL, log)
		}
	}

	runCtx, cancelRun := context.WithTimeout(appCtx, cfg.Batch.Timeout)
	defer cancelRun()

	report, err := service.NewRunService(deps, log).Run(runCtx)
	if err != nil {
		log.Error("Fraud scoring run failed", "run_id", report.RunID.String(), "error", err)
		return 1
	}

	log.Info("Fraud scoring run finished",
		"run_id", report.RunID.String(),
		"scored", report.ScoredRecords,
		"flagged", report.FlaggedRecords,
		"rejected", len(report.Rejections),
	)
	return 0
}

func closeProducer(log *slog.Logger, name string, c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		log.Error("Error closing Kafka producer", "producer", name, "error", err)
	}
}
