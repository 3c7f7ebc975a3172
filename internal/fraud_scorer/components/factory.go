package components

import (
	"log/slog"

	"github.com/fraud-risk-scorer/internal/config"
	"github.com/fraud-risk-scorer/internal/scoring"
)

// CreatePartitionRunner returns a worker pool runner sized from config, or the
// sequential runner when the pool is disabled or cannot be created.
func CreatePartitionRunner(cfg *config.Config, logger *slog.Logger) scoring.PartitionRunner {
	if cfg.WorkerPool.Size <= 1 {
		logger.Info("Worker pool disabled, evaluating partitions sequentially", "pool_size", cfg.WorkerPool.Size)
		return scoring.SequentialRunner{}
	}

	runner, err := scoring.NewPoolRunner(
		scoring.PoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		logger.Error("Failed to create worker pool runner, falling back to sequential runner", "error", err)
		return scoring.SequentialRunner{}
	}

	logger.Info("Created worker pool partition runner", "pool_size", cfg.WorkerPool.Size)
	return runner
}

// CreateEngine builds the scoring engine with the default policy
func CreateEngine(runner scoring.PartitionRunner, logger *slog.Logger) *scoring.Engine {
	return scoring.NewEngine(scoring.DefaultPolicy(), runner, logger.With("component", "scoring_engine"))
}
