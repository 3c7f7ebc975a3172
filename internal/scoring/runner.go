package scoring

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fraud-risk-scorer/internal/domain/transaction"
	"github.com/panjf2000/ants/v2"
)

// PartitionFunc scores one card partition
type PartitionFunc func(p Partition) []transaction.ScoredTransaction

// PartitionRunner applies a PartitionFunc to every partition. Result i
// belongs to partition i.
type PartitionRunner interface {
	Run(ctx context.Context, partitions []Partition, fn PartitionFunc) ([][]transaction.ScoredTransaction, error)
}

// SequentialRunner evaluates partitions one after another on the caller's goroutine
type SequentialRunner struct{}

func (SequentialRunner) Run(ctx context.Context, partitions []Partition, fn PartitionFunc) ([][]transaction.ScoredTransaction, error) {
	results := make([][]transaction.ScoredTransaction, len(partitions))
	for i, p := range partitions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results[i] = fn(p)
	}
	return results, nil
}

// PoolRunner evaluates partitions concurrently on an ants worker pool
type PoolRunner struct {
	pool   *ants.Pool
	logger *slog.Logger
}

type PoolConfig struct {
	Size int
}

func NewPoolRunner(config PoolConfig, logger *slog.Logger) (*PoolRunner, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &PoolRunner{
		pool:   pool,
		logger: logger,
	}, nil
}

// Run submits one task per partition and waits for all of them. Each task
// writes only its own result slot.
func (r *PoolRunner) Run(ctx context.Context, partitions []Partition, fn PartitionFunc) ([][]transaction.ScoredTransaction, error) {
	results := make([][]transaction.ScoredTransaction, len(partitions))
	var wg sync.WaitGroup

	for i := range partitions {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		idx := i
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			results[idx] = fn(partitions[idx])
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			r.logger.Error("Failed to submit partition to worker pool",
				"card_id", partitions[idx].CardID,
				"error", err,
			)
			return nil, err
		}
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Shutdown releases the worker pool.
func (r *PoolRunner) Shutdown() {
	r.logger.Info("Shutting down worker pool", "running_workers", r.pool.Running())
	r.pool.Release()
}

// Running returns the number of running workers in the pool.
func (r *PoolRunner) Running() int {
	return r.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (r *PoolRunner) Capacity() int {
	return r.pool.Cap()
}
