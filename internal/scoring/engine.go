package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/fraud-risk-scorer/internal/domain/transaction"
)

// BatchResult is the outcome of scoring one batch. Scored is ordered by
// input index.
type BatchResult struct {
	Scored   []transaction.ScoredTransaction
	Rejected []transaction.RejectedRecord
}

// Err joins the errors of all rejected records, or returns nil
func (r BatchResult) Err() error {
	if len(r.Rejected) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Rejected))
	for _, rej := range r.Rejected {
		errs = append(errs, rej.Err)
	}
	return errors.Join(errs...)
}

// FlaggedCount returns the number of flagged transactions
func (r BatchResult) FlaggedCount() int {
	count := 0
	for _, s := range r.Scored {
		if s.FraudFlag {
			count++
		}
	}
	return count
}

// Engine runs the normalize, evaluate and aggregate stages over a batch
type Engine struct {
	policy Policy
	runner PartitionRunner
	logger *slog.Logger
}

// NewEngine creates an Engine. A nil runner evaluates partitions sequentially.
func NewEngine(policy Policy, runner PartitionRunner, logger *slog.Logger) *Engine {
	if runner == nil {
		runner = SequentialRunner{}
	}
	return &Engine{
		policy: policy,
		runner: runner,
		logger: logger,
	}
}

// Score scores a fully materialized batch. Records without a card_id or
// transaction_id are rejected and returned in the result; everything else is
// scored. An error is returned only when evaluation itself cannot complete.
func (e *Engine) Score(ctx context.Context, raws []transaction.RawRecord) (BatchResult, error) {
	valid, rejected := Validate(raws)
	for _, rej := range rejected {
		e.logger.Warn("Rejected malformed record", "index", rej.Err.Index, "field", rej.Err.Field)
	}

	partitions := PartitionByCard(NormalizeAll(valid))
	e.logger.Debug("Partitioned batch", "records", len(valid), "partitions", len(partitions))

	results, err := e.runner.Run(ctx, partitions, func(p Partition) []transaction.ScoredTransaction {
		return EvaluatePartition(p, e.policy)
	})
	if err != nil {
		return BatchResult{}, fmt.Errorf("failed to evaluate partitions: %w", err)
	}

	scored := make([]transaction.ScoredTransaction, 0, len(valid))
	for _, r := range results {
		scored = append(scored, r...)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Index < scored[j].Index
	})

	return BatchResult{Scored: scored, Rejected: rejected}, nil
}

// Validate splits a batch into records that can be scored and records missing
// an identity field. Input order is preserved on both sides.
func Validate(raws []transaction.RawRecord) ([]transaction.RawRecord, []transaction.RejectedRecord) {
	valid := make([]transaction.RawRecord, 0, len(raws))
	var rejected []transaction.RejectedRecord
	for _, raw := range raws {
		var field string
		switch {
		case IsMissing(raw.TransactionID):
			field = transaction.FieldTransactionID
		case IsMissing(raw.CardID):
			field = transaction.FieldCardID
		default:
			valid = append(valid, raw)
			continue
		}
		rejected = append(rejected, transaction.RejectedRecord{
			Record: raw,
			Err:    transaction.ErrMalformedRecord{Index: raw.Index, Field: field},
		})
	}
	return valid, rejected
}
