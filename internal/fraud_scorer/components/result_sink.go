package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fraud-risk-scorer/internal/domain/transaction"
	"github.com/fraud-risk-scorer/internal/fraud_scorer/service"
	"github.com/fraud-risk-scorer/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ResultSinkImpl struct {
	db     persistence.TxBeginner
	repo   transaction.Repository
	logger *slog.Logger
}

func NewResultSink(db persistence.TxBeginner, repo transaction.Repository, logger *slog.Logger) service.ResultSink {
	return &ResultSinkImpl{
		db:     db,
		repo:   repo,
		logger: logger,
	}
}

// Replace swaps the whole result table for the given run inside one database
// transaction, so readers never see a partial run
func (s *ResultSinkImpl) Replace(ctx context.Context, runID uuid.UUID, scored []transaction.ScoredTransaction) error {
	logger := s.logger.With("run_id", runID.String())

	return persistence.ExecuteTx(ctx, s.db, func(tx pgx.Tx) error {
		repo := s.repo.WithTx(tx)

		deleted, err := repo.DeleteAll(ctx)
		if err != nil {
			return err
		}
		logger.Info("Cleared previous results", "deleted", deleted)

		copied, err := repo.InsertBatch(ctx, runID, scored)
		if err != nil {
			return err
		}
		if copied != int64(len(scored)) {
			return fmt.Errorf("persisted %d of %d scored transactions", copied, len(scored))
		}

		logger.Info("Persisted scored transactions", "count", copied)
		return nil
	})
}
