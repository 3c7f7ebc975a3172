package transaction

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository persists scored transactions and serves the reporting queries
type Repository interface {
	// DeleteAll removes every scored transaction so a run can replace the table
	DeleteAll(ctx context.Context) (int64, error)
	InsertBatch(ctx context.Context, runID uuid.UUID, scored []ScoredTransaction) (int64, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*ScoredTransaction, error)
	ListFlagged(ctx context.Context, limit, offset int) ([]*ScoredTransaction, error)
	CountFlagged(ctx context.Context) (int64, error)
	Summary(ctx context.Context) ([]SummaryRow, error)
	WithTx(tx pgx.Tx) Repository
}
