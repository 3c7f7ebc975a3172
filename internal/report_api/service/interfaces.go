package service

import (
	"context"

	"github.com/fraud-risk-scorer/internal/domain/run"
	"github.com/fraud-risk-scorer/internal/domain/transaction"
	"github.com/google/uuid"
)

// FraudReportService serves the reporting queries over the persisted results
type FraudReportService interface {
	// ListFlagged returns one page of flagged transactions in input order and
	// the total number of flagged transactions
	ListFlagged(ctx context.Context, page, perPage int) ([]*transaction.ScoredTransaction, int64, error)

	// GetSummary returns the transaction counts per fraud flag
	GetSummary(ctx context.Context) ([]transaction.SummaryRow, error)

	// GetTransaction returns a scored transaction, or nil if it does not exist
	GetTransaction(ctx context.Context, transactionID string) (*transaction.ScoredTransaction, error)
}

// RunReportService serves batch run reports
type RunReportService interface {
	// GetRun returns a run report, or nil if it does not exist
	GetRun(ctx context.Context, runID uuid.UUID) (*run.Report, error)
	ListRecent(ctx context.Context, limit int) ([]*run.Report, error)
}

// SummaryCache caches the fraud summary between runs
type SummaryCache interface {
	Get(ctx context.Context) ([]transaction.SummaryRow, bool, error)
	Set(ctx context.Context, rows []transaction.SummaryRow) error
}
