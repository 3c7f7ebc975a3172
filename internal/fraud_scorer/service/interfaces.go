package service

import (
	"context"

	"github.com/fraud-risk-scorer/internal/domain/run"
	"github.com/fraud-risk-scorer/internal/domain/transaction"
	"github.com/fraud-risk-scorer/internal/scoring"
	"github.com/google/uuid"
)

// RunService executes one batch scoring run
type RunService interface {
	Run(ctx context.Context) (*run.Report, error)
}

// RecordSource loads the raw input batch
type RecordSource interface {
	Path() string
	Load() ([]transaction.RawRecord, error)
}

// Scorer turns raw records into scored transactions
type Scorer interface {
	Score(ctx context.Context, raws []transaction.RawRecord) (scoring.BatchResult, error)
}

// ResultSink replaces the persisted results with the output of a run
type ResultSink interface {
	Replace(ctx context.Context, runID uuid.UUID, scored []transaction.ScoredTransaction) error
}

// ReportExporter writes the flagged transactions and the summary to files
type ReportExporter interface {
	Export(scored []transaction.ScoredTransaction, summary []transaction.SummaryRow) ([]string, error)
}

// AlertDispatcher publishes alerts for flagged transactions
type AlertDispatcher interface {
	Dispatch(ctx context.Context, runID uuid.UUID, scored []transaction.ScoredTransaction) (int, error)
}

// RejectionRecorder dead-letters rejected input records
type RejectionRecorder interface {
	Record(ctx context.Context, runID uuid.UUID, rejected []transaction.RejectedRecord) (int, error)
}

// SummaryInvalidator drops cached summaries made stale by a run
type SummaryInvalidator interface {
	Invalidate(ctx context.Context) error
}

// MetricsRecorder counts side output failures and publishes run metrics
type MetricsRecorder interface {
	SideOutputFailed(step string)
	Publish(ctx context.Context, report *run.Report) error
}
