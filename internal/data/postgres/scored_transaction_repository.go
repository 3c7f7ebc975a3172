// Package postgres provides the PostgreSQL result sink for scored transactions
// and the reporting queries over it.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fraud-risk-scorer/internal/domain/transaction"
	"github.com/fraud-risk-scorer/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const scoredColumns = `input_index, transaction_id, card_id, amount, transaction_time, city, time_diff_seconds,
			high_amount_flag, late_night_flag, rapid_txn_flag, city_change_flag, missing_data_flag,
			fraud_score, fraud_flag`

// ScoredTransactionRepository implements transaction.Repository for PostgreSQL
type ScoredTransactionRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewScoredTransactionRepository creates a repository on the connection pool
func NewScoredTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) transaction.Repository {
	return &ScoredTransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository that runs every statement inside tx
func (r *ScoredTransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return &ScoredTransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// DeleteAll empties the result table and returns the number of removed rows
func (r *ScoredTransactionRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.querier.Exec(ctx, `DELETE FROM scored_transactions`)
	if err != nil {
		r.logger.Error("Failed to clear scored transactions", "error", err)
		return 0, fmt.Errorf("failed to clear scored transactions: %w", err)
	}
	return result.RowsAffected(), nil
}

// copyColumns is the column order of the bulk insert into scored_transactions
var copyColumns = []string{
	"run_id", "input_index", "transaction_id", "card_id", "amount", "transaction_time", "city",
	"time_diff_seconds", "high_amount_flag", "late_night_flag", "rapid_txn_flag", "city_change_flag",
	"missing_data_flag", "fraud_score", "fraud_flag",
}

// InsertBatch bulk loads the scored transactions of one run with COPY
func (r *ScoredTransactionRepository) InsertBatch(ctx context.Context, runID uuid.UUID, scored []transaction.ScoredTransaction) (int64, error) {
	if len(scored) == 0 {
		return 0, nil
	}

	copied, err := r.querier.CopyFrom(ctx, pgx.Identifier{"scored_transactions"}, copyColumns, copyRows(runID, scored))
	if err != nil {
		r.logger.Error("Failed to copy scored transactions", "run_id", runID.String(), "count", len(scored), "error", err)
		return 0, fmt.Errorf("failed to copy scored transactions: %w", err)
	}
	return copied, nil
}

func copyRows(runID uuid.UUID, scored []transaction.ScoredTransaction) pgx.CopyFromSource {
	run := pgtype.UUID{Bytes: runID, Valid: true}
	return pgx.CopyFromSlice(len(scored), func(i int) ([]any, error) {
		s := &scored[i]
		return []any{
			run,
			s.Index,
			s.TransactionID,
			s.CardID,
			numericAmount(s.Amount),
			s.TransactionTime,
			s.City,
			s.TimeDiffSeconds,
			s.HighAmount,
			s.LateNight,
			s.RapidTransaction,
			s.CityChange,
			s.MissingData,
			s.FraudScore,
			s.FraudFlag,
		}, nil
	})
}

// numericAmount converts a nullable decimal into a value COPY can encode as NUMERIC
func numericAmount(amount decimal.NullDecimal) pgtype.Numeric {
	if !amount.Valid {
		return pgtype.Numeric{}
	}
	return pgtype.Numeric{
		Int:   amount.Decimal.Coefficient(),
		Exp:   amount.Decimal.Exponent(),
		Valid: true,
	}
}

// GetByTransactionID returns the scored transaction with the given id. When
// the input carried duplicates the earliest input row wins.
func (r *ScoredTransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*transaction.ScoredTransaction, error) {
	query := `
		SELECT ` + scoredColumns + `
		FROM scored_transactions
		WHERE transaction_id = $1
		ORDER BY input_index ASC
		LIMIT 1
	`

	s, err := scanScored(r.querier.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrScoredTransactionNotFound{TransactionID: transactionID}
		}
		r.logger.Error("Failed to get scored transaction", "transaction_id", transactionID, "error", err)
		return nil, fmt.Errorf("failed to get scored transaction: %w", err)
	}

	return s, nil
}

// ListFlagged returns flagged transactions in input order
func (r *ScoredTransactionRepository) ListFlagged(ctx context.Context, limit, offset int) ([]*transaction.ScoredTransaction, error) {
	query := `
		SELECT ` + scoredColumns + `
		FROM scored_transactions
		WHERE fraud_flag
		ORDER BY input_index ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.querier.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to query flagged transactions", "error", err)
		return nil, fmt.Errorf("failed to query flagged transactions: %w", err)
	}
	defer rows.Close()

	flagged := make([]*transaction.ScoredTransaction, 0)
	for rows.Next() {
		s, err := scanScored(rows)
		if err != nil {
			r.logger.Error("Failed to scan flagged transaction", "error", err)
			return nil, fmt.Errorf("failed to scan flagged transaction: %w", err)
		}
		flagged = append(flagged, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating flagged transactions", "error", err)
		return nil, fmt.Errorf("error iterating flagged transactions: %w", err)
	}

	return flagged, nil
}

// CountFlagged returns the number of flagged transactions
func (r *ScoredTransactionRepository) CountFlagged(ctx context.Context) (int64, error) {
	var count int64
	err := r.querier.QueryRow(ctx, `SELECT COUNT(*) FROM scored_transactions WHERE fraud_flag`).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count flagged transactions", "error", err)
		return 0, fmt.Errorf("failed to count flagged transactions: %w", err)
	}
	return count, nil
}

// Summary counts scored transactions per fraud flag. Both flag values are
// returned even when one of them has no rows.
func (r *ScoredTransactionRepository) Summary(ctx context.Context) ([]transaction.SummaryRow, error) {
	query := `
		SELECT fraud_flag::int AS fraud_flag, COUNT(*) AS total_transactions
		FROM scored_transactions
		GROUP BY fraud_flag
		ORDER BY fraud_flag
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query fraud summary", "error", err)
		return nil, fmt.Errorf("failed to query fraud summary: %w", err)
	}
	defer rows.Close()

	summary := []transaction.SummaryRow{{FraudFlag: 0}, {FraudFlag: 1}}
	for rows.Next() {
		var flag int
		var total int64
		if err := rows.Scan(&flag, &total); err != nil {
			return nil, fmt.Errorf("failed to scan fraud summary: %w", err)
		}
		if flag != 0 && flag != 1 {
			return nil, fmt.Errorf("unexpected fraud_flag value %d", flag)
		}
		summary[flag].TotalTransactions = total
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fraud summary: %w", err)
	}

	return summary, nil
}

func scanScored(row pgx.Row) (*transaction.ScoredTransaction, error) {
	var s transaction.ScoredTransaction
	err := row.Scan(
		&s.Index,
		&s.TransactionID,
		&s.CardID,
		&s.Amount,
		&s.TransactionTime,
		&s.City,
		&s.TimeDiffSeconds,
		&s.HighAmount,
		&s.LateNight,
		&s.RapidTransaction,
		&s.CityChange,
		&s.MissingData,
		&s.FraudScore,
		&s.FraudFlag,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
