package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fraud-risk-scorer/internal/domain/run"
	"github.com/fraud-risk-scorer/internal/domain/transaction"
	"github.com/google/uuid"
)

type FraudReportServiceImpl struct {
	repo   transaction.Repository
	cache  SummaryCache
	logger *slog.Logger
}

// NewFraudReportService creates the fraud report service. cache may be nil.
func NewFraudReportService(logger *slog.Logger, repo transaction.Repository, cache SummaryCache) FraudReportService {
	return &FraudReportServiceImpl{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (s *FraudReportServiceImpl) ListFlagged(ctx context.Context, page, perPage int) ([]*transaction.ScoredTransaction, int64, error) {
	offset := (page - 1) * perPage

	flagged, err := s.repo.ListFlagged(ctx, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.CountFlagged(ctx)
	if err != nil {
		return nil, 0, err
	}

	return flagged, total, nil
}

// GetSummary reads through the cache. Cache errors are logged and the
// database answers instead.
func (s *FraudReportServiceImpl) GetSummary(ctx context.Context) ([]transaction.SummaryRow, error) {
	if s.cache != nil {
		rows, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("Failed to read cached summary", "error", err)
		} else if ok {
			return rows, nil
		}
	}

	rows, err := s.repo.Summary(ctx)
	if err != nil {
		s.logger.Error("Failed to compute fraud summary", "error", err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, rows); err != nil {
			s.logger.Warn("Failed to cache summary", "error", err)
		}
	}
	return rows, nil
}

// GetTransaction returns nil when the transaction was never scored
func (s *FraudReportServiceImpl) GetTransaction(ctx context.Context, transactionID string) (*transaction.ScoredTransaction, error) {
	scored, err := s.repo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, transaction.ErrScoredTransactionNotFound{}) {
			s.logger.Info("Scored transaction not found", "transaction_id", transactionID)
			return nil, nil
		}
		s.logger.Error("Failed to get scored transaction", "transaction_id", transactionID, "error", err)
		return nil, err
	}
	return scored, nil
}

type RunReportServiceImpl struct {
	repo   run.Repository
	logger *slog.Logger
}

func NewRunReportService(logger *slog.Logger, repo run.Repository) RunReportService {
	return &RunReportServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

// GetRun returns nil when no report exists for the run
func (s *RunReportServiceImpl) GetRun(ctx context.Context, runID uuid.UUID) (*run.Report, error) {
	report, err := s.repo.GetByRunID(ctx, runID)
	if err != nil {
		if errors.Is(err, run.ErrReportNotFound{}) {
			return nil, nil
		}
		s.logger.Error("Failed to get run report", "run_id", runID.String(), "error", err)
		return nil, err
	}
	return report, nil
}

func (s *RunReportServiceImpl) ListRecent(ctx context.Context, limit int) ([]*run.Report, error) {
	return s.repo.ListRecent(ctx, limit)
}
