package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/fraud-risk-scorer/internal/domain/run"
	"github.com/fraud-risk-scorer/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockScoredRepository struct {
	mock.Mock
}

func (m *MockScoredRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockScoredRepository) InsertBatch(ctx context.Context, runID uuid.UUID, scored []transaction.ScoredTransaction) (int64, error) {
	args := m.Called(ctx, runID, scored)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockScoredRepository) GetByTransactionID(ctx context.Context, transactionID string) (*transaction.ScoredTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.ScoredTransaction), args.Error(1)
}

func (m *MockScoredRepository) ListFlagged(ctx context.Context, limit, offset int) ([]*transaction.ScoredTransaction, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.ScoredTransaction), args.Error(1)
}

func (m *MockScoredRepository) CountFlagged(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockScoredRepository) Summary(ctx context.Context) ([]transaction.SummaryRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transaction.SummaryRow), args.Error(1)
}

func (m *MockScoredRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return m
}

type MockSummaryCache struct {
	mock.Mock
}

func (m *MockSummaryCache) Get(ctx context.Context) ([]transaction.SummaryRow, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]transaction.SummaryRow), args.Bool(1), args.Error(2)
}

func (m *MockSummaryCache) Set(ctx context.Context, rows []transaction.SummaryRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) Save(ctx context.Context, report *run.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockRunRepository) GetByRunID(ctx context.Context, runID uuid.UUID) (*run.Report, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*run.Report), args.Error(1)
}

func (m *MockRunRepository) ListRecent(ctx context.Context, limit int) ([]*run.Report, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*run.Report), args.Error(1)
}

var testLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

func summaryRows() []transaction.SummaryRow {
	return []transaction.SummaryRow{
		{FraudFlag: 0, TotalTransactions: 90},
		{FraudFlag: 1, TotalTransactions: 10},
	}
}

func TestFraudReportService_ListFlagged(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockScoredRepository)
		svc := NewFraudReportService(testLogger, repo, nil)
		flagged := []*transaction.ScoredTransaction{
			{Transaction: transaction.Transaction{TransactionID: "T7"}, FraudScore: 2, FraudFlag: true},
		}

		repo.On("ListFlagged", ctx, 20, 40).Return(flagged, nil).Once()
		repo.On("CountFlagged", ctx).Return(int64(41), nil).Once()

		result, total, err := svc.ListFlagged(ctx, 3, 20)

		require.NoError(t, err)
		assert.Equal(t, flagged, result)
		assert.Equal(t, int64(41), total)
		repo.AssertExpectations(t)
	})

	t.Run("ListError", func(t *testing.T) {
		repo := new(MockScoredRepository)
		svc := NewFraudReportService(testLogger, repo, nil)
		dbErr := errors.New("db down")

		repo.On("ListFlagged", ctx, 10, 0).Return(nil, dbErr).Once()

		_, _, err := svc.ListFlagged(ctx, 1, 10)

		assert.ErrorIs(t, err, dbErr)
		repo.AssertNotCalled(t, "CountFlagged", mock.Anything)
	})

	t.Run("CountError", func(t *testing.T) {
		repo := new(MockScoredRepository)
		svc := NewFraudReportService(testLogger, repo, nil)
		dbErr := errors.New("count failed")

		repo.On("ListFlagged", ctx, 10, 0).Return([]*transaction.ScoredTransaction{}, nil).Once()
		repo.On("CountFlagged", ctx).Return(int64(0), dbErr).Once()

		_, _, err := svc.ListFlagged(ctx, 1, 10)

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestFraudReportService_GetSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("CacheHit", func(t *testing.T) {
		repo := new(MockScoredRepository)
		cache := new(MockSummaryCache)
		svc := NewFraudReportService(testLogger, repo, cache)

		cache.On("Get", ctx).Return(summaryRows(), true, nil).Once()

		rows, err := svc.GetSummary(ctx)

		require.NoError(t, err)
		assert.Equal(t, summaryRows(), rows)
		repo.AssertNotCalled(t, "Summary", mock.Anything)
	})

	t.Run("CacheMissFillsCache", func(t *testing.T) {
		repo := new(MockScoredRepository)
		cache := new(MockSummaryCache)
		svc := NewFraudReportService(testLogger, repo, cache)

		cache.On("Get", ctx).Return(nil, false, nil).Once()
		repo.On("Summary", ctx).Return(summaryRows(), nil).Once()
		cache.On("Set", ctx, summaryRows()).Return(nil).Once()

		rows, err := svc.GetSummary(ctx)

		require.NoError(t, err)
		assert.Equal(t, summaryRows(), rows)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("CacheErrorsFallBackToDatabase", func(t *testing.T) {
		repo := new(MockScoredRepository)
		cache := new(MockSummaryCache)
		svc := NewFraudReportService(testLogger, repo, cache)

		cache.On("Get", ctx).Return(nil, false, errors.New("redis timeout")).Once()
		repo.On("Summary", ctx).Return(summaryRows(), nil).Once()
		cache.On("Set", ctx, summaryRows()).Return(errors.New("redis timeout")).Once()

		rows, err := svc.GetSummary(ctx)

		require.NoError(t, err)
		assert.Equal(t, summaryRows(), rows)
	})

	t.Run("NoCache", func(t *testing.T) {
		repo := new(MockScoredRepository)
		svc := NewFraudReportService(testLogger, repo, nil)

		repo.On("Summary", ctx).Return(summaryRows(), nil).Once()

		rows, err := svc.GetSummary(ctx)

		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("DatabaseError", func(t *testing.T) {
		repo := new(MockScoredRepository)
		cache := new(MockSummaryCache)
		svc := NewFraudReportService(testLogger, repo, cache)
		dbErr := errors.New("db down")

		cache.On("Get", ctx).Return(nil, false, nil).Once()
		repo.On("Summary", ctx).Return(nil, dbErr).Once()

		_, err := svc.GetSummary(ctx)

		assert.ErrorIs(t, err, dbErr)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
	})
}

func TestFraudReportService_GetTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		repo := new(MockScoredRepository)
		svc := NewFraudReportService(testLogger, repo, nil)
		scored := &transaction.ScoredTransaction{Transaction: transaction.Transaction{TransactionID: "T1"}}

		repo.On("GetByTransactionID", ctx, "T1").Return(scored, nil).Once()

		result, err := svc.GetTransaction(ctx, "T1")

		require.NoError(t, err)
		assert.Equal(t, scored, result)
	})

	t.Run("NotFoundReturnsNil", func(t *testing.T) {
		repo := new(MockScoredRepository)
		svc := NewFraudReportService(testLogger, repo, nil)

		repo.On("GetByTransactionID", ctx, "T404").Return(nil, transaction.ErrScoredTransactionNotFound{TransactionID: "T404"}).Once()

		result, err := svc.GetTransaction(ctx, "T404")

		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		repo := new(MockScoredRepository)
		svc := NewFraudReportService(testLogger, repo, nil)
		dbErr := errors.New("db down")

		repo.On("GetByTransactionID", ctx, "T1").Return(nil, dbErr).Once()

		_, err := svc.GetTransaction(ctx, "T1")

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestRunReportService(t *testing.T) {
	ctx := context.Background()
	runID := uuid.New()

	t.Run("GetRunFound", func(t *testing.T) {
		repo := new(MockRunRepository)
		report := run.NewReport(runID, "in.csv")
		repo.On("GetByRunID", ctx, runID).Return(report, nil).Once()

		result, err := NewRunReportService(testLogger, repo).GetRun(ctx, runID)

		require.NoError(t, err)
		assert.Equal(t, report, result)
	})

	t.Run("GetRunNotFound", func(t *testing.T) {
		repo := new(MockRunRepository)
		repo.On("GetByRunID", ctx, runID).Return(nil, run.ErrReportNotFound{RunID: runID}).Once()

		result, err := NewRunReportService(testLogger, repo).GetRun(ctx, runID)

		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("GetRunError", func(t *testing.T) {
		repo := new(MockRunRepository)
		repoErr := errors.New("mongo down")
		repo.On("GetByRunID", ctx, runID).Return(nil, repoErr).Once()

		_, err := NewRunReportService(testLogger, repo).GetRun(ctx, runID)

		assert.ErrorIs(t, err, repoErr)
	})

	t.Run("ListRecent", func(t *testing.T) {
		repo := new(MockRunRepository)
		reports := []*run.Report{run.NewReport(runID, "in.csv")}
		repo.On("ListRecent", ctx, 5).Return(reports, nil).Once()

		result, err := NewRunReportService(testLogger, repo).ListRecent(ctx, 5)

		require.NoError(t, err)
		assert.Equal(t, reports, result)
	})
}
