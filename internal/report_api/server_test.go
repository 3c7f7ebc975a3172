package report_api

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/fraud-risk-scorer/internal/config"
	"github.com/fraud-risk-scorer/internal/domain/run"
	"github.com/fraud-risk-scorer/internal/domain/transaction"
	"github.com/fraud-risk-scorer/internal/report_api/handler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFraudService struct{}

func (stubFraudService) ListFlagged(ctx context.Context, page, perPage int) ([]*transaction.ScoredTransaction, int64, error) {
	return []*transaction.ScoredTransaction{}, 0, nil
}

func (stubFraudService) GetSummary(ctx context.Context) ([]transaction.SummaryRow, error) {
	return []transaction.SummaryRow{{FraudFlag: 0, TotalTransactions: 3}, {FraudFlag: 1}}, nil
}

func (stubFraudService) GetTransaction(ctx context.Context, transactionID string) (*transaction.ScoredTransaction, error) {
	return nil, nil
}

type stubRunService struct{}

func (stubRunService) GetRun(ctx context.Context, runID uuid.UUID) (*run.Report, error) {
	return nil, nil
}

func (stubRunService) ListRecent(ctx context.Context, limit int) ([]*run.Report, error) {
	return nil, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			ShutdownTimeout: time.Second,
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			IdleTimeout:     time.Second,
		},
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	return NewServer(logger, cfg, Services{
		Fraud: stubFraudService{},
		Runs:  stubRunService{},
		Health: map[string]handler.Pinger{
			"postgres": handler.PingFunc(func(ctx context.Context) error { return nil }),
		},
	})
}

func TestServer_Routes(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"FlaggedTransactions", "/api/v1/fraud/transactions", http.StatusOK},
		{"Summary", "/api/v1/fraud/summary", http.StatusOK},
		{"UnknownTransaction", "/api/v1/transactions/T1", http.StatusNotFound},
		{"RecentRuns", "/api/v1/runs", http.StatusOK},
		{"UnknownRun", "/api/v1/runs/" + uuid.NewString(), http.StatusNotFound},
		{"Health", "/health", http.StatusOK},
		{"Metrics", "/metrics", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rr.Code)
			assert.NotEmpty(t, rr.Header().Get("X-Correlation-ID"))
		})
	}
}

func TestServer_MetricsCountRequests(t *testing.T) {
	server := newTestServer(t)

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/fraud/summary", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rr.Body.String(), `fraud_scorer_api_requests_total{method="GET",route="/api/v1/fraud/summary",status="200"} 1`)
}

func TestServer_StopWithoutStart(t *testing.T) {
	server := newTestServer(t)
	assert.NoError(t, server.Stop(context.Background()))
}
