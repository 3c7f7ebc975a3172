package components

import (
	"context"
	"log/slog"

	"github.com/fraud-risk-scorer/internal/domain/run"
	"github.com/fraud-risk-scorer/internal/domain/transaction"
	"github.com/fraud-risk-scorer/internal/fraud_scorer/service"
	"github.com/fraud-risk-scorer/internal/platform/messaging/producers"
	"github.com/fraud-risk-scorer/internal/platform/metrics"
	"github.com/google/uuid"
)

type AlertDispatcherImpl struct {
	publisher producers.AlertPublisher
	logger    *slog.Logger
}

func NewAlertDispatcher(publisher producers.AlertPublisher, logger *slog.Logger) service.AlertDispatcher {
	return &AlertDispatcherImpl{
		publisher: publisher,
		logger:    logger,
	}
}

// Dispatch publishes an alert for every flagged transaction of the run
func (d *AlertDispatcherImpl) Dispatch(ctx context.Context, runID uuid.UUID, scored []transaction.ScoredTransaction) (int, error) {
	flagged := make([]transaction.ScoredTransaction, 0)
	for _, s := range scored {
		if s.FraudFlag {
			flagged = append(flagged, s)
		}
	}
	if len(flagged) == 0 {
		d.logger.Info("No flagged transactions to alert on", "run_id", runID.String())
		return 0, nil
	}
	return d.publisher.PublishAlerts(ctx, runID, flagged)
}

type RejectionRecorderImpl struct {
	dlq    producers.DeadLetterPublisher
	logger *slog.Logger
}

func NewRejectionRecorder(dlq producers.DeadLetterPublisher, logger *slog.Logger) service.RejectionRecorder {
	return &RejectionRecorderImpl{
		dlq:    dlq,
		logger: logger,
	}
}

// Record sends the rejected records of a run to the dead letter topic
func (r *RejectionRecorderImpl) Record(ctx context.Context, runID uuid.UUID, rejected []transaction.RejectedRecord) (int, error) {
	r.logger.Info("Dead-lettering rejected records", "run_id", runID.String(), "count", len(rejected))
	return r.dlq.PublishRejected(ctx, runID, rejected)
}

type MetricsRecorderImpl struct {
	metrics *metrics.BatchMetrics
	pusher  *metrics.Pusher
}

// NewMetricsRecorder returns a recorder that only updates the local registry
// when pusher is nil
func NewMetricsRecorder(m *metrics.BatchMetrics, pusher *metrics.Pusher) service.MetricsRecorder {
	return &MetricsRecorderImpl{
		metrics: m,
		pusher:  pusher,
	}
}

func (r *MetricsRecorderImpl) SideOutputFailed(step string) {
	r.metrics.SideOutputFailed(step)
}

func (r *MetricsRecorderImpl) Publish(ctx context.Context, report *run.Report) error {
	r.metrics.ObserveReport(report)
	if r.pusher == nil {
		return nil
	}
	return r.pusher.Push(ctx, r.metrics)
}
