package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fraud-risk-scorer/internal/domain/run"
	"github.com/fraud-risk-scorer/internal/domain/transaction"
	"github.com/google/uuid"
)

// Side output step names used in logs, reports and metrics
const (
	StepExport  = "export"
	StepAlerts  = "alerts"
	StepDLQ     = "dead_letters"
	StepReport  = "report"
	StepCache   = "cache"
	StepMetrics = "metrics"
)

// Dependencies groups the collaborators of a run. Source, Scorer and Sink are
// required; any other field may be nil to skip that step.
type Dependencies struct {
	Source     RecordSource
	Scorer     Scorer
	Sink       ResultSink
	Exporter   ReportExporter
	Alerts     AlertDispatcher
	Rejections RejectionRecorder
	Reports    run.Repository
	Cache      SummaryInvalidator
	Metrics    MetricsRecorder
}

type RunServiceImpl struct {
	deps   Dependencies
	logger *slog.Logger
}

func NewRunService(deps Dependencies, logger *slog.Logger) RunService {
	return &RunServiceImpl{
		deps:   deps,
		logger: logger,
	}
}

// Run ingests, scores and persists one batch, then fans out to the side
// outputs. Ingest, scoring and persistence failures abort the run; side
// output failures are logged and recorded on the report.
func (s *RunServiceImpl) Run(ctx context.Context) (*run.Report, error) {
	runID := uuid.New()
	logger := s.logger.With("run_id", runID.String())
	report := run.NewReport(runID, s.deps.Source.Path())

	logger.Info("Starting fraud scoring run", "input", report.InputPath)

	// 1. Ingest
	raws, err := s.deps.Source.Load()
	if err != nil {
		return s.abort(ctx, logger, report, fmt.Errorf("failed to load records: %w", err))
	}
	report.TotalRecords = len(raws)
	logger.Info("Loaded records", "count", len(raws))

	// 2. Score
	result, err := s.deps.Scorer.Score(ctx, raws)
	if err != nil {
		return s.abort(ctx, logger, report, fmt.Errorf("failed to score records: %w", err))
	}
	report.RecordScores(result.Scored)
	report.RecordRejections(result.Rejected)
	if len(result.Rejected) > 0 {
		logger.Warn("Some records were rejected", "count", len(result.Rejected), "error", result.Err())
	}
	logger.Info("Scored records", "scored", len(result.Scored), "flagged", report.FlaggedRecords)

	// 3. Persist
	if err := s.deps.Sink.Replace(ctx, runID, result.Scored); err != nil {
		return s.abort(ctx, logger, report, fmt.Errorf("failed to persist scored transactions: %w", err))
	}

	// 4. Side outputs
	s.export(logger, report, result.Scored)
	s.publishAlerts(ctx, logger, report, result.Scored)
	s.recordRejections(ctx, logger, report, result.Rejected)

	report.MarkCompleted()
	s.saveReport(ctx, logger, report)
	s.invalidateCache(ctx, logger, report)
	s.publishMetrics(ctx, logger, report)

	logger.Info("Fraud scoring run completed",
		"total", report.TotalRecords,
		"scored", report.ScoredRecords,
		"rejected", len(report.Rejections),
		"flagged", report.FlaggedRecords,
		"failed_steps", report.FailedSteps,
	)
	return report, nil
}

func (s *RunServiceImpl) abort(ctx context.Context, logger *slog.Logger, report *run.Report, err error) (*run.Report, error) {
	logger.Error("Fraud scoring run aborted", "error", err)
	report.MarkFailed(err.Error())
	s.saveReport(ctx, logger, report)
	s.publishMetrics(ctx, logger, report)
	return report, err
}

func (s *RunServiceImpl) export(logger *slog.Logger, report *run.Report, scored []transaction.ScoredTransaction) {
	if s.deps.Exporter == nil {
		return
	}
	files, err := s.deps.Exporter.Export(scored, report.Summary)
	if err != nil {
		s.stepFailed(logger, report, StepExport, err)
		return
	}
	report.ExportedFiles = files
}

func (s *RunServiceImpl) publishAlerts(ctx context.Context, logger *slog.Logger, report *run.Report, scored []transaction.ScoredTransaction) {
	if s.deps.Alerts == nil {
		return
	}
	sent, err := s.deps.Alerts.Dispatch(ctx, report.RunID, scored)
	if err != nil {
		s.stepFailed(logger, report, StepAlerts, err)
		return
	}
	report.AlertsSent = sent
}

func (s *RunServiceImpl) recordRejections(ctx context.Context, logger *slog.Logger, report *run.Report, rejected []transaction.RejectedRecord) {
	if s.deps.Rejections == nil || len(rejected) == 0 {
		return
	}
	sent, err := s.deps.Rejections.Record(ctx, report.RunID, rejected)
	if err != nil {
		s.stepFailed(logger, report, StepDLQ, err)
		return
	}
	report.DeadLettered = sent
}

func (s *RunServiceImpl) saveReport(ctx context.Context, logger *slog.Logger, report *run.Report) {
	if s.deps.Reports == nil {
		return
	}
	if err := s.deps.Reports.Save(ctx, report); err != nil {
		s.stepFailed(logger, report, StepReport, err)
	}
}

func (s *RunServiceImpl) invalidateCache(ctx context.Context, logger *slog.Logger, report *run.Report) {
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.Invalidate(ctx); err != nil {
		s.stepFailed(logger, report, StepCache, err)
	}
}

func (s *RunServiceImpl) publishMetrics(ctx context.Context, logger *slog.Logger, report *run.Report) {
	if s.deps.Metrics == nil {
		return
	}
	if err := s.deps.Metrics.Publish(ctx, report); err != nil {
		logger.Error("Side output failed", "step", StepMetrics, "error", err)
	}
}

func (s *RunServiceImpl) stepFailed(logger *slog.Logger, report *run.Report, step string, err error) {
	logger.Error("Side output failed", "step", step, "error", err)
	report.RecordStepFailure(step)
	if s.deps.Metrics != nil {
		s.deps.Metrics.SideOutputFailed(step)
	}
}
