package run

import (
	"time"

	"github.com/fraud-risk-scorer/internal/domain/transaction"
	"github.com/google/uuid"
)

// Status defines batch run states
type Status string

const (
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Rejection is a rejected input row as stored in the run report
type Rejection struct {
	Record transaction.RawRecord       `json:"record" bson:"record"`
	Reason transaction.RejectionReason `json:"reason" bson:"reason"`
	Error  string                      `json:"error" bson:"error"`
}

// Report records the outcome of one batch scoring run
type Report struct {
	RunID          uuid.UUID                         `json:"run_id" bson:"run_id"`
	InputPath      string                            `json:"input_path" bson:"input_path"`
	Status         Status                            `json:"status" bson:"status"`
	FailureReason  string                            `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	TotalRecords   int                               `json:"total_records" bson:"total_records"`
	ScoredRecords  int                               `json:"scored_records" bson:"scored_records"`
	FlaggedRecords int                               `json:"flagged_records" bson:"flagged_records"`
	IndicatorHits  map[transaction.IndicatorName]int `json:"indicator_hits" bson:"indicator_hits"`
	Summary        []transaction.SummaryRow          `json:"summary" bson:"summary"`
	Rejections     []Rejection                       `json:"rejections,omitempty" bson:"rejections,omitempty"`
	AlertsSent     int                               `json:"alerts_sent" bson:"alerts_sent"`
	DeadLettered   int                               `json:"dead_lettered" bson:"dead_lettered"`
	ExportedFiles  []string                          `json:"exported_files,omitempty" bson:"exported_files,omitempty"`
	FailedSteps    []string                          `json:"failed_steps,omitempty" bson:"failed_steps,omitempty"`
	StartedAt      time.Time                         `json:"started_at" bson:"started_at"`
	FinishedAt     *time.Time                        `json:"finished_at,omitempty" bson:"finished_at,omitempty"`
}

// NewReport starts a report for a run reading the given input
func NewReport(runID uuid.UUID, inputPath string) *Report {
	return &Report{
		RunID:         runID,
		InputPath:     inputPath,
		Status:        StatusRunning,
		IndicatorHits: make(map[transaction.IndicatorName]int),
		StartedAt:     time.Now().UTC(),
	}
}

// RecordScores fills the counters from the scored output
func (r *Report) RecordScores(scored []transaction.ScoredTransaction) {
	r.ScoredRecords = len(scored)
	r.FlaggedRecords = 0
	for _, name := range transaction.AllIndicators {
		r.IndicatorHits[name] = 0
	}
	for _, s := range scored {
		if s.FraudFlag {
			r.FlaggedRecords++
		}
		for _, name := range s.Indicators.Fired() {
			r.IndicatorHits[name]++
		}
	}
	r.Summary = transaction.Summarize(scored)
}

// RecordRejections stores the rejected rows with their reasons
func (r *Report) RecordRejections(rejected []transaction.RejectedRecord) {
	r.Rejections = make([]Rejection, 0, len(rejected))
	for _, rej := range rejected {
		r.Rejections = append(r.Rejections, Rejection{
			Record: rej.Record,
			Reason: rej.Err.Reason(),
			Error:  rej.Err.Error(),
		})
	}
}

// RecordStepFailure notes a side output that failed without aborting the run
func (r *Report) RecordStepFailure(step string) {
	r.FailedSteps = append(r.FailedSteps, step)
}

func (r *Report) MarkCompleted() {
	r.Status = StatusCompleted
	now := time.Now().UTC()
	r.FinishedAt = &now
}

func (r *Report) MarkFailed(reason string) {
	r.Status = StatusFailed
	r.FailureReason = reason
	now := time.Now().UTC()
	r.FinishedAt = &now
}
