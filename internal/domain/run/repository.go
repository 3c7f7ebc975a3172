package run

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages run report persistence
type Repository interface {
	Save(ctx context.Context, report *Report) error
	GetByRunID(ctx context.Context, runID uuid.UUID) (*Report, error)
	ListRecent(ctx context.Context, limit int) ([]*Report, error)
}

// ErrReportNotFound indicates a missing run report
type ErrReportNotFound struct {
	RunID uuid.UUID
}

func (e ErrReportNotFound) Error() string {
	return "run report not found: " + e.RunID.String()
}

// Is implements the errors.Is interface for ErrReportNotFound
func (e ErrReportNotFound) Is(target error) bool {
	t, ok := target.(ErrReportNotFound)
	if !ok {
		return false
	}
	// If the target RunID is empty, consider it a match for any ErrReportNotFound
	if t.RunID == uuid.Nil {
		return true
	}
	return e.RunID == t.RunID
}
