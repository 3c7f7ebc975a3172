// Package mongo stores batch run reports in MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fraud-risk-scorer/internal/domain/run"
)

const (
	// RunReportCollectionName is the name of the run report collection in MongoDB
	RunReportCollectionName = "run_reports"
)

// RunReportRepository implements the run.Repository interface for MongoDB
type RunReportRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewRunReportRepository creates a new MongoDB run report repository
func NewRunReportRepository(logger *slog.Logger, db *mongo.Database) run.Repository {
	return &RunReportRepository{
		db:     db,
		logger: logger,
	}
}

// Save inserts the report or replaces the stored one with the same run ID
func (r *RunReportRepository) Save(ctx context.Context, report *run.Report) error {
	collection := r.db.Collection(RunReportCollectionName)

	filter := bson.M{"run_id": report.RunID}
	opts := options.Replace().SetUpsert(true)

	if _, err := collection.ReplaceOne(ctx, filter, report, opts); err != nil {
		r.logger.Error("Failed to save run report",
			"run_id", report.RunID.String(),
			"error", err)
		return fmt.Errorf("failed to save run report: %w", err)
	}

	return nil
}

// GetByRunID returns ErrReportNotFound when no report exists for the run
func (r *RunReportRepository) GetByRunID(ctx context.Context, runID uuid.UUID) (*run.Report, error) {
	collection := r.db.Collection(RunReportCollectionName)

	var report run.Report
	err := collection.FindOne(ctx, bson.M{"run_id": runID}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, run.ErrReportNotFound{RunID: runID}
		}
		r.logger.Error("Failed to get run report",
			"run_id", runID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get run report: %w", err)
	}

	return &report, nil
}

// ListRecent returns the latest reports, newest first
func (r *RunReportRepository) ListRecent(ctx context.Context, limit int) ([]*run.Report, error) {
	collection := r.db.Collection(RunReportCollectionName)

	opts := options.Find().
		SetSort(bson.M{"started_at": -1}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to list run reports", "error", err)
		return nil, fmt.Errorf("failed to list run reports: %w", err)
	}
	defer cursor.Close(ctx)

	reports := make([]*run.Report, 0)
	if err := cursor.All(ctx, &reports); err != nil {
		r.logger.Error("Failed to decode run reports", "error", err)
		return nil, fmt.Errorf("failed to decode run reports: %w", err)
	}

	return reports, nil
}
