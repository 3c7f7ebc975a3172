package producers

import (
	"context"

	"github.com/fraud-risk-scorer/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// AlertPublisher publishes flagged transactions as fraud alerts
type AlertPublisher interface {
	PublishAlerts(ctx context.Context, runID uuid.UUID, flagged []transaction.ScoredTransaction) (int, error)
	Close() error
}

// DeadLetterPublisher sends input rows that could not be scored to the DLQ
type DeadLetterPublisher interface {
	PublishRejected(ctx context.Context, runID uuid.UUID, rejected []transaction.RejectedRecord) (int, error)
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
