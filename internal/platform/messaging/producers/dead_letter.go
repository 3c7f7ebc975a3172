package producers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/fraud-risk-scorer/internal/config"
	"github.com/fraud-risk-scorer/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

var errDLQDisabled = errors.New("DLQ producer not initialized")

// RejectedRecordMessage is the DLQ payload for one input row that was not scored
type RejectedRecordMessage struct {
	RunID      string                      `json:"run_id"`
	Reason     transaction.RejectionReason `json:"dlq_reason"`
	Field      string                      `json:"missing_field"`
	Record     transaction.RawRecord       `json:"original_record"`
	RejectedAt time.Time                   `json:"rejected_at"`
}

func NewRejectedRecordMessage(runID uuid.UUID, rej transaction.RejectedRecord, now time.Time) RejectedRecordMessage {
	return RejectedRecordMessage{
		RunID:      runID.String(),
		Reason:     rej.Err.Reason(),
		Field:      rej.Err.Field,
		Record:     rej.Record,
		RejectedAt: now.UTC(),
	}
}

type DLQProducer struct {
	logger   *slog.Logger
	writer   KafkaWriter
	dlqTopic string
}

// NewDLQProducer returns nil when no DLQ topic is configured
func NewDLQProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*DLQProducer, error) {
	if !cfg.DLQEnabled() {
		logger.Info("DLQ topic is not configured, rejected records stay in the run report only")
		return nil, nil
	}

	writer, err := newSyncWriter(cfg, cfg.DLQTopic, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create dlq producer: %w", err)
	}

	return &DLQProducer{
		logger:   logger,
		writer:   writer,
		dlqTopic: cfg.DLQTopic,
	}, nil
}

// PublishRejected dead-letters every rejected input row of a run in one
// batch. The key is the transaction id, or the input row when it is missing.
func (p *DLQProducer) PublishRejected(ctx context.Context, runID uuid.UUID, rejected []transaction.RejectedRecord) (int, error) {
	if p == nil || p.writer == nil {
		return 0, errDLQDisabled
	}
	if len(rejected) == 0 {
		return 0, nil
	}

	now := time.Now()
	msgs := make([]kafka.Message, 0, len(rejected))
	for _, rej := range rejected {
		value, err := json.Marshal(NewRejectedRecordMessage(runID, rej, now))
		if err != nil {
			return 0, fmt.Errorf("failed to marshal rejected record %d: %w", rej.Record.Index, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(rejectedKey(rej.Record)),
			Value: value,
			Headers: []kafka.Header{
				{Key: "dlq-reason", Value: []byte(rej.Err.Reason())},
				{Key: "run-id", Value: []byte(runID.String())},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.logger.Error("Failed to publish rejected records to DLQ",
			"topic", p.dlqTopic,
			"count", len(msgs),
			"error", err,
		)
		return 0, fmt.Errorf("failed to publish rejected records to DLQ %s: %w", p.dlqTopic, err)
	}

	p.logger.Info("Published rejected records to DLQ", "topic", p.dlqTopic, "count", len(msgs))
	return len(msgs), nil
}

func rejectedKey(record transaction.RawRecord) string {
	if record.TransactionID != "" {
		return record.TransactionID
	}
	return "row-" + strconv.Itoa(record.Index)
}

func (p *DLQProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	p.logger.Info("Closing DLQ producer", "topic", p.dlqTopic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close dlq kafka writer for topic %s: %w", p.dlqTopic, err)
	}
	return nil
}
