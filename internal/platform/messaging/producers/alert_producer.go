package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/fraud-risk-scorer/internal/config"
	"github.com/fraud-risk-scorer/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// FraudAlert is the message value published for every flagged transaction
type FraudAlert struct {
	RunID           uuid.UUID                   `json:"run_id"`
	TransactionID   string                      `json:"transaction_id"`
	CardID          string                      `json:"card_id"`
	Amount          *string                     `json:"amount"`
	TransactionTime *time.Time                  `json:"transaction_time"`
	City            *string                     `json:"city"`
	Indicators      []transaction.IndicatorName `json:"indicators"`
	FraudScore      int                         `json:"fraud_score"`
	AlertedAt       time.Time                   `json:"alerted_at"`
}

// NewFraudAlert builds the alert payload for a flagged transaction
func NewFraudAlert(runID uuid.UUID, s transaction.ScoredTransaction, now time.Time) FraudAlert {
	var amount *string
	if s.HasAmount() {
		v := s.Amount.Decimal.String()
		amount = &v
	}
	return FraudAlert{
		RunID:           runID,
		TransactionID:   s.TransactionID,
		CardID:          s.CardID,
		Amount:          amount,
		TransactionTime: s.TransactionTime,
		City:            s.City,
		Indicators:      s.Fired(),
		FraudScore:      s.FraudScore,
		AlertedAt:       now,
	}
}

// AlertProducer publishes fraud alerts keyed by card so that a card's
// alerts stay on one partition
type AlertProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewAlertProducer returns nil when no alert topic is configured
func NewAlertProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*AlertProducer, error) {
	if !cfg.AlertsEnabled() {
		logger.Info("Alert topic is not configured. AlertProducer will not be initialized.")
		return nil, nil
	}

	writer, err := newSyncWriter(cfg, cfg.AlertTopic, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create fraud alert producer: %w", err)
	}

	return &AlertProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.AlertTopic,
	}, nil
}

// PublishAlerts writes one message per flagged transaction in a single batch
// and returns the number of alerts written. Unflagged entries are skipped.
func (p *AlertProducer) PublishAlerts(ctx context.Context, runID uuid.UUID, flagged []transaction.ScoredTransaction) (int, error) {
	now := time.Now().UTC()
	msgs := make([]kafka.Message, 0, len(flagged))
	for _, s := range flagged {
		if !s.FraudFlag {
			continue
		}
		value, err := json.Marshal(NewFraudAlert(runID, s, now))
		if err != nil {
			return 0, fmt.Errorf("failed to marshal fraud alert for %s: %w", s.TransactionID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(s.CardID),
			Value: value,
			Headers: []kafka.Header{
				{Key: "run-id", Value: []byte(runID.String())},
			},
		})
	}

	if len(msgs) == 0 {
		return 0, nil
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.logger.Error("Failed to publish fraud alerts",
			"topic", p.topic,
			"count", len(msgs),
			"error", err,
		)
		return 0, fmt.Errorf("failed to publish fraud alerts to %s: %w", p.topic, err)
	}

	p.logger.Info("Published fraud alerts", "topic", p.topic, "count", len(msgs))
	return len(msgs), nil
}

func (p *AlertProducer) Close() error {
	p.logger.Info("Closing fraud alert producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close fraud alert writer for topic %s: %w", p.topic, err)
	}
	return nil
}
