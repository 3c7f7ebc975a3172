// Package redis caches reporting query results in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fraud-risk-scorer/internal/domain/transaction"
	goredis "github.com/redis/go-redis/v9"
)

// SummaryKey holds the JSON encoded fraud summary
const SummaryKey = "fraud:summary"

// Client is the subset of the go-redis client the cache uses
type Client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

var _ Client = (*goredis.Client)(nil)

// SummaryCache stores the fraud summary between runs
type SummaryCache struct {
	client Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewSummaryCache(client Client, ttl time.Duration, logger *slog.Logger) *SummaryCache {
	return &SummaryCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached summary. A miss is reported with ok=false and no error.
func (c *SummaryCache) Get(ctx context.Context) ([]transaction.SummaryRow, bool, error) {
	value, err := c.client.Get(ctx, SummaryKey).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read summary cache: %w", err)
	}

	var rows []transaction.SummaryRow
	if err := json.Unmarshal([]byte(value), &rows); err != nil {
		c.logger.Warn("Discarding unreadable summary cache entry", "error", err)
		return nil, false, nil
	}
	return rows, true, nil
}

// Set stores the summary with the configured TTL
func (c *SummaryCache) Set(ctx context.Context, rows []transaction.SummaryRow) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := c.client.Set(ctx, SummaryKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write summary cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached summary so the next read goes to the database
func (c *SummaryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, SummaryKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summary cache: %w", err)
	}
	c.logger.Debug("Invalidated summary cache")
	return nil
}
