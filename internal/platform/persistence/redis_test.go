package persistence

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/fraud-risk-scorer/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestRedisOptions(t *testing.T) {
	opts := RedisOptions(&config.RedisConfig{Addr: "cache:6379", Password: "secret", DB: 2})
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := NewRedisClient(ctx, slog.Default(), &config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Nil(t, client)
	assert.ErrorContains(t, err, "failed to ping Redis")
}
