package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/fraud-risk-scorer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{"DebugLevel", "debug", slog.LevelDebug},
		{"InfoLevel", "info", slog.LevelInfo},
		{"WarnLevel", "warn", slog.LevelWarn},
		{"WarningAlias", "WARNING", slog.LevelWarn},
		{"ErrorLevel", "error", slog.LevelError},
		{"DefaultToInfo", "unknown", slog.LevelInfo},
		{"EmptyToInfo", "", slog.LevelInfo},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseLevel(tc.input))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("WritesJSONWithAppAttributes", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &config.Config{
			Application: config.ApplicationConfig{Name: "fraud-risk-scorer", Env: "test"},
			Logging:     config.LoggingConfig{Level: "info"},
		}

		logger := New(&buf, cfg)
		require.NotNil(t, logger)
		logger.Info("batch scored", "run_id", "r1")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)

		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
		assert.Equal(t, "batch scored", entry["msg"])
		assert.Equal(t, "r1", entry["run_id"])
		assert.Equal(t, "fraud-risk-scorer", entry["app"])
		assert.Equal(t, "test", entry["env"])
		assert.NotContains(t, entry, "source")
	})

	t.Run("DebugAddsSource", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, &config.Config{Logging: config.LoggingConfig{Level: "debug"}})

		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
		assert.Contains(t, buf.String(), `"source"`)
	})

	t.Run("ErrorLevelFiltersInfo", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, &config.Config{Logging: config.LoggingConfig{Level: "error"}})

		assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
		assert.Empty(t, buf.String(), "initialization message is below the error level")
	})
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger(&config.Config{Logging: config.LoggingConfig{Level: "warn"}})
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
}
