package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp switches into a fresh directory with a configs subdirectory
func chdirTemp(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tempDir, "configs"), 0755))

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = os.Chdir(originalWD)
	})
	require.NoError(t, os.Chdir(tempDir))
	return tempDir
}

func TestLoadConfig_HappyPath(t *testing.T) {
	tempDir := chdirTemp(t)

	testAppName := "TestScorer"
	testPort := 9090
	testLogLevel := "debug"
	testInput := "data/transactions.csv"

	envContent := fmt.Sprintf(
		"APP_NAME=%s\nSERVER_PORT=%d\nLOG_LEVEL=%s\nBATCH_INPUT_PATH=%s\nKAFKA_ALERT_TOPIC=fraud_alerts\nREDIS_ADDR=localhost:6379\n",
		testAppName, testPort, testLogLevel, testInput,
	)
	err := os.WriteFile(filepath.Join(tempDir, "configs", "test_happy.env"), []byte(envContent), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig("test_happy")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, testAppName, cfg.Application.Name)
	assert.Equal(t, testPort, cfg.Server.Port)
	assert.Equal(t, testLogLevel, cfg.Logging.Level)
	assert.Equal(t, testInput, cfg.Batch.InputPath)
	assert.Equal(t, "fraud_alerts", cfg.Kafka.AlertTopic)
	assert.True(t, cfg.Kafka.AlertsEnabled())
	assert.False(t, cfg.Kafka.DLQEnabled())
	assert.True(t, cfg.Redis.Enabled())

	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, 8, cfg.WorkerPool.Size)
	assert.Equal(t, 5*time.Minute, cfg.Redis.SummaryTTL)
	assert.Equal(t, "", cfg.Batch.ExportDir)
	assert.Equal(t, "fraud_scorer", cfg.Metrics.JobName)

	cfgWithName, err := LoadConfigWithName("configs/test_happy")
	require.NoError(t, err)
	assert.Equal(t, testAppName, cfgWithName.Application.Name)

	cfgWithNameAndType, err := LoadConfigWithNameAndType("configs/test_happy", "env")
	require.NoError(t, err)
	assert.Equal(t, testAppName, cfgWithNameAndType.Application.Name)
}

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig("does_not_exist")
	require.NoError(t, err)
	assert.Equal(t, "transactions_uncleaned.csv", cfg.Batch.InputPath)
	assert.False(t, cfg.Kafka.AlertsEnabled())
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	tempDir := chdirTemp(t)
	err := os.WriteFile(filepath.Join(tempDir, "configs", "test_env.env"), []byte("WORKER_POOL_SIZE=3\n"), 0644)
	require.NoError(t, err)

	t.Setenv("WORKER_POOL_SIZE", "16")
	t.Setenv("BATCH_EXPORT_DIR", "/tmp/reports")

	cfg, err := LoadConfig("test_env")
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.WorkerPool.Size)
	assert.Equal(t, "/tmp/reports", cfg.Batch.ExportDir)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tempDir := chdirTemp(t)
	content := "WORKER_POOL_SIZE=0\nSERVER_PORT=-1\n"
	err := os.WriteFile(filepath.Join(tempDir, "configs", "test_invalid.env"), []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig("test_invalid")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "WORKER_POOL_SIZE must be greater than 0")
	assert.Contains(t, err.Error(), "SERVER_PORT must be greater than 0")
}

func defaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, defaultConfig().validate(), "Default config should be valid")
	})

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "kafka topic without brokers",
			mutate:  func(c *Config) { c.Kafka.Brokers = ""; c.Kafka.DLQTopic = "fraud_dlq" },
			wantErr: "KAFKA_BROKERS is required when a Kafka topic is set",
		},
		{
			name:    "same alert and dlq topic",
			mutate:  func(c *Config) { c.Kafka.AlertTopic = "t"; c.Kafka.DLQTopic = "t" },
			wantErr: "KAFKA_ALERT_TOPIC and KAFKA_DLQ_TOPIC must differ",
		},
		{
			name:    "min conns above max",
			mutate:  func(c *Config) { c.Postgres.MinConns = 50 },
			wantErr: "POSTGRES_MIN_CONNS must not exceed POSTGRES_MAX_CONNS",
		},
		{
			name:    "redis without ttl",
			mutate:  func(c *Config) { c.Redis.Addr = "localhost:6379"; c.Redis.SummaryTTL = 0 },
			wantErr: "REDIS_SUMMARY_TTL must be greater than 0",
		},
		{
			name:    "missing input path",
			mutate:  func(c *Config) { c.Batch.InputPath = "" },
			wantErr: "BATCH_INPUT_PATH is required",
		},
		{
			name:    "pushgateway without job",
			mutate:  func(c *Config) { c.Metrics.PushgatewayURL = "http://localhost:9091"; c.Metrics.JobName = "" },
			wantErr: "METRICS_JOB_NAME is required",
		},
		{
			name:    "mongo pool size",
			mutate:  func(c *Config) { c.MongoDB.MaxPoolSize = 0 },
			wantErr: "MONGO_MAX_POOL_SIZE must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
