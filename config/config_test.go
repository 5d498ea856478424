package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  name: aquadash\n"))
	require.NoError(t, err)

	assert.Equal(t, "XOF", cfg.App.Currency)
	assert.Equal(t, "mock", cfg.Database.Type)
	assert.Equal(t, "local", cfg.Lock.Type)
	assert.Equal(t, "logging", cfg.Worker.Publisher)
	assert.Equal(t, "0.60", cfg.Policy.MinFirstPaymentRatio)
	assert.Equal(t, "0.15", cfg.Policy.DefaultDeliveryFeeRatio)
	assert.Equal(t, "0.015", cfg.Policy.PenaltyRatio)
	assert.Equal(t, 5*time.Second, cfg.Lock.WaitTimeout)
	assert.Equal(t, 3, cfg.Database.Retry.MaxAttempts)
	assert.Equal(t, time.Minute, cfg.Worker.ProcessingTimeout)
	assert.True(t, cfg.IsDevelopment())

	loc, err := cfg.App.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
app:
  env: production
  timezone: Africa/Dakar
server:
  port: "9090"
lock:
  type: redis
  redis_addr: redis:6379
`)
	t.Setenv("AQUADASH_SERVER_PORT", "7070")
	t.Setenv("AQUADASH_POLICY_PENALTY_RATIO", "0.02")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "0.02", cfg.Policy.PenaltyRatio)
	assert.Equal(t, "redis", cfg.Lock.Type)
	assert.Equal(t, "redis:6379", cfg.Lock.RedisAddr)
	assert.Equal(t, "Africa/Dakar", cfg.App.Timezone)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"database type", "database:\n  type: oracle\n"},
		{"lock type", "lock:\n  type: zookeeper\n"},
		{"publisher", "worker:\n  publisher: carrier-pigeon\n"},
		{"timezone", "app:\n  timezone: Mars/Olympus\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
