package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/gatehouse/pkg/observability"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.HealthPort)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.False(t, cfg.Auth.OfflineMode)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 120, cfg.RateLimit.Read.MaxRequests)
	assert.Equal(t, 60, cfg.RateLimit.Write.MaxRequests)
	assert.Equal(t, 30, cfg.RateLimit.Billing.MaxRequests)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, observability.InfoLevel, cfg.LogLevel)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("GATEHOUSE_PORT", "3000")
	t.Setenv("GATEHOUSE_OFFLINE_MODE", "true")
	t.Setenv("GATEHOUSE_REDIS_URL", "localhost:6379")
	t.Setenv("GATEHOUSE_RATE_LIMIT_READ", "500")
	t.Setenv("GATEHOUSE_RATE_LIMIT_WRITE", "200")
	t.Setenv("GATEHOUSE_RATE_LIMIT_BILLING", "50")
	t.Setenv("GATEHOUSE_RATE_LIMIT_WINDOW", "30s")
	t.Setenv("GATEHOUSE_IDEMPOTENCY_TTL", "1h")
	t.Setenv("GATEHOUSE_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.True(t, cfg.Auth.OfflineMode)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 500, cfg.RateLimit.Read.MaxRequests)
	assert.Equal(t, 200, cfg.RateLimit.Write.MaxRequests)
	assert.Equal(t, 50, cfg.RateLimit.Billing.MaxRequests)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Read.Window)
	assert.Equal(t, time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, observability.DebugLevel, cfg.LogLevel)
}

func TestLoadConfigRejectsInvertedCeilings(t *testing.T) {
	t.Setenv("GATEHOUSE_RATE_LIMIT_READ", "10")
	t.Setenv("GATEHOUSE_RATE_LIMIT_WRITE", "50")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read rate ceiling")
}

func TestLoadConfigRejectsWriteBelowBilling(t *testing.T) {
	t.Setenv("GATEHOUSE_RATE_LIMIT_WRITE", "20")
	t.Setenv("GATEHOUSE_RATE_LIMIT_BILLING", "40")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write rate ceiling")
}

func TestLoadConfigRejectsSharedPorts(t *testing.T) {
	t.Setenv("GATEHOUSE_PORT", "8080")
	t.Setenv("GATEHOUSE_HEALTH_PORT", "8080")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be different")
}

func TestValidateRejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("GATEHOUSE_IDEMPOTENCY_TTL", "-1h")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "idempotency TTL")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, observability.DebugLevel, parseLogLevel("debug"))
	assert.Equal(t, observability.WarnLevel, parseLogLevel("WARN"))
	assert.Equal(t, observability.WarnLevel, parseLogLevel("warning"))
	assert.Equal(t, observability.ErrorLevel, parseLogLevel("error"))
	assert.Equal(t, observability.InfoLevel, parseLogLevel("anything-else"))
}
