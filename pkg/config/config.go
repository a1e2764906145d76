package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/platinummonkey/gatehouse/pkg/observability"
	"github.com/platinummonkey/gatehouse/pkg/ratelimit"
)

// Config holds all gateway configuration
type Config struct {
	Server      ServerConfig
	Auth        AuthConfig
	Redis       RedisConfig
	RateLimit   ratelimit.Config
	Idempotency IdempotencyConfig
	Audit       AuditConfig
	LogLevel    observability.LogLevel
}

// AuditConfig holds audit trail settings. An empty LogPath disables auditing.
type AuditConfig struct {
	LogPath string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	// OfflineMode bypasses the identity provider with a fixed synthetic
	// identity. Never enabled by default.
	OfflineMode bool
}

// RedisConfig holds Redis connection settings. An empty URL means the gateway
// runs on in-memory stores.
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// Enabled reports whether Redis-backed stores should be used
func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

// IdempotencyConfig holds idempotency record settings
type IdempotencyConfig struct {
	TTL time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("GATEHOUSE_HOST", "0.0.0.0"),
			Port:            getEnv("GATEHOUSE_PORT", "8080"),
			ReadTimeout:     getEnvDuration("GATEHOUSE_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("GATEHOUSE_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("GATEHOUSE_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("GATEHOUSE_SHUTDOWN_TIMEOUT", 30*time.Second),
			MaxBodyBytes:    getEnvInt64("GATEHOUSE_MAX_BODY_BYTES", 1<<20),
			HealthPort:      getEnv("GATEHOUSE_HEALTH_PORT", "9090"),
		},
		Auth: AuthConfig{
			OfflineMode: getEnvBool("GATEHOUSE_OFFLINE_MODE", false),
		},
		Redis: RedisConfig{
			URL:      getEnv("GATEHOUSE_REDIS_URL", ""),
			Password: getEnv("GATEHOUSE_REDIS_PASSWORD", ""),
			DB:       getEnvInt("GATEHOUSE_REDIS_DB", 0),
		},
		RateLimit:   loadRateLimitConfig(),
		Idempotency: IdempotencyConfig{TTL: getEnvDuration("GATEHOUSE_IDEMPOTENCY_TTL", 24*time.Hour)},
		Audit:       AuditConfig{LogPath: getEnv("GATEHOUSE_AUDIT_LOG", "")},
		LogLevel:    parseLogLevel(getEnv("GATEHOUSE_LOG_LEVEL", "info")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadRateLimitConfig() ratelimit.Config {
	cfg := ratelimit.DefaultConfig()
	if v := getEnvInt("GATEHOUSE_RATE_LIMIT_READ", 0); v > 0 {
		cfg.Read.MaxRequests = v
	}
	if v := getEnvInt("GATEHOUSE_RATE_LIMIT_WRITE", 0); v > 0 {
		cfg.Write.MaxRequests = v
	}
	if v := getEnvInt("GATEHOUSE_RATE_LIMIT_BILLING", 0); v > 0 {
		cfg.Billing.MaxRequests = v
	}
	if d := getEnvDuration("GATEHOUSE_RATE_LIMIT_WINDOW", 0); d > 0 {
		cfg.Read.Window = d
		cfg.Write.Window = d
		cfg.Billing.Window = d
	}
	return cfg
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	// Ceiling ordering invariant: reads above writes, writes above
	// billing-sensitive endpoints.
	rl := c.RateLimit
	if rl.Read.MaxRequests <= rl.Write.MaxRequests {
		return fmt.Errorf("read rate ceiling (%d) must exceed write ceiling (%d)",
			rl.Read.MaxRequests, rl.Write.MaxRequests)
	}
	if rl.Write.MaxRequests <= rl.Billing.MaxRequests {
		return fmt.Errorf("write rate ceiling (%d) must exceed billing ceiling (%d)",
			rl.Write.MaxRequests, rl.Billing.MaxRequests)
	}

	if c.Idempotency.TTL <= 0 {
		return fmt.Errorf("idempotency TTL must be positive")
	}

	return nil
}

func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvInt64 returns an int64 environment variable or a default
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
