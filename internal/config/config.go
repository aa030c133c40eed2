package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the Campaign-Pulse application.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	ClickHouse ClickHouseConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
	Metrics    MetricsConfig
	Cache      CacheConfig
	Scoring    ScoringConfig
}

type ServerConfig struct {
	Addr            string
	Env             string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ClickHouseConfig configures the analytical delivery-row store.
type ClickHouseConfig struct {
	Enabled  bool
	Addr     string
	Database string
	User     string
	Password string
}

type AuthConfig struct {
	Enabled   bool
	MasterKey string
	SkipPaths []string
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// CacheConfig configures the Redis health-result cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// ScoringConfig carries the health-engine knobs that are tunable per
// deployment. Banding thresholds live in the scoring package defaults;
// only benchmark-style inputs are exposed through the environment.
type ScoringConfig struct {
	// CTRBenchmark is the reference click-through rate in percent.
	CTRBenchmark float64
	// ExpectedHeadroom synthesizes a delivery target from actuals when no
	// impressions goal is on file.
	ExpectedHeadroom float64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("CAMPAIGN_PULSE_HTTP_ADDR", ":8080"),
			Env:             getEnv("CAMPAIGN_PULSE_ENV", "development"),
			ShutdownTimeout: getDurationEnv("CAMPAIGN_PULSE_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("CAMPAIGN_PULSE_DB_HOST", "localhost"),
			Port:     getIntEnv("CAMPAIGN_PULSE_DB_PORT", 5432),
			User:     getEnv("CAMPAIGN_PULSE_DB_USER", "pulse"),
			Password: getEnv("CAMPAIGN_PULSE_DB_PASSWORD", "pulse_secret"),
			DBName:   getEnv("CAMPAIGN_PULSE_DB_NAME", "pulse"),
			SSLMode:  getEnv("CAMPAIGN_PULSE_DB_SSLMODE", "disable"),
			MaxConns: getIntEnv("CAMPAIGN_PULSE_DB_MAX_CONNS", 25),
			MinConns: getIntEnv("CAMPAIGN_PULSE_DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Addr:     getEnv("CAMPAIGN_PULSE_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("CAMPAIGN_PULSE_REDIS_PASSWORD", ""),
			DB:       getIntEnv("CAMPAIGN_PULSE_REDIS_DB", 0),
		},
		ClickHouse: ClickHouseConfig{
			Enabled:  getBoolEnv("CAMPAIGN_PULSE_CLICKHOUSE_ENABLED", false),
			Addr:     getEnv("CAMPAIGN_PULSE_CLICKHOUSE_ADDR", "localhost:9000"),
			Database: getEnv("CAMPAIGN_PULSE_CLICKHOUSE_DB", "pulse"),
			User:     getEnv("CAMPAIGN_PULSE_CLICKHOUSE_USER", "default"),
			Password: getEnv("CAMPAIGN_PULSE_CLICKHOUSE_PASSWORD", ""),
		},
		Auth: AuthConfig{
			Enabled:   getBoolEnv("CAMPAIGN_PULSE_AUTH_ENABLED", true),
			MasterKey: getEnv("CAMPAIGN_PULSE_API_KEY_MASTER", ""),
			SkipPaths: getSliceEnv("CAMPAIGN_PULSE_AUTH_SKIP_PATHS", []string{"/health", "/metrics"}),
		},
		RateLimit: RateLimitConfig{
			Enabled: getBoolEnv("CAMPAIGN_PULSE_RATE_LIMIT_ENABLED", true),
			RPS:     getFloatEnv("CAMPAIGN_PULSE_RATE_LIMIT_RPS", 100),
			Burst:   getIntEnv("CAMPAIGN_PULSE_RATE_LIMIT_BURST", 20),
		},
		Log: LogConfig{
			Level:  getEnv("CAMPAIGN_PULSE_LOG_LEVEL", "info"),
			Format: getEnv("CAMPAIGN_PULSE_LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolEnv("CAMPAIGN_PULSE_METRICS_ENABLED", true),
			Path:    getEnv("CAMPAIGN_PULSE_METRICS_PATH", "/metrics"),
		},
		Cache: CacheConfig{
			Enabled: getBoolEnv("CAMPAIGN_PULSE_CACHE_ENABLED", true),
			TTL:     getDurationEnv("CAMPAIGN_PULSE_CACHE_TTL", 5*time.Minute),
		},
		Scoring: ScoringConfig{
			CTRBenchmark:     getFloatEnv("CAMPAIGN_PULSE_CTR_BENCHMARK", 0.5),
			ExpectedHeadroom: getFloatEnv("CAMPAIGN_PULSE_EXPECTED_HEADROOM", 1.1),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Auth.Enabled && c.Auth.MasterKey == "" {
		return fmt.Errorf("CAMPAIGN_PULSE_API_KEY_MASTER is required when auth is enabled")
	}
	if c.Scoring.CTRBenchmark < 0 {
		return fmt.Errorf("CAMPAIGN_PULSE_CTR_BENCHMARK must not be negative")
	}
	if c.Scoring.ExpectedHeadroom <= 0 {
		return fmt.Errorf("CAMPAIGN_PULSE_EXPECTED_HEADROOM must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Helper functions for reading environment variables

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getFloatEnv(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getSliceEnv(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				result = append(result, p)
			}
		}
		return result
	}
	return def
}
