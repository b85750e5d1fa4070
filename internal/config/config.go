package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Source kinds for the campaign feed.
const (
	SourceMemory     = "memory"
	SourcePostgres   = "postgres"
	SourceClickHouse = "clickhouse"
)

// Config holds all configuration for the AdPulse service.
type Config struct {
	Server     ServerConfig
	Source     SourceConfig
	Database   DatabaseConfig
	ClickHouse ClickHouseConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
	Metrics    MetricsConfig
	Gemini     GeminiConfig
	Session    SessionConfig
	Dashboard  DashboardConfig
}

type ServerConfig struct {
	Addr            string
	Env             string
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
}

// SourceConfig selects where campaign records come from.
type SourceConfig struct {
	Kind string
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

// ClickHouseConfig configures the analytics warehouse feed.
type ClickHouseConfig struct {
	Addrs       []string
	Database    string
	User        string
	Password    string
	DialTimeout time.Duration
	MaxConns    int
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
	AIRPS   float64
	AIBurst int
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool
	Path      string
	Namespace string
}

// GeminiConfig configures the generative model used for analysis and chat.
type GeminiConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
	TopP        float64
}

// SessionConfig controls dashboard session expiry.
type SessionConfig struct {
	IdleTTL         time.Duration
	CleanupInterval time.Duration
	// PendingTTL bounds how long a chat request may hold its session's guard.
	PendingTTL time.Duration
}

type DashboardConfig struct {
	DefaultRange string
	ChartLimit   int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("ADPULSE_HTTP_ADDR", ":8080"),
			Env:             getEnv("ADPULSE_ENV", "development"),
			ShutdownTimeout: getDurationEnv("ADPULSE_SHUTDOWN_TIMEOUT", 30*time.Second),
			ReadTimeout:     getDurationEnv("ADPULSE_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("ADPULSE_WRITE_TIMEOUT", 90*time.Second),
		},
		Source: SourceConfig{
			Kind: strings.ToLower(getEnv("ADPULSE_SOURCE", SourceMemory)),
		},
		Database: DatabaseConfig{
			Host:     getEnv("ADPULSE_DB_HOST", "localhost"),
			Port:     getIntEnv("ADPULSE_DB_PORT", 5432),
			User:     getEnv("ADPULSE_DB_USER", "adpulse"),
			Password: getEnv("ADPULSE_DB_PASSWORD", "adpulse_secret"),
			DBName:   getEnv("ADPULSE_DB_NAME", "adpulse"),
			SSLMode:  getEnv("ADPULSE_DB_SSLMODE", "disable"),
			MaxConns: getIntEnv("ADPULSE_DB_MAX_CONNS", 10),
			MinConns: getIntEnv("ADPULSE_DB_MIN_CONNS", 2),
		},
		ClickHouse: ClickHouseConfig{
			Addrs:       getSliceEnv("ADPULSE_CH_ADDRS", []string{"localhost:9000"}),
			Database:    getEnv("ADPULSE_CH_DATABASE", "adpulse"),
			User:        getEnv("ADPULSE_CH_USER", "default"),
			Password:    getEnv("ADPULSE_CH_PASSWORD", ""),
			DialTimeout: getDurationEnv("ADPULSE_CH_DIAL_TIMEOUT", 5*time.Second),
			MaxConns:    getIntEnv("ADPULSE_CH_MAX_CONNS", 10),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("ADPULSE_REDIS_ENABLED", false),
			Addr:     getEnv("ADPULSE_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("ADPULSE_REDIS_PASSWORD", ""),
			DB:       getIntEnv("ADPULSE_REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Enabled: getBoolEnv("ADPULSE_RATE_LIMIT_ENABLED", true),
			RPS:     getFloatEnv("ADPULSE_RATE_LIMIT_RPS", 100),
			Burst:   getIntEnv("ADPULSE_RATE_LIMIT_BURST", 50),
			AIRPS:   getFloatEnv("ADPULSE_RATE_LIMIT_AI_RPS", 2),
			AIBurst: getIntEnv("ADPULSE_RATE_LIMIT_AI_BURST", 5),
		},
		Log: LogConfig{
			Level:  getEnv("ADPULSE_LOG_LEVEL", "info"),
			Format: getEnv("ADPULSE_LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled:   getBoolEnv("ADPULSE_METRICS_ENABLED", true),
			Path:      getEnv("ADPULSE_METRICS_PATH", "/metrics"),
			Namespace: getEnv("ADPULSE_METRICS_NAMESPACE", "adpulse"),
		},
		Gemini: GeminiConfig{
			APIKey:      getEnv("ADPULSE_GEMINI_API_KEY", os.Getenv("API_KEY")),
			Model:       getEnv("ADPULSE_GEMINI_MODEL", "gemini-3-pro-preview"),
			BaseURL:     getEnv("ADPULSE_GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Timeout:     getDurationEnv("ADPULSE_GEMINI_TIMEOUT", 60*time.Second),
			Temperature: getFloatEnv("ADPULSE_GEMINI_TEMPERATURE", 0.7),
			TopP:        getFloatEnv("ADPULSE_GEMINI_TOP_P", 0.95),
		},
		Session: SessionConfig{
			IdleTTL:         getDurationEnv("ADPULSE_SESSION_IDLE_TTL", 2*time.Hour),
			CleanupInterval: getDurationEnv("ADPULSE_SESSION_CLEANUP_INTERVAL", 5*time.Minute),
			PendingTTL:      getDurationEnv("ADPULSE_CHAT_PENDING_TTL", 2*time.Minute),
		},
		Dashboard: DashboardConfig{
			DefaultRange: getEnv("ADPULSE_DEFAULT_RANGE", "last_30_days"),
			ChartLimit:   getIntEnv("ADPULSE_CHART_LIMIT", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceMemory, SourcePostgres, SourceClickHouse:
	default:
		return fmt.Errorf("ADPULSE_SOURCE must be one of memory, postgres, clickhouse (got %q)", c.Source.Kind)
	}
	if c.Source.Kind == SourceClickHouse && len(c.ClickHouse.Addrs) == 0 {
		return fmt.Errorf("ADPULSE_CH_ADDRS is required for the clickhouse source")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
			return fmt.Errorf("ADPULSE_RATE_LIMIT_RPS and ADPULSE_RATE_LIMIT_BURST must be positive")
		}
		if c.RateLimit.AIRPS <= 0 || c.RateLimit.AIBurst <= 0 {
			return fmt.Errorf("ADPULSE_RATE_LIMIT_AI_RPS and ADPULSE_RATE_LIMIT_AI_BURST must be positive")
		}
	}
	if c.Gemini.Temperature < 0 || c.Gemini.TopP < 0 || c.Gemini.TopP > 1 {
		return fmt.Errorf("gemini temperature must be >= 0 and top_p within [0,1]")
	}
	if c.Session.IdleTTL <= 0 || c.Session.CleanupInterval <= 0 {
		return fmt.Errorf("ADPULSE_SESSION_IDLE_TTL and ADPULSE_SESSION_CLEANUP_INTERVAL must be positive")
	}
	if c.Dashboard.ChartLimit <= 0 {
		return fmt.Errorf("ADPULSE_CHART_LIMIT must be positive")
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

// AIEnabled reports whether a Gemini API key is configured.
func (c *Config) AIEnabled() bool {
	return c.Gemini.APIKey != ""
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
