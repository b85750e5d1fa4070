package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	require := require.New(t)
	t.Setenv("API_KEY", "")

	cfg, err := Load()
	require.NoError(err)
	require.Equal(":8080", cfg.Server.Addr)
	require.Equal(SourceMemory, cfg.Source.Kind)
	require.False(cfg.Redis.Enabled)
	require.Equal("gemini-3-pro-preview", cfg.Gemini.Model)
	require.Equal(0.7, cfg.Gemini.Temperature)
	require.Equal(0.95, cfg.Gemini.TopP)
	require.Equal(5, cfg.Dashboard.ChartLimit)
	require.True(cfg.IsDevelopment())
	require.False(cfg.AIEnabled())
}

func TestLoadOverrides(t *testing.T) {
	require := require.New(t)
	t.Setenv("ADPULSE_SOURCE", "ClickHouse")
	t.Setenv("ADPULSE_CH_ADDRS", "ch1:9000, ch2:9000")
	t.Setenv("ADPULSE_SESSION_IDLE_TTL", "30m")
	t.Setenv("ADPULSE_GEMINI_API_KEY", "k")
	t.Setenv("ADPULSE_RATE_LIMIT_AI_BURST", "not-a-number")

	cfg, err := Load()
	require.NoError(err)
	require.Equal(SourceClickHouse, cfg.Source.Kind)
	require.Equal([]string{"ch1:9000", "ch2:9000"}, cfg.ClickHouse.Addrs)
	require.Equal(30*time.Minute, cfg.Session.IdleTTL)
	require.Equal(5, cfg.RateLimit.AIBurst)
	require.True(cfg.AIEnabled())
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	t.Setenv("ADPULSE_SOURCE", "mysql")
	_, err := Load()
	require.Error(t, err)
}

func TestValidateRateLimit(t *testing.T) {
	t.Setenv("ADPULSE_RATE_LIMIT_RPS", "0")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("ADPULSE_RATE_LIMIT_ENABLED", "false")
	_, err = Load()
	require.NoError(t, err)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{User: "u", Password: "p", Host: "db", Port: 5433, DBName: "ads", SSLMode: "require"}
	require.Equal(t, "postgres://u:p@db:5433/ads?sslmode=require", d.DSN())
}
