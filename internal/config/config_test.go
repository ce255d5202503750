package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "pleme-support", cfg.App.Name)
	require.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	require.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	require.Equal(t, int32(10), cfg.Postgres.MaxConns)
	require.True(t, cfg.Postgres.RunMigrations)
	require.Equal(t, "info", cfg.Logger.Level)
	require.Equal(t, 60*time.Second, cfg.Dashboard.CacheTTL())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("POSTGRES_MAX_CONNS", "25")
	t.Setenv("DASHBOARD_CACHE_TTL_SECONDS", "0")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	require.Equal(t, int32(25), cfg.Postgres.MaxConns)
	require.Equal(t, time.Duration(0), cfg.Dashboard.CacheTTL())
	require.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadIgnoresMalformedInts(t *testing.T) {
	t.Setenv("POSTGRES_MAX_CONNS", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, int32(10), cfg.Postgres.MaxConns)
}
