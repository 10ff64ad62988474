package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JungleMango/qqq-dashboard/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	require.Equal(t, "3000", cfg.Server.Port)
	require.Equal(t, 10, cfg.Quote.CacheTTLSeconds)
	require.Equal(t, "portfolios.json", cfg.PortfolioFile)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
	  "server": {"port": "8080"},
	  "quote": {"cache_ttl_sec": 30, "base_url": "http://localhost:9999"},
	  "portfolio_file": "/data/portfolios.json"
	}`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, 30, cfg.Quote.CacheTTLSeconds)
	require.Equal(t, "http://localhost:9999", cfg.Quote.BaseURL)
	require.Equal(t, "/data/portfolios.json", cfg.PortfolioFile)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server":`), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("QUOTE_CACHE_TTL_SEC", "5")
	t.Setenv("PORTFOLIO_FILE", "elsewhere.json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, 5, cfg.Quote.CacheTTLSeconds)
	require.Equal(t, "elsewhere.json", cfg.PortfolioFile)
	require.Equal(t, "debug", cfg.Log.Level)
}
