package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/JungleMango/qqq-dashboard/internal/logging"
)

type Server struct {
	Port              string `json:"port"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type Quote struct {
	// CacheTTLSeconds is how long a fetched quote (or a confirmed
	// no-data result) stays fresh.
	CacheTTLSeconds int `json:"cache_ttl_sec"`
	// UpstreamMinIntervalMs spaces out upstream calls when > 0.
	UpstreamMinIntervalMs int `json:"upstream_min_interval_ms"`
	// BaseURL overrides the Yahoo chart API endpoint (tests, proxies).
	BaseURL string `json:"base_url"`
}

type Config struct {
	Server        Server         `json:"server"`
	Quote         Quote          `json:"quote"`
	PortfolioFile string         `json:"portfolio_file"`
	Log           logging.Config `json:"log"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "3000", RequestTimeoutSec: 10},
		Quote: Quote{
			CacheTTLSeconds: 10,
		},
		PortfolioFile: "portfolios.json",
		Log:           logging.Config{Level: "info"},
	}
}

// Load reads JSON config from path. If path is empty or the file does not
// exist, it returns defaults. Environment variables override select fields.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
		if x := atoi(v); x > 0 {
			cfg.Server.RequestTimeoutSec = x
		}
	}
	if v := os.Getenv("QUOTE_CACHE_TTL_SEC"); v != "" {
		if x := atoi(v); x > 0 {
			cfg.Quote.CacheTTLSeconds = x
		}
	}
	if v := os.Getenv("UPSTREAM_MIN_INTERVAL_MS"); v != "" {
		if x := atoi(v); x >= 0 {
			cfg.Quote.UpstreamMinIntervalMs = x
		}
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.Quote.BaseURL = v
	}
	if v := os.Getenv("PORTFOLIO_FILE"); v != "" {
		cfg.PortfolioFile = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

func atoi(s string) int {
	var x int
	_, _ = fmt.Sscanf(s, "%d", &x)
	return x
}
