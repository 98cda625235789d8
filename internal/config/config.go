package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	History HistoryConfig `yaml:"history"`
	Hermes  HermesConfig  `yaml:"hermes"`
	Cache   CacheConfig   `yaml:"cache"`
	Scoring ScoringConfig `yaml:"scoring"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port              int    `yaml:"port"`
	MetricsPort       int    `yaml:"metrics_port"`
	AdminToken        string `yaml:"admin_token"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
}

// HistoryConfig selects the saved-history backend: memory, sqlite or postgres.
type HistoryConfig struct {
	Backend     string `yaml:"backend"`
	SQLitePath  string `yaml:"sqlite_path"`
	DatabaseURL string `yaml:"database_url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

// CacheConfig tunes the decision cache. MaxEntries bounds the in-memory
// cache only; Redis relies on TTL expiry.
type CacheConfig struct {
	RedisAddr  string `yaml:"redis_addr"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	MaxEntries int    `yaml:"max_entries"`
}

// ScoringConfig seeds the default ItemInputs served to clients.
type ScoringConfig struct {
	TaxRatePct float64        `yaml:"tax_rate_pct"`
	Weights    ScoringWeights `yaml:"weights"`
}

type ScoringWeights struct {
	Financial float64 `yaml:"financial"`
	Utility   float64 `yaml:"utility"`
	Risk      float64 `yaml:"risk"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:              8700,
			MetricsPort:       8701,
			RequestsPerMinute: 120,
		},
		History: HistoryConfig{
			Backend:    "sqlite",
			SQLitePath: "worthit.db",
		},
		Cache: CacheConfig{
			TTLSeconds: 3600,
			MaxEntries: 10000,
		},
		Scoring: ScoringConfig{
			TaxRatePct: 13,
			Weights: ScoringWeights{
				Financial: 0.40,
				Utility:   0.35,
				Risk:      0.25,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("WORTHIT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("WORTHIT_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("WORTHIT_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("WORTHIT_HISTORY_BACKEND"); v != "" {
		cfg.History.Backend = v
	}
	if v := os.Getenv("WORTHIT_SQLITE_PATH"); v != "" {
		cfg.History.SQLitePath = v
	}
	if v := os.Getenv("WORTHIT_DATABASE_URL"); v != "" {
		cfg.History.DatabaseURL = v
	}
	if v := os.Getenv("WORTHIT_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("WORTHIT_REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("WORTHIT_CACHE_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.MaxEntries = n
		}
	}
	if v := os.Getenv("WORTHIT_TAX_RATE_PCT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.TaxRatePct = f
		}
	}
	if v := os.Getenv("WORTHIT_WEIGHT_FINANCIAL"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.Weights.Financial = f
		}
	}
	if v := os.Getenv("WORTHIT_WEIGHT_UTILITY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.Weights.Utility = f
		}
	}
	if v := os.Getenv("WORTHIT_WEIGHT_RISK"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.Weights.Risk = f
		}
	}
	if v := os.Getenv("WORTHIT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("WORTHIT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
