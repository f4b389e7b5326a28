// Package config loads the breakout-finder YAML configuration and applies
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for breakout-finder.
type Config struct {
	Storage  Storage        `yaml:"storage"`
	Server   Server         `yaml:"server"`
	Alpaca   Alpaca         `yaml:"alpaca"`
	Logging  Logging        `yaml:"logging"`
	Gather   GatherConfig   `yaml:"gather"`
	Scan     ScanConfig     `yaml:"scan"`
	Backtest BacktestConfig `yaml:"backtest"`
	Schedule Schedule       `yaml:"schedule"`
}

// Storage holds paths for data persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Server holds the daemon's HTTP listener configuration.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Alpaca holds credentials and endpoints for the Alpaca market-data API.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	DataURL   string `yaml:"data_url"`
	Feed      string `yaml:"feed"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// GatherConfig controls the daily bar download.
type GatherConfig struct {
	SymbolsFile     string `yaml:"symbols_file"`
	StartDate       string `yaml:"start_date"`
	BatchSize       int    `yaml:"batch_size"`
	MaxWorkers      int    `yaml:"max_workers"`
	RateLimitPerMin int    `yaml:"rate_limit_per_min"`
}

// ScanConfig controls the recent-breakout scan.
type ScanConfig struct {
	LookbackDays int  `yaml:"lookback_days"`
	Workers      int  `yaml:"workers"`
	ExportCharts bool `yaml:"export_charts"`
	ChartBars    int  `yaml:"chart_bars"`
}

// BacktestConfig holds the exit-policy parameters. StopLossPct and
// TakeProfitPct are signed fractional returns and may be omitted to
// disable the trigger.
type BacktestConfig struct {
	HoldingPeriod int      `yaml:"holding_period"`
	StopLossPct   *float64 `yaml:"stop_loss_pct"`
	TakeProfitPct *float64 `yaml:"take_profit_pct"`
	TrailingSLPct float64  `yaml:"trailing_sl_pct"`
	Workers       int      `yaml:"workers"`
}

// Schedule holds cron expressions for the daemon.
type Schedule struct {
	DailyCron string `yaml:"daily_cron"`
}

// Load reads the YAML configuration file at the given path, applies
// environment overrides, fills defaults, and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Scan.LookbackDays == 0 {
		cfg.Scan.LookbackDays = 3
	}
	if cfg.Scan.Workers == 0 {
		cfg.Scan.Workers = 4
	}
	if cfg.Scan.ChartBars == 0 {
		cfg.Scan.ChartBars = 200
	}
	if cfg.Backtest.HoldingPeriod == 0 {
		cfg.Backtest.HoldingPeriod = 10
	}
	if cfg.Backtest.TrailingSLPct == 0 {
		cfg.Backtest.TrailingSLPct = 0.05
	}
	if cfg.Backtest.Workers == 0 {
		cfg.Backtest.Workers = 4
	}
	if cfg.Gather.BatchSize == 0 {
		cfg.Gather.BatchSize = 200
	}
	if cfg.Gather.MaxWorkers == 0 {
		cfg.Gather.MaxWorkers = 4
	}
	if cfg.Gather.RateLimitPerMin == 0 {
		cfg.Gather.RateLimitPerMin = 200
	}
}

func (cfg *Config) validate() error {
	if cfg.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir is required")
	}
	if cfg.Scan.LookbackDays < 1 {
		return fmt.Errorf("scan.lookback_days must be positive, got %d", cfg.Scan.LookbackDays)
	}
	return nil
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Canonical Alpaca env vars used by the SDK take highest priority.
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}
