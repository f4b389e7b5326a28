package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "breakout.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
storage:
  data_dir: "/var/lib/breakout"
  sqlite_path: "/var/lib/breakout/breakout.db"
server:
  host: "127.0.0.1"
  port: 9090
logging:
  level: "debug"
  format: "text"
scan:
  lookback_days: 5
  workers: 8
backtest:
  holding_period: 20
  stop_loss_pct: -0.05
  take_profit_pct: 0.15
  trailing_sl_pct: 0.08
schedule:
  daily_cron: "30 18 * * 1-5"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Storage.DataDir != "/var/lib/breakout" {
		t.Errorf("DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Scan.LookbackDays != 5 || cfg.Scan.Workers != 8 {
		t.Errorf("scan = %+v", cfg.Scan)
	}
	if cfg.Backtest.HoldingPeriod != 20 {
		t.Errorf("HoldingPeriod = %d, want 20", cfg.Backtest.HoldingPeriod)
	}
	if cfg.Backtest.StopLossPct == nil || *cfg.Backtest.StopLossPct != -0.05 {
		t.Errorf("StopLossPct = %v, want -0.05", cfg.Backtest.StopLossPct)
	}
	if cfg.Backtest.TakeProfitPct == nil || *cfg.Backtest.TakeProfitPct != 0.15 {
		t.Errorf("TakeProfitPct = %v, want 0.15", cfg.Backtest.TakeProfitPct)
	}
	if cfg.Schedule.DailyCron != "30 18 * * 1-5" {
		t.Errorf("DailyCron = %q", cfg.Schedule.DailyCron)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
storage:
  data_dir: "data"
`))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Scan.LookbackDays != 3 {
		t.Errorf("default LookbackDays = %d, want 3", cfg.Scan.LookbackDays)
	}
	if cfg.Scan.Workers != 4 {
		t.Errorf("default scan Workers = %d, want 4", cfg.Scan.Workers)
	}
	if cfg.Scan.ChartBars != 200 {
		t.Errorf("default ChartBars = %d, want 200", cfg.Scan.ChartBars)
	}
	if cfg.Backtest.HoldingPeriod != 10 {
		t.Errorf("default HoldingPeriod = %d, want 10", cfg.Backtest.HoldingPeriod)
	}
	if cfg.Backtest.TrailingSLPct != 0.05 {
		t.Errorf("default TrailingSLPct = %v, want 0.05", cfg.Backtest.TrailingSLPct)
	}
	if cfg.Backtest.StopLossPct != nil || cfg.Backtest.TakeProfitPct != nil {
		t.Error("stop/target triggers should default to disabled (nil)")
	}
	if cfg.Gather.BatchSize != 200 || cfg.Gather.RateLimitPerMin != 200 {
		t.Errorf("gather defaults = %+v", cfg.Gather)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/override/data")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("APCA_API_KEY_ID", "env-key")
	t.Setenv("APCA_API_SECRET_KEY", "env-secret")

	cfg, err := Load(writeConfig(t, `
storage:
  data_dir: "data"
logging:
  level: "info"
alpaca:
  api_key: "file-key"
`))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Storage.DataDir != "/override/data" {
		t.Errorf("DataDir = %q, want env override", cfg.Storage.DataDir)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Alpaca.APIKey != "env-key" || cfg.Alpaca.APISecret != "env-secret" {
		t.Errorf("alpaca creds = %q/%q, want env overrides", cfg.Alpaca.APIKey, cfg.Alpaca.APISecret)
	}
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("DATA_DIR", "")
	if _, err := Load(writeConfig(t, `server: {port: 8080}`)); err == nil {
		t.Error("expected error for missing data_dir")
	}
	if _, err := Load(writeConfig(t, "storage:\n  data_dir: data\nscan:\n  lookback_days: -1\n")); err == nil {
		t.Error("expected error for negative lookback_days")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for a missing config file")
	}
}
