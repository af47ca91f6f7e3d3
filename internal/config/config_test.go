package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
broker:
  key_id: file-key
  secret_key: file-secret
strategy:
  variant: basic
  params:
    rsi_oversold: 25
    rsi_overbought: 75
    dip_percentage: 5
    profit_target_percent: 8
    stop_loss_percent: 3
    position_size_usd: 1000
    max_positions: 5
    lookback_days: 20
watchlist: [AAPL, MSFT]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Broker.KeyID != "file-key" {
		t.Errorf("broker key not read: %q", cfg.Broker.KeyID)
	}
	if cfg.Strategy.Variant != "basic" || cfg.Strategy.Params.RSIOversold != 25 {
		t.Errorf("strategy not read: %+v", cfg.Strategy)
	}
	if len(cfg.Watchlist) != 2 {
		t.Errorf("watchlist not read: %v", cfg.Watchlist)
	}
	if cfg.Database.SQLitePath == "" || cfg.Schedule.StrategyCron == "" {
		t.Error("defaults not applied")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
broker:
  key_id: file-key
  secret_key: file-secret
`)
	t.Setenv("ALPACA_API_KEY", "env-key")
	t.Setenv("STRATEGY_VARIANT", "basic")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Broker.KeyID != "env-key" {
		t.Errorf("env override lost: %q", cfg.Broker.KeyID)
	}
	if cfg.Strategy.Variant != "basic" {
		t.Errorf("env variant lost: %q", cfg.Strategy.Variant)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file must not fail: %v", err)
	}
	if cfg.Strategy.Variant != "enhanced" {
		t.Errorf("default variant: %q", cfg.Strategy.Variant)
	}
	if cfg.Strategy.Params.RSIOversold != 30 {
		t.Errorf("default params not applied: %+v", cfg.Strategy.Params)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("missing broker credentials must fail validation")
	}

	cfg.Broker.KeyID = "k"
	cfg.Broker.SecretKey = "s"
	cfg.Strategy.Variant = "aggressive"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown variant must fail validation")
	}
}
