package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"SwingTrader/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Broker struct {
		KeyID     string `yaml:"key_id"`
		SecretKey string `yaml:"secret_key"`
		BaseURL   string `yaml:"base_url"`
	} `yaml:"broker"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Strategy struct {
		Variant string          `yaml:"variant"`
		Params  strategy.Params `yaml:"params"`
	} `yaml:"strategy"`
	Schedule struct {
		StrategyCron string `yaml:"strategy_cron"`
		SnapshotCron string `yaml:"snapshot_cron"`
	} `yaml:"schedule"`
	Watchlist []string `yaml:"watchlist"`
	Database  struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Broker.KeyID = v
	}
	if v := os.Getenv("ALPACA_SECRET_KEY"); v != "" {
		cfg.Broker.SecretKey = v
	}
	if v := os.Getenv("ALPACA_BASE_URL"); v != "" {
		cfg.Broker.BaseURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("STRATEGY_VARIANT"); v != "" {
		cfg.Strategy.Variant = v
	}
	if v := os.Getenv("CRON_STRATEGY"); v != "" {
		cfg.Schedule.StrategyCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Strategy.Variant == "" {
		cfg.Strategy.Variant = "enhanced"
	}
	if cfg.Strategy.Params == (strategy.Params{}) {
		cfg.Strategy.Params = strategy.DefaultParams()
	}
	if cfg.Schedule.StrategyCron == "" {
		// Every 30 minutes during US market hours (UTC), weekdays.
		cfg.Schedule.StrategyCron = "0 */30 14-21 * * 1-5"
	}
	if cfg.Schedule.SnapshotCron == "" {
		// Just after the close.
		cfg.Schedule.SnapshotCron = "0 5 21 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/swingtrader.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Broker.KeyID == "" {
		return fmt.Errorf("broker.key_id is required")
	}
	if c.Broker.SecretKey == "" {
		return fmt.Errorf("broker.secret_key is required")
	}
	if c.Strategy.Variant != "basic" && c.Strategy.Variant != "enhanced" {
		return fmt.Errorf("strategy.variant must be basic or enhanced, got %q", c.Strategy.Variant)
	}
	if err := c.Strategy.Params.Validate(); err != nil {
		return fmt.Errorf("strategy.params: %w", err)
	}
	return nil
}
