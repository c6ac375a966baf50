// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath         = "config.toml"
	DefaultHTTPAddr           = ":8080"
	DefaultPGHost             = "127.0.0.1"
	DefaultPGPort             = 5432
	DefaultPGUser             = "postgres"
	DefaultPGDatabase         = "streamnexus"
	DefaultPGSSLMode          = "disable"
	DefaultDeliveryTimeoutSec = 10
	DefaultDeliveryWorkers    = 4
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Postgres PostgresConfig `toml:"postgres"`
	Telegram TelegramConfig `toml:"telegram"`
	Notify   NotifyConfig   `toml:"notify"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP server listen address and the shared secret
// required on internal endpoints (notification trigger).
type ServerConfig struct {
	Addr               string `toml:"addr"`
	InternalServiceKey string `toml:"internal_service_key"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// TelegramConfig holds the bot token. When the token is empty the bot
// adapter and the Telegram deliverer are not started.
type TelegramConfig struct {
	BotToken string `toml:"bot_token"`
}

// NotifyConfig holds fan-out tuning: the per-delivery timeout and the number
// of concurrent deliveries per batch.
type NotifyConfig struct {
	DeliveryTimeoutSeconds int `toml:"delivery_timeout_seconds"`
	DeliveryWorkers        int `toml:"delivery_workers"`
}

// Load reads and parses the TOML config file at path and applies default
// values for missing fields. Environment variables HTTP_ADDR, TELEGRAM_BOT_TOKEN
// and INTERNAL_SERVICE_KEY override their file counterparts.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path == "" {
		path = DefaultConfigPath
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !os.IsNotExist(err) {
			return Config{}, err
		}
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultHTTPAddr
	}
	if cfg.Postgres.Host == "" {
		cfg.Postgres.Host = DefaultPGHost
	}
	if cfg.Postgres.Port == 0 {
		cfg.Postgres.Port = DefaultPGPort
	}
	if cfg.Postgres.User == "" {
		cfg.Postgres.User = DefaultPGUser
	}
	if cfg.Postgres.Database == "" {
		cfg.Postgres.Database = DefaultPGDatabase
	}
	if cfg.Postgres.SSLMode == "" {
		cfg.Postgres.SSLMode = DefaultPGSSLMode
	}
	if cfg.Notify.DeliveryTimeoutSeconds <= 0 {
		cfg.Notify.DeliveryTimeoutSeconds = DefaultDeliveryTimeoutSec
	}
	if cfg.Notify.DeliveryWorkers <= 0 {
		cfg.Notify.DeliveryWorkers = DefaultDeliveryWorkers
	}

	if value := os.Getenv("HTTP_ADDR"); value != "" {
		cfg.Server.Addr = value
	}
	if value := os.Getenv("TELEGRAM_BOT_TOKEN"); value != "" {
		cfg.Telegram.BotToken = value
	}
	if value := os.Getenv("INTERNAL_SERVICE_KEY"); value != "" {
		cfg.Server.InternalServiceKey = value
	}

	return cfg, nil
}
