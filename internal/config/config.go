// Package config loads and validates application configuration.
//
// Configuration is read from an optional YAML file and overridden by
// environment variables prefixed with STOCKSENTRY_. Nesting in env keys
// uses a double underscore, e.g. STOCKSENTRY_TELEGRAM__ADMIN_ID maps to
// telegram.admin_id.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "STOCKSENTRY_"

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Telegram TelegramConfig `koanf:"telegram"`
	Watcher  WatcherConfig  `koanf:"watcher"`
	Sweeper  SweeperConfig  `koanf:"sweeper"`
	Notify   NotifyConfig   `koanf:"notify"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port"`
	MetricsPort       string        `koanf:"metrics_port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
}

// DatabaseConfig contains PostgreSQL settings.
type DatabaseConfig struct {
	URL             string        `koanf:"url" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	ConnectAttempts int           `koanf:"connect_attempts"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelegramConfig contains chat transport settings. AdminID is the single
// required value of the whole system: without it nobody can issue tokens.
type TelegramConfig struct {
	Enabled       bool    `koanf:"enabled"`
	BotToken      string  `koanf:"bot_token" validate:"required_if=Enabled true"`
	AdminID       int64   `koanf:"admin_id" validate:"required"`
	AdminContact  string  `koanf:"admin_contact"`
	WebhookSecret string  `koanf:"webhook_secret"`
	RateLimit     float64 `koanf:"rate_limit"`
}

// WatcherConfig contains availability watcher settings.
type WatcherConfig struct {
	Interval    time.Duration `koanf:"interval"`
	CatalogURL  string        `koanf:"catalog_url" validate:"required,url"`
	HTTPTimeout time.Duration `koanf:"http_timeout"`
}

// SweeperConfig contains expired-token sweep settings.
type SweeperConfig struct {
	Interval time.Duration `koanf:"interval"`
}

// NotifyConfig contains notification fan-out settings.
type NotifyConfig struct {
	NumWorkers int `koanf:"num_workers"`
}

// Load reads configuration from the optional YAML file at path, applies
// environment overrides, fills defaults and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// envKey maps STOCKSENTRY_SECTION__SOME_KEY to section.some_key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.MetricsPort == "" {
		c.Server.MetricsPort = "9090"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 2
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 30 * time.Minute
	}
	if c.Database.ConnectTimeout == 0 {
		c.Database.ConnectTimeout = 30 * time.Second
	}
	if c.Database.ConnectAttempts == 0 {
		c.Database.ConnectAttempts = 3
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}

	if c.Telegram.AdminContact == "" {
		c.Telegram.AdminContact = "@admin"
	}
	if c.Telegram.RateLimit == 0 {
		c.Telegram.RateLimit = 25
	}

	if c.Watcher.Interval == 0 {
		c.Watcher.Interval = 60 * time.Second
	}
	if c.Watcher.HTTPTimeout == 0 {
		c.Watcher.HTTPTimeout = 30 * time.Second
	}

	if c.Sweeper.Interval == 0 {
		c.Sweeper.Interval = 24 * time.Hour
	}

	if c.Notify.NumWorkers == 0 {
		c.Notify.NumWorkers = 5
	}
}
