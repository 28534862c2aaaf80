// Package config loads and exposes application configuration (TOML).
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath    = "config.toml"
	DefaultHTTPAddr      = ":8080"
	DefaultPGHost        = "127.0.0.1"
	DefaultPGPort        = 5432
	DefaultPGUser        = "postgres"
	DefaultPGDatabase    = "movebot"
	DefaultPGSSLMode     = "disable"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultMapsBaseURL   = "https://maps.googleapis.com/maps/api"
	DefaultFAQPath       = "data/faqs.yaml"
	DefaultIdleTTL       = "30m"
	DefaultSweepSchedule = "*/10 * * * *"
	DefaultEventExchange = "movebot.events"
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Postgres PostgresConfig `toml:"postgres"`
	OpenAI   OpenAIConfig   `toml:"openai"`
	Maps     MapsConfig     `toml:"maps"`
	FAQ      FAQConfig      `toml:"faq"`
	Rabbit   RabbitConfig   `toml:"rabbit"`
	Session  SessionConfig  `toml:"session"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP server listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
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

// OpenAIConfig holds the text-generation provider endpoint and model.
type OpenAIConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// MapsConfig holds the distance provider endpoint.
type MapsConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// FAQConfig holds the path to the FAQ dataset.
type FAQConfig struct {
	Path string `toml:"path"`
}

// RabbitConfig holds the booking-event broker settings. An empty URL disables publishing.
type RabbitConfig struct {
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

// SessionConfig holds idle-conversation sweep settings.
// IdleTTL is a Go duration string; SweepSchedule is a cron pattern.
type SessionConfig struct {
	IdleTTL       string `toml:"idle_ttl"`
	SweepSchedule string `toml:"sweep_schedule"`
}

// Load reads and parses the TOML config file at path and applies default values for missing fields.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Postgres: PostgresConfig{
			Host:     DefaultPGHost,
			Port:     DefaultPGPort,
			User:     DefaultPGUser,
			Database: DefaultPGDatabase,
			SSLMode:  DefaultPGSSLMode,
		},
		OpenAI: OpenAIConfig{
			BaseURL: DefaultOpenAIBaseURL,
			Model:   DefaultOpenAIModel,
		},
		Maps: MapsConfig{
			BaseURL: DefaultMapsBaseURL,
		},
		FAQ: FAQConfig{
			Path: DefaultFAQPath,
		},
		Rabbit: RabbitConfig{
			Exchange: DefaultEventExchange,
		},
		Session: SessionConfig{
			IdleTTL:       DefaultIdleTTL,
			SweepSchedule: DefaultSweepSchedule,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
