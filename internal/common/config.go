// Package common provides shared utilities for Pulse
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Pulse
type Config struct {
	Environment string            `toml:"environment"`
	Timezone    string            `toml:"timezone"` // IANA timezone used for ledger date keys
	Aliases     map[string]string `toml:"aliases"`  // display symbol -> provider symbol
	Storage     StorageConfig     `toml:"storage"`
	Clients     ClientsConfig     `toml:"clients"`
	Mail        MailConfig        `toml:"mail"`
	Report      ReportConfig      `toml:"report"`
	Logging     LoggingConfig     `toml:"logging"`
}

// StorageConfig holds storage configuration.
type StorageConfig struct {
	User AreaConfig `toml:"user"` // positions, watchlist, history ledger (BadgerHold)
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Yahoo  YahooConfig  `toml:"yahoo"`
	Gemini GeminiConfig `toml:"gemini"`
}

// YahooConfig holds Yahoo Finance chart API configuration
type YahooConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// MailConfig holds SMTP notification configuration.
type MailConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	To       string `toml:"to"`
}

// ReportConfig holds report generation settings.
type ReportConfig struct {
	HistoryWindow int `toml:"history_window"` // trend chart window in ledger rows
	LookbackDays  int `toml:"lookback_days"`  // calendar days of quote history to fetch
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Timezone:    "America/Los_Angeles",
		Aliases: map[string]string{
			".VIX": "^VIX",
		},
		Storage: StorageConfig{
			User: AreaConfig{Path: "data/user"},
		},
		Clients: ClientsConfig{
			Yahoo: YahooConfig{
				BaseURL:   "https://query1.finance.yahoo.com",
				RateLimit: 5,
				Timeout:   "30s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.5-pro",
			},
		},
		Mail: MailConfig{
			Host: "smtp.gmail.com",
			Port: 465,
		},
		Report: ReportConfig{
			HistoryWindow: 30,
			LookbackDays:  90,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Apply environment overrides
	applyEnvOverrides(config)

	// Validate timezone
	if err := validateTimezone(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PULSE_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("PULSE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("PULSE_DATA_PATH"); path != "" {
		config.Storage.User.Path = path
	}

	if tz := os.Getenv("PULSE_TIMEZONE"); tz != "" {
		config.Timezone = tz
	}

	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		config.Clients.Gemini.APIKey = v
	}
	if v := os.Getenv("PULSE_GEMINI_API_KEY"); v != "" {
		config.Clients.Gemini.APIKey = v
	}

	// Mail overrides
	if v := os.Getenv("PULSE_MAIL_HOST"); v != "" {
		config.Mail.Host = v
	}
	if v := os.Getenv("PULSE_MAIL_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.Mail.Port = p
		}
	}
	if v := os.Getenv("PULSE_MAIL_USER"); v != "" {
		config.Mail.Username = v
		if config.Mail.From == "" {
			config.Mail.From = v
		}
		if config.Mail.To == "" {
			config.Mail.To = v
		}
	}
	if v := os.Getenv("PULSE_MAIL_PASS"); v != "" {
		config.Mail.Password = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// Location resolves the configured timezone. LoadConfig has already
// validated it, so failures here fall back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// validateTimezone ensures the configured timezone resolves.
func validateTimezone(config *Config) error {
	if config.Timezone == "" {
		config.Timezone = "America/Los_Angeles"
	}
	if _, err := time.LoadLocation(config.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", config.Timezone, err)
	}
	return nil
}
