// Package config provides configuration loading and validation for the
// sync service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Defaults for the year-inference window (see the date parser): requests
// are sometimes entered shortly after the fact but book up to six months
// ahead.
const (
	defaultYearWindowPastDays   = 30
	defaultYearWindowFutureDays = 180
)

// Config is the service configuration, loadable from a JSON file with
// environment-variable fallbacks for the secrets.
type Config struct {
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"`

	// Gazelle CRM access.
	GazelleBaseURL string `json:"gazelle_base_url,omitempty"`
	GazelleAPIKey  string `json:"gazelle_api_key,omitempty"`

	// Institution is the name matched against appointment titles during
	// reconciliation (e.g. "Place des Arts").
	Institution string `json:"institution,omitempty"`

	// Year-inference window for dates given without a year.
	YearWindowPastDays   int `json:"year_window_past_days,omitempty"`
	YearWindowFutureDays int `json:"year_window_future_days,omitempty"`

	// AlertKeywords overrides the default alert-keyword list when set.
	AlertKeywords []string `json:"alert_keywords,omitempty"`
}

// Load reads configuration from a JSON file. Missing file fields fall back
// to environment variables, then to defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.GazelleBaseURL == "" {
		c.GazelleBaseURL = os.Getenv("GAZELLE_BASE_URL")
	}
	if c.GazelleAPIKey == "" {
		c.GazelleAPIKey = os.Getenv("GAZELLE_API_KEY")
	}
	if c.Institution == "" {
		c.Institution = os.Getenv("INSTITUTION_NAME")
	}
	if c.Port == 0 {
		if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
			c.Port = port
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.Institution == "" {
		c.Institution = "Place des Arts"
	}
	if c.YearWindowPastDays == 0 {
		c.YearWindowPastDays = defaultYearWindowPastDays
	}
	if c.YearWindowFutureDays == 0 {
		c.YearWindowFutureDays = defaultYearWindowFutureDays
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: port out of range: %d", c.Port)
	}
	if c.YearWindowPastDays < 0 {
		return fmt.Errorf("config error: year_window_past_days must be non-negative")
	}
	if c.YearWindowFutureDays < 1 {
		return fmt.Errorf("config error: year_window_future_days must be positive")
	}
	return nil
}
