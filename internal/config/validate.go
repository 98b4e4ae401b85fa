package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api.base_url: unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("api.base_url: host is required")
	}
	if c.Polling.IntervalSeconds < 0 {
		return errors.New("polling.interval_seconds must be positive")
	}
	if c.UI.DashboardLimit < 0 {
		return errors.New("ui.dashboard_limit must be positive")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
