package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeAPI()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePolling()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeAPI() {
	if value, ok := os.LookupEnv("VOICEVISTA_API_URL"); ok && strings.TrimSpace(value) != "" {
		c.API.BaseURL = value
	}
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultAPIBaseURL
	}
	c.API.UploadsPath = strings.TrimSpace(c.API.UploadsPath)
	if c.API.UploadsPath == "" {
		c.API.UploadsPath = defaultUploadsPath
	}
	if !strings.HasPrefix(c.API.UploadsPath, "/") {
		c.API.UploadsPath = "/" + c.API.UploadsPath
	}
	c.API.UploadsPath = strings.TrimRight(c.API.UploadsPath, "/")
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("VOICEVISTA_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if strings.TrimSpace(c.Paths.DownloadDir) == "" {
		c.Paths.DownloadDir = defaultDownloadDir
	}

	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.DownloadDir, err = expandPath(c.Paths.DownloadDir); err != nil {
		return fmt.Errorf("paths.download_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePolling() {
	if c.Polling.IntervalSeconds == 0 {
		c.Polling.IntervalSeconds = defaultPollIntervalSeconds
	}
	if c.UI.DashboardLimit == 0 {
		c.UI.DashboardLimit = defaultDashboardLimit
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
