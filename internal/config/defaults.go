package config

const (
	defaultAPIBaseURL          = "http://localhost:5000"
	defaultUploadsPath         = "/uploads"
	defaultDataDir             = "~/.local/share/voicevista"
	defaultDownloadDir         = "~/Downloads"
	defaultPollIntervalSeconds = 5
	defaultDashboardLimit      = 20
	defaultLogLevel            = "info"
	defaultLogFormat           = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:     defaultAPIBaseURL,
			UploadsPath: defaultUploadsPath,
		},
		Paths: Paths{
			DataDir:     defaultDataDir,
			DownloadDir: defaultDownloadDir,
		},
		Polling: Polling{
			IntervalSeconds: defaultPollIntervalSeconds,
		},
		UI: UI{
			DashboardLimit: defaultDashboardLimit,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
