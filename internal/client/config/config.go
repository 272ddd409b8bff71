package config

import "time"

// Config holds runtime settings for the photo-pigeon CLI.
//
// Fields:
//   - ServerURL: base URL of the ingestion server (http/https).
//   - UploadPath: API path joined onto ServerURL for uploads.
//   - DatabasePath: location of the local SQLite file (ledger, token).
//   - Concurrency: how many uploads may be in flight during a drain cycle.
//   - UploadTimeout: per-item bound on a single upload attempt.
type Config struct {
	ServerURL     string
	UploadPath    string
	DatabasePath  string
	Concurrency   int
	UploadTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.UploadPath = "upload"
	c.DatabasePath = "pigeon.db"
	c.Concurrency = 3
	c.UploadTimeout = 5 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
