// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the photo-pigeon server.
//
// Fields:
//   - Addr: bind address for the HTTP endpoint.
//   - UploadsDir: root of the date-bucketed photo tree.
//   - DataDir: location of the user database.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - TokenValidityDuration: bearer token lifetime.
//   - MaxUploadBytes: largest accepted photo, enforced before processing.
//   - HeapAppID / HeapAPIKey: Heap analytics credentials; empty disables analytics.
type Config struct {
	Addr                  string
	UploadsDir            string
	DataDir               string
	SecretKey             string
	TokenValidityDuration time.Duration
	MaxUploadBytes        int64
	HeapAppID             string
	HeapAPIKey            string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.UploadsDir = "uploads"
	c.DataDir = "data"
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 24 * time.Hour
	c.MaxUploadBytes = 10 << 20
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
