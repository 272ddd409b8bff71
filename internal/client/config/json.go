package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/gontarzpawel/photo-pigeon-send/internal/flagx"
	"github.com/gontarzpawel/photo-pigeon-send/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "5m" or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	ServerURL     string         `json:"server_url"`
	UploadPath    string         `json:"upload_path"`
	DatabasePath  string         `json:"database_path"`
	Concurrency   int            `json:"concurrency"`
	UploadTimeout timex.Duration `json:"upload_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c or -config flags. Missing file path means no JSON is loaded. Only
// fields present in the file override the config.
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.UploadPath != "" {
		cfg.UploadPath = jc.UploadPath
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.Concurrency > 0 {
		cfg.Concurrency = jc.Concurrency
	}
	if jc.UploadTimeout.Duration > 0 {
		cfg.UploadTimeout = time.Duration(jc.UploadTimeout.Duration)
	}
}
