package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/gontarzpawel/photo-pigeon-send/internal/flagx"
	"github.com/gontarzpawel/photo-pigeon-send/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	Addr                  string         `json:"addr"`
	UploadsDir            string         `json:"uploads_dir"`
	DataDir               string         `json:"data_dir"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	MaxUploadBytes        int64          `json:"max_upload_bytes"`
	HeapAppID             string         `json:"heap_app_id"`
	HeapAPIKey            string         `json:"heap_api_key"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c or -config flags. Only fields present in the file override the
// config.
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

	if jc.Addr != "" {
		cfg.Addr = jc.Addr
	}
	if jc.UploadsDir != "" {
		cfg.UploadsDir = jc.UploadsDir
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.TokenValidityDuration.Duration > 0 {
		cfg.TokenValidityDuration = time.Duration(jc.TokenValidityDuration.Duration)
	}
	if jc.MaxUploadBytes > 0 {
		cfg.MaxUploadBytes = jc.MaxUploadBytes
	}
	if jc.HeapAppID != "" {
		cfg.HeapAppID = jc.HeapAppID
	}
	if jc.HeapAPIKey != "" {
		cfg.HeapAPIKey = jc.HeapAPIKey
	}
}
