package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "uploads", c.UploadsDir)
	assert.Equal(t, "data", c.DataDir)
	assert.Equal(t, 24*time.Hour, c.TokenValidityDuration)
	assert.Equal(t, int64(10<<20), c.MaxUploadBytes)
	assert.Empty(t, c.HeapAppID, "analytics disabled by default")
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "uploads", cfg.UploadsDir)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
}
