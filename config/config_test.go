package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("READ_TIMEOUT", "10s")
	t.Setenv("WRITE_TIMEOUT", "20s")
	t.Setenv("IDLE_TIMEOUT", "30s")
	t.Setenv("TRANSCRIPT_TIMEOUT", "5s")
	t.Setenv("YOUTUBE_LANGUAGES", "de, en ,")
	t.Setenv("YOUTUBE_RATE_LIMIT", "2.5")
	t.Setenv("CORS_ENABLED", "false")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 20*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 30*time.Second, cfg.IdleTimeout)
	assert.Equal(t, 5*time.Second, cfg.TranscriptTimeout)
	assert.Equal(t, []string{"de", "en"}, cfg.YouTube.Languages)
	assert.Equal(t, 2.5, cfg.YouTube.RateLimit)
	assert.False(t, cfg.CORS.Enabled)
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")
	t.Setenv("READ_TIMEOUT", "not-a-duration")

	cfg := LoadConfig()

	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, "https://www.youtube.com", cfg.YouTube.BaseURL)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.ServerPort = "" }},
		{"non-numeric port", func(c *Config) { c.ServerPort = "http" }},
		{"port out of range", func(c *Config) { c.ServerPort = "70000" }},
		{"zero read timeout", func(c *Config) { c.ReadTimeout = 0 }},
		{"zero write timeout", func(c *Config) { c.WriteTimeout = 0 }},
		{"zero idle timeout", func(c *Config) { c.IdleTimeout = 0 }},
		{"negative transcript timeout", func(c *Config) { c.TranscriptTimeout = -time.Second }},
		{"zero body size", func(c *Config) { c.MaxBodyBytes = 0 }},
		{"missing base url", func(c *Config) { c.YouTube.BaseURL = "" }},
		{"zero rate", func(c *Config) { c.YouTube.RateLimit = 0 }},
		{"zero burst", func(c *Config) { c.YouTube.RateBurst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadConfig()
			tt.mutate(cfg)
			assert.Error(t, ValidateConfig(cfg))
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	const key = "YT_TRANSCRIPT_TEST_VALUE"
	os.Unsetenv(key)
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o644))
	t.Setenv("ENV_FILE", path)

	require.NoError(t, LoadEnvFile())
	assert.Equal(t, "from-file", os.Getenv(key))
}

func TestLoadEnvFileMissing(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, LoadEnvFile())
}
