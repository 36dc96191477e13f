package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Retention)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Zero(t, cfg.RateLimit)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("FLOWPRO_ADDR", ":9999")
		t.Setenv("FLOWPRO_LOG_LEVEL", "debug")
		t.Setenv("FLOWPRO_LOG_FORMAT", "text")
		t.Setenv("FLOWPRO_RETENTION", "90s")
		t.Setenv("FLOWPRO_RATE_LIMIT", "25.5")
		t.Setenv("FLOWPRO_RATE_BURST", "50")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ":9999", cfg.Addr)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, 90*time.Second, cfg.Retention)
		assert.Equal(t, 25.5, cfg.RateLimit)
		assert.Equal(t, 50, cfg.RateBurst)
	})

	t.Run("invalid duration", func(t *testing.T) {
		t.Setenv("FLOWPRO_RETENTION", "soon")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("invalid number", func(t *testing.T) {
		t.Setenv("FLOWPRO_RATE_BURST", "many")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Addr = "" }},
		{"zero retention", func(c *Config) { c.Retention = 0 }},
		{"zero http timeout", func(c *Config) { c.HTTPTimeout = 0 }},
		{"negative rate limit", func(c *Config) { c.RateLimit = -1 }},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
