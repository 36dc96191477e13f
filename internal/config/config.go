package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const envPrefix = "FLOWPRO_"

// Config holds configuration for the api server and the engine it hosts
type Config struct {
	// Server
	Addr            string        `json:"addr"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`

	// Logging
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`

	// Engine
	Retention   time.Duration `json:"retention"`
	HTTPTimeout time.Duration `json:"http_timeout"`

	// Rate limiting
	RateLimit float64 `json:"rate_limit"` // requests per second, 0 disables
	RateBurst int     `json:"rate_burst"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Addr:            ":8080",
		ShutdownTimeout: 15 * time.Second,
		LogLevel:        "info",
		LogFormat:       "json",
		Retention:       5 * time.Minute,
		HTTPTimeout:     30 * time.Second,
		RateLimit:       0,
		RateBurst:       20,
	}
}

// Load builds configuration from the environment on top of defaults
func Load() (*Config, error) {
	cfg := Default()

	cfg.Addr = getEnv("ADDR", cfg.Addr)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	var err error
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return nil, err
	}
	if cfg.Retention, err = getEnvDuration("RETENTION", cfg.Retention); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getEnvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = getEnvFloat("RATE_LIMIT", cfg.RateLimit); err != nil {
		return nil, err
	}
	if cfg.RateBurst, err = getEnvInt("RATE_BURST", cfg.RateBurst); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid combinations
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.Retention <= 0 {
		return fmt.Errorf("retention must be positive, got %s", c.Retention)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTPTimeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit cannot be negative, got %f", c.RateLimit)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("log format must be json or text, got %q", c.LogFormat)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
	}
	return d, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
	}
	return i, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
	}
	return f, nil
}
