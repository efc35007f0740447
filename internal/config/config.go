// Package config provides configuration loading for the takeoff pipeline.
// Supports a YAML file, environment variables, and programmatic overrides;
// environment variables win over the file.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/roomworks/takeoff/internal/domain"
	"github.com/roomworks/takeoff/internal/quantity"
)

// Config holds all configuration for the pipeline.
type Config struct {
	APIKey      string           `yaml:"api_key"`
	Model       string           `yaml:"model"`
	Concurrency int              `yaml:"concurrency"`
	JPEGQuality int              `yaml:"jpeg_quality"`
	LogLevel    string           `yaml:"log_level"`
	LogFormat   string           `yaml:"log_format"`
	Factors     quantity.Factors `yaml:"waste_factors"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		Concurrency: 3,
		JPEGQuality: 85,
		LogLevel:    "info",
		LogFormat:   "console",
		Factors:     quantity.DefaultFactors(),
	}
}

// Load builds a Config from defaults, an optional YAML file, and the
// environment, in that order. A .env file is honored when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigError("failed to read config file", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigError("failed to parse config file", err)
		}
		if cfg.Factors.Flooring == nil {
			cfg.Factors.Flooring = quantity.DefaultFactors().Flooring
		}
	}

	cfg.applyEnv()

	if cfg.APIKey == "" {
		return nil, domain.ConfigError("OPENROUTER_API_KEY not set", nil)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("TAKEOFF_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Concurrency = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
}
