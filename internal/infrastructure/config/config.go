// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	weights := cfg.Matcher.Weights
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration.
type Config struct {
	Matcher       MatcherConfig       `yaml:"matcher"`
	Reconcile     ReconcileConfig     `yaml:"reconcile"`
	Storage       StorageConfig       `yaml:"storage"`
	API           APIConfig           `yaml:"api"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// MatcherConfig holds the matching engine settings. Validation happens
// when the composite matcher is constructed, not here.
type MatcherConfig struct {
	Mode          string        `yaml:"mode"` // "weighted" or "strategies"
	Weights       WeightsConfig `yaml:"weights"`
	WindowDays    int           `yaml:"window_days"`
	MinConfidence float64       `yaml:"min_confidence"`
	MinSimilarity float64       `yaml:"min_similarity"`
}

// WeightsConfig holds the weighted-mode component weights.
type WeightsConfig struct {
	Amount      float64 `yaml:"amount"`
	Date        float64 `yaml:"date"`
	Description float64 `yaml:"description"`
}

// ReconcileConfig holds the downstream reconciliation policy settings.
type ReconcileConfig struct {
	LookbackDays   int     `yaml:"lookback_days"`
	AutoApplyAbove float64 `yaml:"auto_apply_above"`
	ReviewAbove    float64 `yaml:"review_above"`
}

// StorageConfig holds database configuration.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// APIConfig holds HTTP server configuration.
type APIConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${LEDGERMATCH_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	cfg := defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() *Config {
	cfg := defaults()
	cfg.Storage.DatabasePath = getEnv("LEDGERMATCH_DB_PATH", cfg.Storage.DatabasePath)
	cfg.API.Port = getEnvInt("LEDGERMATCH_PORT", cfg.API.Port)
	cfg.Matcher.Mode = getEnv("LEDGERMATCH_MATCH_MODE", cfg.Matcher.Mode)
	cfg.Reconcile.LookbackDays = getEnvInt("LEDGERMATCH_LOOKBACK_DAYS", cfg.Reconcile.LookbackDays)
	cfg.Observability.Logging.Level = getEnv("LOG_LEVEL", cfg.Observability.Logging.Level)
	cfg.Observability.Logging.Format = getEnv("LOG_FORMAT", cfg.Observability.Logging.Format)
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment
// variables.
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from the specified path, falls back to
// environment variables.
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// defaults returns the documented production configuration.
func defaults() *Config {
	return &Config{
		Matcher: MatcherConfig{
			Mode:          "weighted",
			Weights:       WeightsConfig{Amount: 0.4, Date: 0.3, Description: 0.3},
			WindowDays:    30,
			MinConfidence: 0.6,
			MinSimilarity: 85,
		},
		Reconcile: ReconcileConfig{
			LookbackDays:   30,
			AutoApplyAbove: 0.95,
			ReviewAbove:    0.6,
		},
		Storage: StorageConfig{
			DatabasePath: "ledgermatch.db",
		},
		API: APIConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
		},
	}
}

// getEnv retrieves an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback
// default.
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}
