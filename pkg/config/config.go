// Package config provides configuration management for the Plagiarism Review Service.
// Loads settings from environment variables and .env files with validation and defaults.
// The detection engine base URL is injected here instead of being read at module load.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration settings for the review service.
// Provides centralized configuration management with validation and helper methods.
type Config struct {
	// Server Configuration
	ReviewHost string // Review service bind host address
	ReviewPort string // Review service bind port

	// Detection Engine Configuration
	PhosphorusAPIBase    string // Base URL of the detection engine API (required)
	ClientTimeoutSeconds int    // Per-call timeout for detection engine requests
	FetchConcurrency     int    // Max concurrent per-problem result fetches

	// Aggregation Configuration
	ActivityLimit       int    // Number of entries in the recent activity feed
	LanguageCatalogPath string // Optional YAML file overriding the embedded language catalog

	// Database
	TaskDBPath string // File path for the SQLite check task store

	// Task Retention
	TaskRetentionDays int // Days to keep completed check task records

	// Logging
	LogLevel string // Log level (debug, info, warn, error)
}

// Load reads configuration from environment variables and .env file.
// Returns a validated configuration instance with all required settings.
// Automatically loads .env file if present, with environment variables taking precedence.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		// Server Configuration
		ReviewHost: getEnv("REVIEW_HOST", "0.0.0.0"),
		ReviewPort: getEnv("REVIEW_PORT", "8090"),

		// Detection Engine Configuration
		PhosphorusAPIBase:    getEnv("PHOSPHORUS_API_BASE", "http://localhost:8000"),
		ClientTimeoutSeconds: getEnvAsInt("CLIENT_TIMEOUT_SECONDS", 10),
		FetchConcurrency:     getEnvAsInt("FETCH_CONCURRENCY", 4),

		// Aggregation Configuration
		ActivityLimit:       getEnvAsInt("ACTIVITY_LIMIT", 5),
		LanguageCatalogPath: getEnv("LANGUAGE_CATALOG", ""),

		// Database
		TaskDBPath: getEnv("TASK_DB_PATH", "review.db"),

		// Task Retention
		TaskRetentionDays: getEnvAsInt("TASK_RETENTION_DAYS", 90),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return config, config.validate()
}

// validate ensures all required configuration values are present and valid.
func (c *Config) validate() error {
	if c.PhosphorusAPIBase == "" {
		return fmt.Errorf("PHOSPHORUS_API_BASE must be set")
	}

	if c.ClientTimeoutSeconds <= 0 {
		return fmt.Errorf("CLIENT_TIMEOUT_SECONDS must be positive, got %d", c.ClientTimeoutSeconds)
	}

	if c.FetchConcurrency <= 0 {
		return fmt.Errorf("FETCH_CONCURRENCY must be positive, got %d", c.FetchConcurrency)
	}

	if c.ActivityLimit <= 0 {
		return fmt.Errorf("ACTIVITY_LIMIT must be positive, got %d", c.ActivityLimit)
	}

	return nil
}

// GetReviewAddr returns the complete address for the review service.
// Combines host and port into a format suitable for server binding.
func (c *Config) GetReviewAddr() string {
	return fmt.Sprintf("%s:%s", c.ReviewHost, c.ReviewPort)
}

// GetClientTimeout returns the detection engine call timeout as a time.Duration.
func (c *Config) GetClientTimeout() time.Duration {
	return time.Duration(c.ClientTimeoutSeconds) * time.Second
}

// GetTaskRetention returns the check task retention window as a time.Duration.
func (c *Config) GetTaskRetention() time.Duration {
	return time.Duration(c.TaskRetentionDays) * 24 * time.Hour
}

// getEnv retrieves an environment variable or returns a default value.
// Helper function for loading configuration with fallback defaults.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as integer or returns a default.
// Safely converts string environment variables to integers with error handling.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
