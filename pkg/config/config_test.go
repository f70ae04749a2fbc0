package config

import (
	"os"
	"testing"
	"time"
)

// configEnvVars lists every environment variable Load reads, so tests can
// start from a clean slate.
var configEnvVars = []string{
	"REVIEW_HOST",
	"REVIEW_PORT",
	"PHOSPHORUS_API_BASE",
	"CLIENT_TIMEOUT_SECONDS",
	"FETCH_CONCURRENCY",
	"ACTIVITY_LIMIT",
	"LANGUAGE_CATALOG",
	"TASK_DB_PATH",
	"TASK_RETENTION_DAYS",
	"LOG_LEVEL",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ReviewPort != "8090" {
		t.Errorf("Expected default port 8090, got %s", cfg.ReviewPort)
	}
	if cfg.PhosphorusAPIBase != "http://localhost:8000" {
		t.Errorf("Expected default API base, got %s", cfg.PhosphorusAPIBase)
	}
	if cfg.ClientTimeoutSeconds != 10 {
		t.Errorf("Expected default timeout 10, got %d", cfg.ClientTimeoutSeconds)
	}
	if cfg.FetchConcurrency != 4 {
		t.Errorf("Expected default concurrency 4, got %d", cfg.FetchConcurrency)
	}
	if cfg.ActivityLimit != 5 {
		t.Errorf("Expected default activity limit 5, got %d", cfg.ActivityLimit)
	}
	if cfg.TaskDBPath != "review.db" {
		t.Errorf("Expected default db path review.db, got %s", cfg.TaskDBPath)
	}
	if cfg.TaskRetentionDays != 90 {
		t.Errorf("Expected default retention 90, got %d", cfg.TaskRetentionDays)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("REVIEW_HOST", "127.0.0.1")
	t.Setenv("REVIEW_PORT", "9999")
	t.Setenv("PHOSPHORUS_API_BASE", "http://phosphorus:8000")
	t.Setenv("CLIENT_TIMEOUT_SECONDS", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.GetReviewAddr() != "127.0.0.1:9999" {
		t.Errorf("Expected addr 127.0.0.1:9999, got %s", cfg.GetReviewAddr())
	}
	if cfg.PhosphorusAPIBase != "http://phosphorus:8000" {
		t.Errorf("Expected overridden API base, got %s", cfg.PhosphorusAPIBase)
	}
	if cfg.GetClientTimeout() != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", cfg.GetClientTimeout())
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"non-positive timeout", "CLIENT_TIMEOUT_SECONDS", "0"},
		{"negative concurrency", "FETCH_CONCURRENCY", "-2"},
		{"zero activity limit", "ACTIVITY_LIMIT", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(tc.key, tc.value)

			if _, err := Load(); err == nil {
				t.Errorf("Expected validation error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestLoadIgnoresMalformedIntegers(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("FETCH_CONCURRENCY", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.FetchConcurrency != 4 {
		t.Errorf("Expected fallback to default 4, got %d", cfg.FetchConcurrency)
	}
}

func TestGetTaskRetention(t *testing.T) {
	cfg := &Config{TaskRetentionDays: 7}
	if cfg.GetTaskRetention() != 7*24*time.Hour {
		t.Errorf("Expected 168h retention, got %v", cfg.GetTaskRetention())
	}
}
