// Package config loads the runtime configuration: environment settings for
// the process plus the operator-edited YAML scope file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Scan settings
	ScopeConfigPath string
	DataDir         string

	// Digest formatting
	DigestMaxLineRunes int

	// HTTP settings
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration

	// Telegram settings (empty = notifications off)
	TelegramToken  string
	TelegramChatID string

	// Notify cache settings
	NotifyCache     string // "file", "postgres" or "off"
	NotifyCachePath string
	NotifyTTL       time.Duration
	DatabaseURL     string

	// Scheduling: cron expression; empty means one run per invocation
	RunSchedule string

	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		ScopeConfigPath:    "configs/scope.yaml",
		DataDir:            "web/data",
		DigestMaxLineRunes: 160,
		RequestTimeout:     30 * time.Second,
		RetryAttempts:      3,
		RetryDelay:         5 * time.Second,
		NotifyCache:        "file",
		NotifyCachePath:    "sent_alerts.json",
		NotifyTTL:          7 * 24 * time.Hour,
	}

	cfg.ScopeConfigPath = getEnvOrDefault("SCOPE_CONFIG_PATH", cfg.ScopeConfigPath)
	cfg.DataDir = getEnvOrDefault("DATA_DIR", cfg.DataDir)
	cfg.DigestMaxLineRunes = getEnvIntOrDefault("DIGEST_MAX_LINE_RUNES", cfg.DigestMaxLineRunes)

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}
	cfg.RetryAttempts = getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)
	if v := os.Getenv("RETRY_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RetryDelay = d
		}
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")

	cfg.NotifyCache = getEnvOrDefault("NOTIFY_CACHE", cfg.NotifyCache)
	cfg.NotifyCachePath = getEnvOrDefault("NOTIFY_CACHE_PATH", cfg.NotifyCachePath)
	if hours := getEnvIntOrDefault("NOTIFY_TTL_HOURS", 0); hours > 0 {
		cfg.NotifyTTL = time.Duration(hours) * time.Hour
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.RunSchedule = os.Getenv("RUN_SCHEDULE")

	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	switch c.NotifyCache {
	case "file", "postgres", "off":
	default:
		return fmt.Errorf("NOTIFY_CACHE must be 'file', 'postgres' or 'off'")
	}
	if c.NotifyCache == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when NOTIFY_CACHE=postgres")
	}
	return nil
}
