// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultPreamble seeds every prompt sent to the model.
const DefaultPreamble = "You are a helpful career counsellor."

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string
	SessionTTL  time.Duration

	Model ModelConfig

	// Preamble is the system text prepended to every prompt.
	Preamble string
	// HistoryWindowPairs is how many recent exchanges a prompt keeps.
	HistoryWindowPairs int
}

// ModelConfig selects and configures the hosted model provider.
// Credentials live here and are never exposed to end users.
type ModelConfig struct {
	Provider    string // "openai" or "google"
	Name        string
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	provider := getEnv("MODEL_PROVIDER", "google")

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/careerbot.db"),
		SessionTTL:  getEnvDuration("SESSION_TTL", 24*time.Hour),
		Model: ModelConfig{
			Provider:    provider,
			Name:        getEnv("MODEL_NAME", defaultModelName(provider)),
			APIKey:      getEnv("MODEL_API_KEY", ""),
			BaseURL:     getEnv("MODEL_BASE_URL", ""),
			Timeout:     getEnvDuration("MODEL_TIMEOUT", 30*time.Second),
			MaxAttempts: getEnvInt("MODEL_MAX_ATTEMPTS", 2),
		},
		Preamble:           getEnv("CHAT_PREAMBLE", DefaultPreamble),
		HistoryWindowPairs: getEnvInt("HISTORY_WINDOW_PAIRS", 3),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Model.Provider != "openai" && c.Model.Provider != "google" {
		return fmt.Errorf("MODEL_PROVIDER must be openai or google, got %q", c.Model.Provider)
	}
	if c.Model.APIKey == "" {
		return fmt.Errorf("MODEL_API_KEY cannot be empty")
	}
	if c.HistoryWindowPairs < 1 {
		return fmt.Errorf("HISTORY_WINDOW_PAIRS must be >= 1")
	}
	if c.Model.MaxAttempts < 1 {
		return fmt.Errorf("MODEL_MAX_ATTEMPTS must be >= 1")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func defaultModelName(provider string) string {
	if provider == "openai" {
		return "gpt-4o-mini"
	}
	return "gemini-1.5-flash"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
