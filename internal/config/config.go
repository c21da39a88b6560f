package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	APIBaseURL  string
	APIKey      string // optional static header sent with every request
	LogLevel    string
	LogFile     string
	Environment string // development, staging, production
}

// Load loads configuration from a .env file (when present) and environment
// variables.
func Load() (*Config, error) {
	// Load .env file if it exists; plain env vars win.
	godotenv.Load() //nolint:errcheck // missing .env is the normal case

	cfg := &Config{
		APIBaseURL:  getEnv("TASKDECK_API_URL", "http://localhost:5000"),
		APIKey:      getEnv("TASKDECK_API_KEY", ""),
		LogLevel:    getEnv("TASKDECK_LOG_LEVEL", "info"),
		LogFile:     getEnv("TASKDECK_LOG_FILE", ""),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if cfg.LogFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.LogFile = filepath.Join(home, ".taskdeck", "taskdeck.log")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration for correctness.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("TASKDECK_API_URL must not be empty")
	}
	if c.IsProduction() && strings.HasPrefix(c.APIBaseURL, "http://") {
		return fmt.Errorf("TASKDECK_API_URL must use https in production (got %s)", c.APIBaseURL)
	}
	return nil
}

// IsProduction returns true if running against a production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev" || c.Environment == ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
