package config

import (
	"os"
	"strconv"

	apperrors "godiag/internal/errors"
)

// Config holds all runtime configuration
type Config struct {
	Port        string
	DatabaseURL string
	GinMode     string
	LogLevel    string

	// CostTableFile optionally overrides the built-in cost catalog with a
	// JSON file on disk. Empty means use the compiled-in defaults.
	CostTableFile string

	// DefaultConfidenceLevel applies when a request omits one
	DefaultConfidenceLevel float64

	// MaxUploadSizeMB caps batch upload payloads
	MaxUploadSizeMB int
}

// Load reads configuration from environment variables with sensible defaults.
// Only DATABASE_URL is optional at the type level; when empty the server runs
// without persistence.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                   getEnvOrDefault("PORT", "8080"),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		GinMode:                getEnvOrDefault("GIN_MODE", "release"),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "INFO"),
		CostTableFile:          os.Getenv("COST_TABLE_FILE"),
		DefaultConfidenceLevel: getEnvFloatOrDefault("DEFAULT_CONFIDENCE_LEVEL", 0.95),
		MaxUploadSizeMB:        getEnvIntOrDefault("MAX_UPLOAD_SIZE_MB", 16),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DefaultConfidenceLevel <= 0 || c.DefaultConfidenceLevel >= 1 {
		return apperrors.ConfigInvalid("DEFAULT_CONFIDENCE_LEVEL must be in (0, 1)")
	}
	if c.MaxUploadSizeMB <= 0 {
		return apperrors.ConfigInvalid("MAX_UPLOAD_SIZE_MB must be positive")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return apperrors.ConfigInvalid("PORT must be numeric")
	}
	return nil
}

// HasDatabase reports whether persistence is configured
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
