package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"chitieu/internal/core"
)

type Config struct {
	// HTTP Server
	Port               string
	RateLimitPerMinute int

	// Logging
	LogLevel  string
	LogFormat string

	// Seed data; empty or missing file means built-in defaults
	SeedFile string

	// Query validation
	MinYear int
	MaxYear int

	// Derived view cache
	ViewCacheSize int
	ViewCacheTTL  time.Duration
}

// LoadDotEnv reads .env files into the environment if present. Variables
// already set win over file values.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

func Load() *Config {
	cfg := &Config{
		Port:               getEnv("PORT", "8081"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		SeedFile: getEnv("SEED_FILE", "./data/categories.yaml"),

		MinYear: getEnvInt("MIN_YEAR", core.DefaultYearRange.Min),
		MaxYear: getEnvInt("MAX_YEAR", core.DefaultYearRange.Max),

		ViewCacheSize: getEnvInt("VIEW_CACHE_SIZE", 128),
		ViewCacheTTL:  getEnvDuration("VIEW_CACHE_TTL", 5*time.Minute),
	}

	return cfg
}

// Years returns the configured year range.
func (c *Config) Years() core.YearRange {
	return core.YearRange{Min: c.MinYear, Max: c.MaxYear}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of [json text]", c.LogFormat))
	}

	// Validate year range
	if c.MinYear < 1 || c.MaxYear < 1 {
		errors = append(errors, fmt.Sprintf("invalid year range %d-%d: years must be positive", c.MinYear, c.MaxYear))
	} else if c.MaxYear < c.MinYear {
		errors = append(errors, fmt.Sprintf("invalid year range %d-%d: max year must not precede min year", c.MinYear, c.MaxYear))
	}

	// Validate cache configuration
	if c.ViewCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid view cache size %d: must be at least 1", c.ViewCacheSize))
	} else if c.ViewCacheSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid view cache size %d: must be at most 10000", c.ViewCacheSize))
	}

	if c.ViewCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid view cache TTL %v: must be at least 1 second", c.ViewCacheTTL))
	} else if c.ViewCacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid view cache TTL %v: must be at most 24 hours", c.ViewCacheTTL))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
