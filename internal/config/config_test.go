package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:               "8081",
		RateLimitPerMinute: 60,
		LogLevel:           "info",
		LogFormat:          "text",
		MinYear:            2024,
		MaxYear:            2027,
		ViewCacheSize:      128,
		ViewCacheTTL:       5 * time.Minute,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid rate limit",
			mutate:      func(c *Config) { c.RateLimitPerMinute = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "reversed year range",
			mutate:      func(c *Config) { c.MinYear, c.MaxYear = 2027, 2024 },
			wantErr:     true,
			errorString: "max year must not precede min year",
		},
		{
			name:        "zero year",
			mutate:      func(c *Config) { c.MinYear = 0 },
			wantErr:     true,
			errorString: "years must be positive",
		},
		{
			name:        "invalid cache size - too small",
			mutate:      func(c *Config) { c.ViewCacheSize = 0 },
			wantErr:     true,
			errorString: "invalid view cache size 0: must be at least 1",
		},
		{
			name:        "invalid cache size - too large",
			mutate:      func(c *Config) { c.ViewCacheSize = 20000 },
			wantErr:     true,
			errorString: "invalid view cache size 20000: must be at most 10000",
		},
		{
			name:        "invalid cache ttl - too short",
			mutate:      func(c *Config) { c.ViewCacheTTL = 500 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid view cache TTL 500ms: must be at least 1 second",
		},
		{
			name:        "invalid cache ttl - too long",
			mutate:      func(c *Config) { c.ViewCacheTTL = 25 * time.Hour },
			wantErr:     true,
			errorString: "invalid view cache TTL 25h0m0s: must be at most 24 hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCombinesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.LogFormat = "xml"
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	if strings.Count(err.Error(), "\n- ") != 2 {
		t.Fatalf("expected two messages, got %q", err.Error())
	}
}

func TestLoad(t *testing.T) {
	keys := []string{"PORT", "LOG_LEVEL", "LOG_FORMAT", "SEED_FILE", "MIN_YEAR", "MAX_YEAR", "VIEW_CACHE_SIZE", "VIEW_CACHE_TTL", "RATE_LIMIT_PER_MINUTE"}
	for _, k := range keys {
		t.Setenv(k, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8081" {
			t.Errorf("Load() Port = %v, want 8081", cfg.Port)
		}
		if cfg.MinYear != 2024 || cfg.MaxYear != 2027 {
			t.Errorf("Load() years = %d-%d, want 2024-2027", cfg.MinYear, cfg.MaxYear)
		}
		if cfg.ViewCacheTTL != 5*time.Minute {
			t.Errorf("Load() ViewCacheTTL = %v, want 5m", cfg.ViewCacheTTL)
		}
		if cfg.LogFormat != "text" {
			t.Errorf("Load() LogFormat = %v, want text", cfg.LogFormat)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("defaults must validate: %v", err)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("MIN_YEAR", "2020")
		t.Setenv("MAX_YEAR", "2030")
		t.Setenv("VIEW_CACHE_TTL", "45s")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.LogFormat != "json" {
			t.Errorf("Load() LogFormat = %v, want json", cfg.LogFormat)
		}
		if y := cfg.Years(); y.Min != 2020 || y.Max != 2030 {
			t.Errorf("Load() Years = %+v, want 2020-2030", y)
		}
		if cfg.ViewCacheTTL != 45*time.Second {
			t.Errorf("Load() ViewCacheTTL = %v, want 45s", cfg.ViewCacheTTL)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		t.Setenv("VIEW_CACHE_SIZE", "invalid")
		t.Setenv("VIEW_CACHE_TTL", "invalid")

		cfg := Load()

		if cfg.ViewCacheSize != 128 {
			t.Errorf("Load() ViewCacheSize = %v, want 128 (default for invalid input)", cfg.ViewCacheSize)
		}
		if cfg.ViewCacheTTL != 5*time.Minute {
			t.Errorf("Load() ViewCacheTTL = %v, want 5m (default for invalid input)", cfg.ViewCacheTTL)
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("PORT=7070\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	LoadDotEnv(path)
	if cfg := Load(); cfg.Port != "7070" {
		t.Fatalf("Load() Port = %v, want 7070 from .env", cfg.Port)
	}

	// Missing files are ignored.
	LoadDotEnv(filepath.Join(dir, "missing.env"))
}
