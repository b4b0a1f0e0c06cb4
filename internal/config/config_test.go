package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) Config {
	return Config{
		DataBackend:         "sqlite",
		SQLiteDBPath:        filepath.Join(t.TempDir(), "db", "test.db"),
		DataDir:             "data",
		CacheSize:           32,
		LegacySentinelMonth: "1900-01",
		LogLevel:            "info",
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
			name:   "valid sqlite backend config",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid memory backend without db path",
			mutate: func(c *Config) { c.DataBackend = "memory"; c.SQLiteDBPath = "" },
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "sheets" },
			wantErr:     true,
			errorString: "invalid data backend 'sheets': must be one of [memory sqlite]",
		},
		{
			name:        "sqlite backend missing database path",
			mutate:      func(c *Config) { c.SQLiteDBPath = "" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name:        "negative cache size",
			mutate:      func(c *Config) { c.CacheSize = -1 },
			wantErr:     true,
			errorString: "invalid cache size -1: must not be negative",
		},
		{
			name:        "cache size too large",
			mutate:      func(c *Config) { c.CacheSize = 20000 },
			wantErr:     true,
			errorString: "invalid cache size 20000: must be at most 10000",
		},
		{
			name:        "negative cache TTL",
			mutate:      func(c *Config) { c.CacheTTL = -time.Second },
			wantErr:     true,
			errorString: "invalid cache TTL -1s",
		},
		{
			name:        "malformed sentinel month",
			mutate:      func(c *Config) { c.LegacySentinelMonth = "1900-1" },
			wantErr:     true,
			errorString: "invalid legacy sentinel month '1900-1'",
		},
		{
			name:        "unknown log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
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

func TestConfig_ValidateCreatesDatabaseDirectory(t *testing.T) {
	cfg := validConfig(t)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(cfg.SQLiteDBPath)); err != nil {
		t.Fatalf("database directory not created: %v", err)
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.DataBackend = "nope"
	cfg.CacheSize = -3
	err := cfg.Validate()
	if err == nil || strings.Count(err.Error(), "\n- ") != 2 {
		t.Fatalf("expected two aggregated errors, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	keys := []string{"DATA_BACKEND", "SQLITE_DB_PATH", "DATA_DIR", "CACHE_SIZE", "CACHE_TTL", "LEGACY_SENTINEL_MONTH", "LOG_LEVEL"}
	for _, key := range keys {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()
		if cfg.DataBackend != "sqlite" {
			t.Errorf("Load() DataBackend = %v, want sqlite", cfg.DataBackend)
		}
		if cfg.SQLiteDBPath != "./data/finanzplan.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/finanzplan.db", cfg.SQLiteDBPath)
		}
		if cfg.CacheSize != 32 || cfg.CacheTTL != 0 {
			t.Errorf("Load() cache = %d/%v, want 32/0", cfg.CacheSize, cfg.CacheTTL)
		}
		if cfg.LegacySentinelMonth != "1900-01" {
			t.Errorf("Load() LegacySentinelMonth = %v, want 1900-01", cfg.LegacySentinelMonth)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("DATA_BACKEND", "memory")
		t.Setenv("DATA_DIR", "/tmp/seed")
		t.Setenv("CACHE_SIZE", "8")
		t.Setenv("CACHE_TTL", "5m")
		t.Setenv("LOG_LEVEL", "debug")

		cfg := Load()
		if cfg.DataBackend != "memory" || cfg.DataDir != "/tmp/seed" {
			t.Errorf("Load() backend = %v dir = %v", cfg.DataBackend, cfg.DataDir)
		}
		if cfg.CacheSize != 8 || cfg.CacheTTL != 5*time.Minute {
			t.Errorf("Load() cache = %d/%v, want 8/5m", cfg.CacheSize, cfg.CacheTTL)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("Load() LogLevel = %v", cfg.LogLevel)
		}
	})

	t.Run("invalid numbers fall back to defaults", func(t *testing.T) {
		t.Setenv("CACHE_SIZE", "many")
		t.Setenv("CACHE_TTL", "soon")
		cfg := Load()
		if cfg.CacheSize != 32 || cfg.CacheTTL != 0 {
			t.Errorf("Load() cache = %d/%v, want defaults", cfg.CacheSize, cfg.CacheTTL)
		}
	})
}
