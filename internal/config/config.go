package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"finanzplan/internal/core"
)

type Config struct {
	// Backend selection
	DataBackend string

	// SQLite
	SQLiteDBPath string

	// Memory backend seed directory
	DataDir string

	// Read cache in front of the store; size 0 disables it
	CacheSize int
	CacheTTL  time.Duration

	// Start month given to fixed costs stored before versioning
	LegacySentinelMonth string

	LogLevel string
}

func Load() *Config {
	return &Config{
		DataBackend:         getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath:        getEnv("SQLITE_DB_PATH", "./data/finanzplan.db"),
		DataDir:             getEnv("DATA_DIR", "data"),
		CacheSize:           getEnvInt("CACHE_SIZE", 32),
		CacheTTL:            getEnvDuration("CACHE_TTL", 0),
		LegacySentinelMonth: getEnv("LEGACY_SENTINEL_MONTH", core.LegacySentinelMonth),
		LogLevel:            getEnv("LOG_LEVEL", "WARN"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.CacheSize < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must not be negative", c.CacheSize))
	} else if c.CacheSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at most 10000", c.CacheSize))
	}
	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must not be negative", c.CacheTTL))
	}

	if _, err := core.ParseMonth(c.LegacySentinelMonth); err != nil {
		errors = append(errors, fmt.Sprintf("invalid legacy sentinel month '%s': must be YYYY-MM", c.LegacySentinelMonth))
	}

	switch strings.ToUpper(c.LogLevel) {
	case "", "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be DEBUG, INFO, WARN or ERROR", c.LogLevel))
	}

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
