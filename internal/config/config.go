// ABOUTME: Configuration loader for the ems client
// ABOUTME: Loads settings from environment variables (and an optional .env file) with defaults

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/markalston/employee-console/internal/localstore"
)

// DefaultAPIURL is used when neither flag nor environment sets one
const DefaultAPIURL = "http://localhost:5000/api"

type Config struct {
	// Backend
	APIURL         string
	RequestTimeout time.Duration

	// Federated login (Google)
	GoogleClientID     string
	GoogleClientSecret string

	// Feature flags
	AuditEnabled bool

	// Local state
	ConfigDir string

	// Query tuning
	SearchDebounce time.Duration
	ListStaleTime  time.Duration
	ListCacheTime  time.Duration

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string
}

// FederatedConfigured returns true if a Google client ID is set
func (c *Config) FederatedConfigured() bool {
	return c.GoogleClientID != ""
}

// DebugLogPath returns the log file used by the TUI when LOG_FILE is unset
func (c *Config) DebugLogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	if c.ConfigDir == "" {
		return ""
	}
	return filepath.Join(c.ConfigDir, "debug.log")
}

// Load reads configuration once at startup. A .env file in the working
// directory is applied first without overriding variables already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Ignoring unreadable .env file", "error", err)
	}

	cfg := &Config{
		APIURL:         strings.TrimRight(getEnv("EMS_API_URL", DefaultAPIURL), "/"),
		RequestTimeout: getEnvDuration("EMS_REQUEST_TIMEOUT", 30*time.Second),

		GoogleClientID:     os.Getenv("EMS_GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("EMS_GOOGLE_CLIENT_SECRET"),

		AuditEnabled: getEnvBool("EMS_ENABLE_AUDIT", false),

		ConfigDir: localstore.DefaultConfigDir(),

		SearchDebounce: getEnvDuration("EMS_SEARCH_DEBOUNCE", 500*time.Millisecond),
		ListStaleTime:  getEnvDuration("EMS_LIST_STALE_TIME", time.Minute),
		ListCacheTime:  getEnvDuration("EMS_LIST_CACHE_TIME", 10*time.Minute),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogFile:   os.Getenv("LOG_FILE"),
	}

	if err := ValidateAPIURL(cfg.APIURL); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("EMS_REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}
	if cfg.SearchDebounce < 0 {
		return nil, fmt.Errorf("EMS_SEARCH_DEBOUNCE must not be negative, got %s", cfg.SearchDebounce)
	}
	if cfg.ListCacheTime < cfg.ListStaleTime {
		return nil, fmt.Errorf("EMS_LIST_CACHE_TIME (%s) must be at least EMS_LIST_STALE_TIME (%s)", cfg.ListCacheTime, cfg.ListStaleTime)
	}

	return cfg, nil
}

// ValidateAPIURL checks that raw is an absolute http(s) URL
func ValidateAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid API URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid API URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid API URL %q: missing host", raw)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
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
