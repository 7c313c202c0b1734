package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Remote API
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Pagination
	PageLimit int

	// Dashboard aggregation
	FeedLimit            int
	RecentPerAccount     int
	AggregateConcurrency int

	// Transaction count caching
	CountCacheTTL time.Duration

	// Credentials for the rest backend: either a user id/token pair or a
	// username/password pair to sign in with.
	UserID    string
	UserToken string
	Username  string
	Password  string

	// Backend selection
	DataBackend string

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		APIBaseURL:  getEnv("BUJET_API_BASE_URL", "https://bujet-api.onrender.com"),
		HTTPTimeout: getEnvDuration("BUJET_HTTP_TIMEOUT", 15*time.Second),

		PageLimit: getEnvInt("BUJET_PAGE_LIMIT", 10),

		FeedLimit:            getEnvInt("BUJET_FEED_LIMIT", 10),
		RecentPerAccount:     getEnvInt("BUJET_RECENT_PER_ACCOUNT", 10),
		AggregateConcurrency: getEnvInt("BUJET_AGGREGATE_CONCURRENCY", 4),

		CountCacheTTL: getEnvDuration("BUJET_COUNT_CACHE_TTL", 30*time.Second),

		UserID:    getEnv("BUJET_USER_ID", ""),
		UserToken: getEnv("BUJET_USER_TOKEN", ""),
		Username:  getEnv("BUJET_USERNAME", ""),
		Password:  getEnv("BUJET_PASSWORD", ""),

		DataBackend: getEnv("DATA_BACKEND", "rest"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	validBackends := []string{"rest", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "rest" {
		hasToken := c.UserID != "" && c.UserToken != ""
		hasLogin := c.Username != "" && c.Password != ""
		if !hasToken && !hasLogin {
			errs = append(errs, "missing credentials for rest backend: set BUJET_USER_ID and BUJET_USER_TOKEN, or BUJET_USERNAME and BUJET_PASSWORD")
		}
		if parsed, err := url.Parse(c.APIBaseURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBaseURL, err))
		} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
			errs = append(errs, fmt.Sprintf("invalid API base URL scheme '%s': must be 'http' or 'https'", parsed.Scheme))
		}
	}

	if c.HTTPTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid HTTP timeout %v: must be at least 1 second", c.HTTPTimeout))
	}

	if c.PageLimit < 1 {
		errs = append(errs, fmt.Sprintf("invalid page limit %d: must be at least 1", c.PageLimit))
	} else if c.PageLimit > 100 {
		errs = append(errs, fmt.Sprintf("invalid page limit %d: must be at most 100", c.PageLimit))
	}

	if c.FeedLimit < 1 {
		errs = append(errs, fmt.Sprintf("invalid feed limit %d: must be at least 1", c.FeedLimit))
	}
	if c.RecentPerAccount < 1 {
		errs = append(errs, fmt.Sprintf("invalid per-account recent limit %d: must be at least 1", c.RecentPerAccount))
	}
	if c.AggregateConcurrency < 1 || c.AggregateConcurrency > 32 {
		errs = append(errs, fmt.Sprintf("invalid aggregate concurrency %d: must be between 1 and 32", c.AggregateConcurrency))
	}

	if c.CountCacheTTL < 0 {
		errs = append(errs, fmt.Sprintf("invalid count cache TTL %v: must not be negative", c.CountCacheTTL))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
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
