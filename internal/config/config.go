package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Session store backends.
const (
	SessionMemory = "memory"
	SessionSQLite = "sqlite"
	SessionRedis  = "redis"
)

type Config struct {
	// HTTP Server
	Port     string `env:"PORT" envDefault:"8081"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// FinSafe API
	APIBaseURL string        `env:"FINSAFE_API_URL" envDefault:"https://finsafe-tracker-api.onrender.com/api/"`
	APITimeout time.Duration `env:"FINSAFE_API_TIMEOUT" envDefault:"15s"`
	APIRetries int           `env:"FINSAFE_API_RETRIES" envDefault:"2"`

	// Sessions
	SessionBackend      string        `env:"SESSION_BACKEND" envDefault:"memory"`
	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionCookieName   string        `env:"SESSION_COOKIE_NAME" envDefault:"finsafe_session"`
	SessionCookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	SessionMaxEntries   int           `env:"SESSION_MAX_ENTRIES" envDefault:"10000"`

	// Database
	SQLiteDBPath string `env:"SQLITE_DB_PATH" envDefault:"./data/finsafe.db"`

	// Redis
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// AMQP (balance alerts); empty URL disables publishing
	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"finsafe"`
	AMQPQueue    string `env:"AMQP_QUEUE" envDefault:"balance_alerts"`

	// Google Sheets alert sink (worker only)
	GoogleSpreadsheetID   string `env:"GOOGLE_SPREADSHEET_ID"`
	GoogleAlertsSheetName string `env:"GOOGLE_ALERTS_SHEET_NAME" envDefault:"Alerts"`
	GoogleServiceAccount  string `env:"GOOGLE_SERVICE_ACCOUNT_JSON"`
	GoogleServiceAcctFile string `env:"GOOGLE_SERVICE_ACCOUNT_FILE"`
	GoogleOAuthClientJSON string `env:"GOOGLE_OAUTH_CLIENT_JSON"`
	GoogleOAuthClientFile string `env:"GOOGLE_OAUTH_CLIENT_FILE"`
	GoogleOAuthTokenFile  string `env:"GOOGLE_OAUTH_TOKEN_FILE"`

	// Alert worker
	AlertBatchSize     int           `env:"ALERT_BATCH_SIZE" envDefault:"10"`
	AlertRetryInterval time.Duration `env:"ALERT_RETRY_INTERVAL" envDefault:"5m"`

	// Rate limiting
	RateLimitPerMinute     int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
	AuthRateLimitPerMinute int      `env:"AUTH_RATE_LIMIT_PER_MINUTE" envDefault:"10"`
	TrustedProxies         []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Caching of analytics responses
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// AlertsEnabled reports whether balance alerts should be published.
func (c *Config) AlertsEnabled() bool {
	return c.AMQPURL != ""
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

	// Validate API URL
	if c.APIBaseURL == "" {
		errors = append(errors, "FinSafe API URL cannot be empty")
	} else if parsedURL, err := url.Parse(c.APIBaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid FinSafe API URL '%s': %v", c.APIBaseURL, err))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid FinSafe API URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
	}
	if c.APITimeout < time.Second || c.APITimeout > 2*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid API timeout %v: must be between 1s and 2m", c.APITimeout))
	}
	if c.APIRetries < 0 || c.APIRetries > 5 {
		errors = append(errors, fmt.Sprintf("invalid API retries %d: must be between 0 and 5", c.APIRetries))
	}

	// Validate session backend
	validBackends := []string{SessionMemory, SessionSQLite, SessionRedis}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.SessionBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid session backend '%s': must be one of %v", c.SessionBackend, validBackends))
	}
	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}
	if strings.TrimSpace(c.SessionCookieName) == "" {
		errors = append(errors, "session cookie name cannot be empty")
	}
	if c.SessionBackend == SessionMemory && c.SessionMaxEntries < 1 {
		errors = append(errors, fmt.Sprintf("invalid session max entries %d: must be at least 1", c.SessionMaxEntries))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.SessionBackend == SessionSQLite {
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

	// Validate Redis configuration if backend is redis
	if c.SessionBackend == SessionRedis {
		if c.RedisAddr == "" {
			errors = append(errors, "Redis address cannot be empty when using redis backend")
		}
		if c.RedisDB < 0 || c.RedisDB > 15 {
			errors = append(errors, fmt.Sprintf("invalid Redis DB %d: must be between 0 and 15", c.RedisDB))
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate rate limits
	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}
	if c.AuthRateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid auth rate limit %d: must be at least 1 request per minute", c.AuthRateLimitPerMinute))
	}

	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(strings.TrimSpace(cidr)); err != nil {
			errors = append(errors, fmt.Sprintf("invalid trusted proxy CIDR '%s'", cidr))
		}
	}

	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must not be negative", c.CacheTTL))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ValidateWorker checks the settings the alert worker needs on top of Validate.
func (c *Config) ValidateWorker() error {
	var errors []string
	if c.AMQPURL == "" {
		errors = append(errors, "AMQP URL is required for the alert worker")
	}
	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path is required for the alert worker")
	}
	if c.AlertBatchSize < 1 || c.AlertBatchSize > 500 {
		errors = append(errors, fmt.Sprintf("invalid alert batch size %d: must be between 1 and 500", c.AlertBatchSize))
	}
	if c.AlertRetryInterval < 10*time.Second {
		errors = append(errors, fmt.Sprintf("invalid alert retry interval %v: must be at least 10s", c.AlertRetryInterval))
	}
	if c.GoogleSpreadsheetID != "" {
		if c.GoogleAlertsSheetName == "" {
			errors = append(errors, "Google alerts sheet name is required when a spreadsheet ID is set")
		}
		switch {
		case c.GoogleOAuthTokenFile != "":
			if c.GoogleOAuthClientJSON == "" && c.GoogleOAuthClientFile == "" {
				errors = append(errors, "Google OAuth client is required when an OAuth token file is set")
			}
			if _, err := os.Stat(c.GoogleOAuthTokenFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google OAuth token file does not exist: %s", c.GoogleOAuthTokenFile))
			}
		case c.GoogleServiceAccount == "" && c.GoogleServiceAcctFile == "" && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "":
			errors = append(errors, "Google service account credentials are required when a spreadsheet ID is set")
		}
		if c.GoogleServiceAcctFile != "" {
			if _, err := os.Stat(c.GoogleServiceAcctFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAcctFile))
			}
		}
	}
	if len(errors) > 0 {
		return fmt.Errorf("worker configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}
