package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Redis     RedisConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	WhatsApp  WhatsAppConfig
	Scheduler SchedulerConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	Timezone       string
}

// DatabaseConfig selects the relational backend. Driver is "sqlite" or "mysql".
type DatabaseConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Tracing         bool
}

// AuthConfig controls session handling.
type AuthConfig struct {
	Required     bool
	CookieName   string
	CookieSecure bool
	SessionTTL   time.Duration
	SeedPassword string
}

// RedisConfig holds the optional session store address.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// MongoDBConfig holds settings for the optional summary archive.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to mirror summaries to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken    string
	PhoneNumberID  string
	BaseURL        string
	APIVersion     string
	AlertRecipient string
}

// SchedulerConfig holds cron expressions for background jobs. An empty
// expression disables the job.
type SchedulerConfig struct {
	Enabled     bool
	SummaryCron string
	OverdueCron string
	AlertCron   string
}

// LogConfig tunes the zap logger.
type LogConfig struct {
	Level       string
	Development bool
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getenvWithDefault("APP_PORT", "8080"),
			AllowedOrigins: splitAndTrim(os.Getenv("CORS_ALLOWED_ORIGINS")),
			Timezone:       getenvWithDefault("TIMEZONE", "UTC"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getenvWithDefault("DB_DRIVER", "sqlite")),
			DSN:             getenvWithDefault("DB_DSN", "herdbook.db?_pragma=foreign_keys(1)"),
			MaxOpenConns:    intFromEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    intFromEnv("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: time.Duration(intFromEnv("DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second,
			Tracing:         boolFromEnv("DB_TRACING", false),
		},
		Auth: AuthConfig{
			Required:     boolFromEnv("AUTH_REQUIRED", true),
			CookieName:   getenvWithDefault("SESSION_COOKIE_NAME", "herdbook_session"),
			CookieSecure: boolFromEnv("SESSION_COOKIE_SECURE", false),
			SessionTTL:   time.Duration(intFromEnv("SESSION_TTL_HOURS", 24)) * time.Hour,
			SeedPassword: getenvWithDefault("SEED_PASSWORD", "changeme123"),
		},
		Redis: RedisConfig{
			Address:  os.Getenv("REDIS_ADDRESS"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       intFromEnv("REDIS_DB", 0),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "herdbook"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:    os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID:  os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:        getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:     getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			AlertRecipient: os.Getenv("WHATSAPP_ALERT_RECIPIENT"),
		},
		Scheduler: SchedulerConfig{
			Enabled:     boolFromEnv("SCHEDULER_ENABLED", true),
			SummaryCron: getenvWithDefault("SUMMARY_CRON", "55 23 * * *"),
			OverdueCron: getenvWithDefault("OVERDUE_CRON", "0 * * * *"),
			AlertCron:   getenvWithDefault("ALERT_CRON", "0 7 * * *"),
		},
		Log: LogConfig{
			Level:       getenvWithDefault("LOG_LEVEL", "info"),
			Development: boolFromEnv("LOG_DEVELOPMENT", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if _, err := time.LoadLocation(c.Server.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("DB_DRIVER %q is not supported (use sqlite or mysql)", c.Database.Driver)
	}

	if c.Database.DSN == "" {
		return errors.New("DB_DSN must be provided")
	}

	if c.Auth.CookieName == "" {
		return errors.New("SESSION_COOKIE_NAME must not be empty")
	}

	if c.Auth.SessionTTL <= 0 {
		return errors.New("SESSION_TTL_HOURS must be positive")
	}

	if c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when GOOGLE_SHEET_DATABASE_ID is set")
	}

	if c.WhatsApp.AccessToken != "" {
		switch {
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.AlertRecipient == "":
			return errors.New("WHATSAPP_ALERT_RECIPIENT must be provided")
		case c.WhatsApp.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case c.WhatsApp.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	return nil
}

// Location returns the farm's reporting timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WhatsAppEnabled reports whether outbound alerts are configured.
func (c *Config) WhatsAppEnabled() bool {
	return c.WhatsApp.AccessToken != ""
}

// SheetsEnabled reports whether summaries should be mirrored to Google Sheets.
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.SpreadsheetID != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func boolFromEnv(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitAndTrim(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
