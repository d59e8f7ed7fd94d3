// Package config provides application configuration loaded from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Backend  BackendConfig
	Log      LogConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	if strings.Contains(s.Port, ":") {
		return s.Port
	}
	return ":" + s.Port
}

// DatabaseConfig holds the local store connection settings.
type DatabaseConfig struct {
	Driver   string // sqlite | postgres
	Path     string // sqlite file
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Debug    bool
}

// DSN returns the driver specific connection string.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "postgres" {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
		)
	}
	return d.Path
}

// URL returns the connection string in the URL form golang-migrate expects.
func (d DatabaseConfig) URL() string {
	if d.Driver == "postgres" {
		return fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=%s",
			d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
		)
	}
	return "sqlite://" + d.Path
}

// BackendConfig describes the remote store API.
type BackendConfig struct {
	URL         string
	Timeout     time.Duration
	UploadMaxMB int
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string
	Path  string
	File  bool
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev             bool
	Migrations      bool
	SessionSecret   string
	SessionTTL      time.Duration
	DefaultPageSize int
	JanitorSchedule string
	// CookieSecure marks the session cookie Secure; enable it behind TLS.
	CookieSecure bool
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 60),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			Path:     getEnv("DB_PATH", "store-admin.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "storeadmin"),
			Password: getEnv("DB_PASSWORD", "storeadmin"),
			DBName:   getEnv("DB_NAME", "storeadmin"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Debug:    getEnvBool("DB_DEBUG", false),
		},
		Backend: BackendConfig{
			URL:         getEnv("BACKEND_URL", ""),
			Timeout:     getEnvDuration("BACKEND_TIMEOUT", 30*time.Second),
			UploadMaxMB: getEnvInt("BACKEND_UPLOAD_MAX_MB", 10),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Path:  getEnv("LOG_PATH", "logs/store-admin.log"),
			File:  getEnvBool("LOG_FILE", false),
		},
		App: AppConfig{
			Dev:             getEnvBool("DEV", false),
			Migrations:      getEnvBool("MIGRATIONS", false),
			SessionSecret:   getEnv("SESSION_SECRET", ""),
			SessionTTL:      getEnvDuration("SESSION_TTL", 12*time.Hour),
			DefaultPageSize: getEnvInt("DEFAULT_PAGE_SIZE", 10),
			JanitorSchedule: getEnv("JANITOR_SCHEDULE", "@hourly"),
			CookieSecure:    getEnvBool("COOKIE_SECURE", false),
		},
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Backend.URL == "" {
		errs = append(errs, errors.New("BACKEND_URL is required"))
	}
	if c.App.SessionSecret == "" && !c.App.Dev {
		errs = append(errs, errors.New("SESSION_SECRET is required outside DEV mode"))
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not supported", c.Database.Driver))
	}
	return errors.Join(errs...)
}

// Secret returns SESSION_SECRET or a fixed development value.
func (a AppConfig) Secret() string {
	if a.SessionSecret != "" {
		return a.SessionSecret
	}
	return "devsessionsecret"
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvDuration accepts Go durations ("30s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	return defaultValue
}
