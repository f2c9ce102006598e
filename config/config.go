// Package config provides application configuration management.
// It loads configuration from environment variables with sensible defaults.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Email        EmailConfig
	Scheduler    SchedulerConfig
	Notification NotificationConfig
	Metrics      MetricsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Environment     string
	LogLevel        slog.Level
	RateLimit       int
	RateLimitWindow time.Duration
}

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Driver          string
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis configuration. An empty Addr disables the sweep lock.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds bearer token configuration.
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// EmailConfig holds email service configuration.
type EmailConfig struct {
	ResendAPIKey       string
	ResendBaseURL      string
	FromName           string
	FromEmail          string
	AlertsEnabled      bool
	WorkerEnabled      bool
	PollInterval       time.Duration
	BatchSize          int
	RetentionDays      int
	BreakerFailures    uint32
	BreakerOpenTimeout time.Duration
}

// SchedulerConfig holds lifecycle sweep configuration.
type SchedulerConfig struct {
	Interval   time.Duration
	LockTTL    time.Duration
	RunOnStart bool
}

// NotificationConfig holds realtime alert stream configuration.
type NotificationConfig struct {
	WriteTimeout   time.Duration
	PingInterval   time.Duration
	AllowedOrigins []string
}

// MetricsConfig holds Prometheus configuration.
type MetricsConfig struct {
	Enabled bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			Environment:     getEnv("ENV", "development"),
			LogLevel:        getEnvAsLogLevel("LOG_LEVEL", slog.LevelInfo),
			RateLimit:       getEnvAsInt("RATE_LIMIT_REQUESTS", 120),
			RateLimitWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", DriverPostgres),
			URL:             databaseURL(),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", "change-me-in-production"),
			AccessTokenExpiry: getEnvAsDuration("JWT_ACCESS_TOKEN_EXPIRY", 15*time.Minute),
		},
		Email: EmailConfig{
			ResendAPIKey:       getEnv("RESEND_API_KEY", ""),
			ResendBaseURL:      getEnv("RESEND_BASE_URL", ""),
			FromName:           getEnv("EMAIL_FROM_NAME", "Budget Tracker"),
			FromEmail:          getEnv("EMAIL_FROM_ADDRESS", "onboarding@resend.dev"),
			AlertsEnabled:      getEnvAsBool("EMAIL_ALERTS_ENABLED", true),
			WorkerEnabled:      getEnvAsBool("EMAIL_WORKER_ENABLED", true),
			PollInterval:       getEnvAsDuration("EMAIL_WORKER_POLL_INTERVAL", 5*time.Second),
			BatchSize:          getEnvAsInt("EMAIL_WORKER_BATCH_SIZE", 10),
			RetentionDays:      getEnvAsInt("EMAIL_WORKER_RETENTION_DAYS", 30),
			BreakerFailures:    uint32(getEnvAsInt("BREAKER_CONSECUTIVE_FAILURES", 5)),
			BreakerOpenTimeout: getEnvAsDuration("BREAKER_OPEN_TIMEOUT", time.Minute),
		},
		Scheduler: SchedulerConfig{
			Interval:   getEnvAsDuration("LIFECYCLE_SWEEP_INTERVAL", time.Hour),
			LockTTL:    getEnvAsDuration("LIFECYCLE_LOCK_TTL", 5*time.Minute),
			RunOnStart: getEnvAsBool("LIFECYCLE_SWEEP_ON_START", true),
		},
		Notification: NotificationConfig{
			WriteTimeout:   getEnvAsDuration("WS_WRITE_TIMEOUT", 10*time.Second),
			PingInterval:   getEnvAsDuration("WS_PING_INTERVAL", 30*time.Second),
			AllowedOrigins: getEnvAsList("WS_ALLOWED_ORIGINS"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}
}

// databaseURL prefers DATABASE_URL and otherwise builds a DSN from the DB_* parts.
func databaseURL() string {
	if url := getEnv("DATABASE_URL", ""); url != "" {
		return url
	}
	if getEnv("DB_DRIVER", DriverPostgres) == DriverSQLite {
		return getEnv("DB_NAME", "budget_tracker.db")
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		getEnv("DB_USER", "app_user"),
		getEnv("DB_PASSWORD", "app_password"),
		getEnv("DB_HOST", "localhost"),
		getEnvAsInt("DB_PORT", 5432),
		getEnv("DB_NAME", "budget_tracker"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsLogLevel(key string, defaultValue slog.Level) slog.Level {
	if value, exists := os.LookupEnv(key); exists {
		var level slog.Level
		if err := level.UnmarshalText([]byte(value)); err == nil {
			return level
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := getEnv(key, "")
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
