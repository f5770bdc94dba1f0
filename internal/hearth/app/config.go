package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer string // Issuer claim stamped into session tokens

	DatabaseFile   string // Path to SQLite database file (default: ./hearth.db)
	SessionKeyFile string // Optional: path to the Ed25519 session signing seed; empty means ephemeral

	SessionTTL time.Duration // Session token lifetime (default: 30m)
	BcryptCost int           // Password hashing cost (default: 12)

	StripeAPIKey        string // Optional: processor API key; empty disables outbound payment calls
	StripeWebhookSecret string // Required to accept webhook deliveries

	AdminEmail    string // Optional: seed an admin account with this email on startup
	AdminPassword string // Password for the seeded admin account

	Env                   string        // Environment (dev, staging, prod) (default: dev)
	LogLevel              string        // Log level (debug, info, warn, error) (default: info)
	LogFormat             string        // Log format (json, text) (default: json)
	Port                  int           // HTTP server port (default: 8080)
	ShutdownGracePeriod   time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval  time.Duration // Housekeeping interval (default: 1h)
	NotificationRetention time.Duration // How long read notifications are kept (default: 90 days)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:         getEnvOrDefault("HEARTH_ISSUER", "hearth"),
		DatabaseFile:   getEnvOrDefault("HEARTH_DATABASE_FILE", "hearth.db"),
		SessionKeyFile: os.Getenv("HEARTH_SESSION_KEY_FILE"),

		SessionTTL: getEnvDurationOrDefault("HEARTH_SESSION_TTL", 30*time.Minute),
		BcryptCost: getEnvIntOrDefault("HEARTH_BCRYPT_COST", 12),

		StripeAPIKey:        os.Getenv("HEARTH_STRIPE_API_KEY"),
		StripeWebhookSecret: os.Getenv("HEARTH_STRIPE_WEBHOOK_SECRET"),

		AdminEmail:    os.Getenv("HEARTH_ADMIN_EMAIL"),
		AdminPassword: os.Getenv("HEARTH_ADMIN_PASSWORD"),

		Env:                   getEnvOrDefault("ENV", "dev"),
		LogLevel:              getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:             getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                  getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:   getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval:  getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		NotificationRetention: getEnvDurationOrDefault("HEARTH_NOTIFICATION_RETENTION", 90*24*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
