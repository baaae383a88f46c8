package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string // "sqlite" (default), "postgres" or "mysql"
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string

	// Auth
	JWTSecret     string
	TokenDuration time.Duration

	// Dues: day of the month a cotisation falls due
	DuesDueDay int

	// Reminder emails
	SESRegion        string
	SESFromEmail     string
	SESFromName      string
	ReminderInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:       getEnv("PORT", "8080"),
		DatabaseType:     getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:      getEnv("DB_URL", ""),
		DatabasePath:     getEnv("DB_PATH", "./lescombis.db"),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", "./migrations"),
		JWTSecret:        getEnv("JWT_SECRET", "combis-dev-secret"),
		TokenDuration:    getEnvDuration("TOKEN_DURATION", 24*time.Hour),
		DuesDueDay:       getEnvInt("DUES_DUE_DAY", 5),
		SESRegion:        getEnv("SES_REGION", "eu-west-1"),
		SESFromEmail:     getEnv("SES_FROM_EMAIL", ""),
		SESFromName:      getEnv("SES_FROM_NAME", "LES COMBIS"),
		ReminderInterval: getEnvDuration("REMINDER_INTERVAL", 24*time.Hour),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvDuration reads a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
