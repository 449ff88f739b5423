package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int
	DatabasePath   string
	FrontendOrigin string // Origin allowed to send credentialed requests
	AdminUsername  string // Username granted the admin role
	SessionTTL     time.Duration
	SweepSchedule  string // Cron expression for the expired-session sweep
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "3000")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	ttlStr := getEnv("SESSION_TTL_HOURS", "24")
	ttlHours, err := strconv.Atoi(ttlStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:     port,
		DatabasePath:   getEnv("DATABASE_PATH", "./accounthub.db"),
		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:8080"),
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		SessionTTL:     time.Duration(ttlHours) * time.Hour,
		SweepSchedule:  getEnv("SESSION_SWEEP_SCHEDULE", "*/15 * * * *"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
