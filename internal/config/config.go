package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Server
	Port        string
	FrontendURL string

	// Sessions
	SessionExpiryMinutes int
	MaxSessions          int

	// Simulation
	TickHz      int
	TableLength float64
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		Environment: getEnv("APP_ENV", "development"),

		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		SessionExpiryMinutes: getEnvInt("SESSION_EXPIRY_MINUTES", 30),
		MaxSessions:          getEnvInt("MAX_SESSIONS", 200),

		TickHz:      getEnvInt("SIM_TICK_HZ", 60),
		TableLength: getEnvFloat("TABLE_LENGTH_MM", 0), // 0 = full-size default
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
