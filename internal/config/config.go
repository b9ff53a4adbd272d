package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	TelegramToken string
	DatabaseURL   string
	LogLevel      string
	LogFile       string
	Port          string
}

// Load loads configuration from environment variables. A .env file in
// the working directory is read first when present, so local runs do
// not need exported variables.
func Load() (*Config, error) {
	// Missing .env is fine in production where the environment is set
	// by the process manager.
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:  getEnvOrDefault("LOG_FILE", "friengo.log"),
		Port:     getEnvOrDefault("PORT", "8080"),
	}

	if cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN"); cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN environment variable is required")
	}

	if cfg.DatabaseURL = os.Getenv("DATABASE_URL"); cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
