package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr  string
	CORSOrigins string // Comma-separated allowed origins

	// Database
	DatabaseURL string
	DBMaxConns  int

	// Gemini (external knowledge service)
	GeminiAPIKey     string
	GeminiModel      string
	GeminiBaseURL    string
	GeminiTimeoutSec int
	GeminiMaxRetries int
}

// Load reads configuration from environment variables with sensible defaults.
// DATABASE_URL wins when set; otherwise the URL is assembled from the discrete
// DB_* variables.
func Load() *Config {
	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":5001"),
		CORSOrigins: getEnv("CORS_ORIGINS", ""),

		DatabaseURL: getEnv("DATABASE_URL", databaseURLFromParts()),
		DBMaxConns:  getEnvInt("DB_MAX_CONNS", 10),

		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash-preview-09-2025"),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiTimeoutSec: getEnvInt("GEMINI_TIMEOUT_SECONDS", 30),
		GeminiMaxRetries: getEnvInt("GEMINI_MAX_RETRIES", 2),
	}
}

func databaseURLFromParts() string {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	name := getEnv("DB_NAME", "statline")
	user := getEnv("DB_USER", "statline")
	password := getEnv("DB_PASSWORD", "statline")
	sslmode := getEnv("DB_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, password, host, port, name, sslmode)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
