package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all externally supplied settings. Only the Google API key
// is required for the service to do useful work; its absence is reported
// per-request as service-unavailable, never as a crash.
type Config struct {
	GoogleAPIKey    string
	AnthropicAPIKey string
	AIModel         string
	Host            string
	Port            string
	Environment     string
	LogLevel        string
	EnableTracing   bool
	SessionTTL      time.Duration
	MaxSessions     int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[INFO] No .env file found, using environment variables")
	}

	return &Config{
		GoogleAPIKey:    os.Getenv("GOOGLE_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AIModel:         getEnv("AI_MODEL", "gemini-2.5-flash"),
		Host:            getEnv("HOST", "0.0.0.0"),
		Port:            getEnv("PORT", "7020"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		EnableTracing:   getEnvBool("ENABLE_TRACING", true),
		SessionTTL:      getEnvDuration("SESSION_TTL", time.Hour),
		MaxSessions:     getEnvInt("MAX_SESSIONS", 1000),
	}
}

// IsConfigured reports whether the required model credential is present.
func (c *Config) IsConfigured() bool {
	return c.GoogleAPIKey != ""
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("[ERROR] Invalid boolean for %s: %q, using default", key, value)
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[ERROR] Invalid integer for %s: %q, using default", key, value)
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("[ERROR] Invalid duration for %s: %q, using default", key, value)
		return fallback
	}
	return parsed
}
