package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	RedisURL    string
	ServerPort  string
	Environment string
	WALPath     string

	// Identity handoff from the external provider
	IdentityHeader    string
	IdentityJWTSecret string

	// Event relay (WAL -> broker)
	RelaySchedule string

	// Broadcast fan-out
	BroadcastConcurrency int
	InboxLimit           int

	// Rate limiting
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration

	CORSOrigins []string
}

func Load() *Config {
	// Try to load .env file, but don't fail if it doesn't exist
	// (Docker containers use environment variables directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
		ServerPort:  getEnv("SERVER_PORT", ":8000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		WALPath:     getEnv("WAL_PATH", "data/wal_events"),

		IdentityHeader:    getEnv("IDENTITY_HEADER", "X-Clerk-User-Id"),
		IdentityJWTSecret: os.Getenv("IDENTITY_JWT_SECRET"),

		RelaySchedule: getEnv("RELAY_SCHEDULE", "@every 2s"),

		BroadcastConcurrency: getEnvAsInt("BROADCAST_CONCURRENCY", 16),
		InboxLimit:           getEnvAsInt("INBOX_LIMIT", 100),

		RateLimitMaxRequests: getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 30),
		RateLimitWindow:      getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),

		CORSOrigins: getEnvAsList("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	return cfg
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvAsInt retrieves environment variable as int with default value
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %d", key, defaultVal)
		return defaultVal
	}
	return val
}

// getEnvAsDuration retrieves environment variable as duration with default value
func getEnvAsDuration(key string, defaultVal string) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		valStr = defaultVal
	}
	duration, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %s", key, defaultVal)
		duration, _ = time.ParseDuration(defaultVal)
	}
	return duration
}

func getEnvAsList(key, defaultVal string) []string {
	raw := getEnv(key, defaultVal)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
