package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr    string
	BaseURL       string // Public base URL of the service (for short URLs and QR codes)
	RedisURL      string // Empty means run on the in-memory store
	JWTSecret     string // Secret key for JWT token signing
	JWTTTLHours   int    // JWT token expiration time in hours
	AdminUsername string
	AdminPassword string
	LogLevel      string

	RateLimitRPS           float64 // Rate limit for general API endpoints (requests per second)
	RateLimitBurst         int
	RateLimitAuthRPS       float64 // Stricter limit for the login endpoint
	RateLimitAuthBurst     int
	RateLimitRedirectRPS   float64 // Lenient limit for the public redirect path
	RateLimitRedirectBurst int
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		BaseURL:       getEnv("BASE_URL", "http://localhost:8080"),
		RedisURL:      getEnv("REDIS_URL", ""),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTLHours:   getEnvInt("JWT_TTL_HOURS", 168), // 7 days
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123456"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		RateLimitRPS:           getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:         getEnvInt("RATE_LIMIT_BURST", 20),
		RateLimitAuthRPS:       getEnvFloat("RATE_LIMIT_AUTH_RPS", 5),
		RateLimitAuthBurst:     getEnvInt("RATE_LIMIT_AUTH_BURST", 10),
		RateLimitRedirectRPS:   getEnvFloat("RATE_LIMIT_REDIRECT_RPS", 30),
		RateLimitRedirectBurst: getEnvInt("RATE_LIMIT_REDIRECT_BURST", 60),
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
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
