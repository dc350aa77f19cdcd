package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Logging
	LogLevel  string // debug, info, warn, error
	LogPretty bool
	LogFile   string // optional, appended to alongside stdout

	// Rate limiting
	RateLimitType   string // "memory" or "redis"
	RateLimit       int    // number of requests allowed
	RateLimitWindow int    // time window in seconds

	// Geolocation providers
	PrimaryProviderURL   string        // country-code-only endpoint (provider 0)
	SecondaryProviderURL string        // JSON endpoint (provider 1)
	GeolocateTimeout     time.Duration // per-request timeout for each provider call

	// Storefront policy
	DefaultStorefront string // returned whenever resolution fails
	StorefrontBrand   string // mapped storefronts must contain this marker

	// Storefront mapping backend
	StoreType string // "builtin", "csv", "mysql", "postgres" or "redis"
	CSVPath   string // path to the storefront CSV file

	// SQL backends
	MySQLDSN    string
	PostgresDSN string

	// Redis configuration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file is loaded first when present (local development).
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		Port: getEnv("PORT", "3000"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),
		LogFile:   getEnv("LOG_FILE", ""),

		RateLimitType:   getEnv("RATE_LIMITER_TYPE", "memory"),
		RateLimit:       getEnvAsInt("RATE_LIMIT", 10),
		RateLimitWindow: getEnvAsInt("RATE_LIMIT_WINDOW", 1),

		PrimaryProviderURL:   getEnv("PRIMARY_PROVIDER_URL", "https://ipapi.co"),
		SecondaryProviderURL: getEnv("SECONDARY_PROVIDER_URL", "https://freegeoip.app"),
		GeolocateTimeout:     getEnvAsDuration("GEOLOCATE_TIMEOUT", 3*time.Second),

		DefaultStorefront: getEnv("DEFAULT_STOREFRONT", "www.amazon.com"),
		StorefrontBrand:   getEnv("STOREFRONT_BRAND", "amazon"),

		StoreType: getEnv("STOREFRONT_STORE_TYPE", "builtin"),
		CSVPath:   getEnv("STOREFRONT_CSV_PATH", "./data/storefronts.csv"),

		MySQLDSN:    getEnv("MYSQL_DSN", ""),
		PostgresDSN: getEnv("POSTGRES_DSN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt reads an environment variable as an integer
// Returns default if not set or invalid
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsBool accepts the usual strconv spellings (1, true, false, ...)
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsDuration reads a Go duration ("3s", "500ms").
// A bare integer is taken as seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}

	if seconds, err := strconv.Atoi(valueStr); err == nil {
		if seconds <= 0 {
			return defaultValue
		}
		return time.Duration(seconds) * time.Second
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}

	return value
}
