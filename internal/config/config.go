package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	Environment string
	Version     string

	// APIBaseURL is the base URL of the remote warehouse service.
	APIBaseURL string

	// HTTPTimeoutSeconds bounds individual gateway calls. A call that never
	// resolves would otherwise leave the optimistic state permanent, which
	// is acceptable, but the client should not hold sockets open forever.
	HTTPTimeoutSeconds int

	// Capacity probe cache tuning.
	CapacityCacheSize       int
	CapacityCacheTTLSeconds int
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		Version:     getEnv("VERSION", "dev"),
		APIBaseURL:  getEnv("API_BASE_URL", DefaultAPIBaseURL),
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL must not be empty")
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", DefaultPort); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeoutSeconds, err = getEnvInt("HTTP_TIMEOUT_SECONDS", DefaultHTTPTimeoutSeconds); err != nil {
		return nil, err
	}
	if cfg.CapacityCacheSize, err = getEnvInt("CAPACITY_CACHE_SIZE", DefaultCapacityCacheSize); err != nil {
		return nil, err
	}
	if cfg.CapacityCacheTTLSeconds, err = getEnvInt("CAPACITY_CACHE_TTL_SECONDS", DefaultCapacityCacheTTLSeconds); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return parsed, nil
}
