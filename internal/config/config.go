package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	PriceFetch PriceFetchConfig
	Scheduler  SchedulerConfig
	CORS       CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// PriceFetchConfig holds market data fetching configuration.
// RetryAttempts counts total attempts per fetch window; after they are
// exhausted one fallback fetch over a window widened by FallbackDays on each
// side is tried before the symbol is reported as having no data.
type PriceFetchConfig struct {
	Provider        string
	APIKey          string
	RetryAttempts   int
	RetryDelay      time.Duration
	FallbackDays    int
	BenchmarkSymbol string
}

// SchedulerConfig holds the background price refresh configuration.
type SchedulerConfig struct {
	PriceRefreshSchedule string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	apiKey, err := loadAPIKey()
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio.db"),
		},
		PriceFetch: PriceFetchConfig{
			Provider:        getEnv("PRICE_PROVIDER", "yahoo"),
			APIKey:          apiKey,
			RetryAttempts:   getEnvInt("PRICE_FETCH_RETRY_ATTEMPTS", 3),
			RetryDelay:      time.Duration(getEnvInt("PRICE_FETCH_RETRY_DELAY_SECONDS", 1)) * time.Second,
			FallbackDays:    getEnvInt("PRICE_FETCH_FALLBACK_DAYS", 30),
			BenchmarkSymbol: getEnv("BENCHMARK_SYMBOL", "SPY"),
		},
		Scheduler: SchedulerConfig{
			PriceRefreshSchedule: getEnv("PRICE_REFRESH_SCHEDULE", "0 18 * * *"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// loadAPIKey resolves the market data provider API key. A fernet-encrypted
// key (MARKET_API_KEY_ENCRYPTED + FERNET_KEY) takes precedence so the key
// never sits in plain text in the environment file; a plain MARKET_API_KEY
// is accepted for local development.
func loadAPIKey() (string, error) {
	encrypted := os.Getenv("MARKET_API_KEY_ENCRYPTED")
	if encrypted == "" {
		return os.Getenv("MARKET_API_KEY"), nil
	}

	fernetKey := os.Getenv("FERNET_KEY")
	if fernetKey == "" {
		return "", fmt.Errorf("MARKET_API_KEY_ENCRYPTED is set but FERNET_KEY is missing")
	}

	keys, err := fernet.DecodeKeys(fernetKey)
	if err != nil {
		return "", fmt.Errorf("failed to decode FERNET_KEY: %w", err)
	}

	// Negative TTL: configuration tokens do not expire.
	plain := fernet.VerifyAndDecrypt([]byte(encrypted), -1, keys)
	if plain == nil {
		return "", fmt.Errorf("failed to decrypt MARKET_API_KEY_ENCRYPTED")
	}

	return string(plain), nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value.
// Unparseable values fall back to the default rather than failing startup.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
