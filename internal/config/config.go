package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the client-side application configuration
type Config struct {
	API     APIConfig
	Storage StorageConfig
	Logging LoggingConfig
}

// APIConfig contains remote API settings
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StorageConfig contains local persistence settings
type StorageConfig struct {
	// CredentialsPath is the SQLite database holding the persisted
	// session pair. Defaults to ~/.brainac/credentials.db.
	CredentialsPath string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL: getEnv("BRAINAC_API_URL", "http://localhost:8080"),
			Timeout: getEnvAsDuration("BRAINAC_API_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			CredentialsPath: getEnv("BRAINAC_CREDENTIALS_PATH", defaultCredentialsPath()),
		},
		Logging: LoggingConfig{
			Level:  getEnv("BRAINAC_LOG_LEVEL", "warn"),
			Format: getEnv("BRAINAC_LOG_FORMAT", "console"),
		},
	}

	return cfg, nil
}

func defaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "credentials.db"
	}
	return filepath.Join(home, ".brainac", "credentials.db")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
