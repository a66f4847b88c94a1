package config

import (
	"os"
	"strconv"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Data     DataConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds database connection settings. An empty URL disables
// snapshot persistence.
type DatabaseConfig struct {
	URL string
}

// DataConfig holds data processing settings
type DataConfig struct {
	SampleSeed   int64
	SampleOrders int
	MaxUploadMB  int64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Data: DataConfig{
			SampleSeed:   getEnvInt64("SAMPLE_SEED", 42),
			SampleOrders: int(getEnvInt64("SAMPLE_ORDERS", 1000)),
			MaxUploadMB:  getEnvInt64("MAX_UPLOAD_MB", 32),
		},
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
