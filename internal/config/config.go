package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API APIConfig
	App AppConfig
}

// APIConfig holds the connection settings for the portal backend.
type APIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Env      string
	LogLevel string
	PageSize int
}

func Load() (*Config, error) {
	// A missing .env file is fine: the CLI can run on exported variables alone.
	_ = godotenv.Load()

	config := &Config{}

	timeout, err := time.ParseDuration(getEnv("HTTP_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	config.API = APIConfig{
		BaseURL: strings.TrimRight(getEnv("API_BASE_URL", ""), "/"),
		Token:   getEnv("API_TOKEN", ""),
		Timeout: timeout,
	}

	pageSize, err := strconv.Atoi(getEnv("PAGE_SIZE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAGE_SIZE: %w", err)
	}

	config.App = AppConfig{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		PageSize: pageSize,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.API.Token == "" {
		return fmt.Errorf("API_TOKEN is required")
	}
	if c.App.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be at least 1")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
