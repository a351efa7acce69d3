package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the API server
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server      ServerConfig
	Store       StoreConfig
	CORS        CORSConfig
	Environment string
	LogLevel    string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	RequestTimeout  int
}

type StoreConfig struct {
	URL            string // mongodb://, postgres://, sqlite://<path> or memory://
	Database       string // database name used by the MongoDB backend
	ConnectTimeout int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// ClientConfig holds configuration for API consumers such as catalogctl
type ClientConfig struct {
	APIBaseURL string
	Timeout    int
}

// Load reads server configuration from the environment, after applying an optional .env file
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8000"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			RequestTimeout:  getEnvAsInt("REQUEST_TIMEOUT", 60),
		},
		Store: StoreConfig{
			URL:            getEnv("STORE_URL", getEnv("MONGODB_URI", "mongodb://localhost:27017")),
			Database:       getEnv("STORE_DATABASE", "catalog"),
			ConnectTimeout: getEnvAsInt("STORE_CONNECT_TIMEOUT", 10),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Environment: strings.ToLower(getEnv("APP_ENV", getEnv("NODE_ENV", "production"))),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadClient reads API client configuration from the environment
func LoadClient() (*ClientConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &ClientConfig{
		APIBaseURL: strings.TrimRight(getEnv("CATALOG_API_URL", "http://localhost:8000"), "/"),
		Timeout:    getEnvAsInt("CATALOG_API_TIMEOUT", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Server.Port)
	}

	if c.Store.URL == "" {
		return fmt.Errorf("STORE_URL is required")
	}

	if c.Store.Database == "" {
		return fmt.Errorf("STORE_DATABASE is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// IsDevelopment reports whether error details may be exposed to API callers
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Validate checks if the client configuration is valid
func (c *ClientConfig) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("CATALOG_API_URL must be an absolute URL, got %q", c.APIBaseURL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("CATALOG_API_TIMEOUT must be positive")
	}

	return nil
}

// loadDotEnv applies .env without overriding variables already set; a missing file is fine
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

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

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
