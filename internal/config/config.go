// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerPort      = 8080
	defaultServerHost      = "0.0.0.0"
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultDatabasePath    = "./data/moviemate.db"
	defaultLogLevel        = "info"
	defaultLogPretty       = false
	defaultCatalogBaseURL  = "https://api.themoviedb.org/3"
	defaultCatalogImageURL = "https://image.tmdb.org/t/p/w500"
	defaultCatalogTimeout  = 10 * time.Second
	defaultCatalogCacheTTL = time.Hour
	defaultReviewBaseURL   = "https://api.ai21.com/studio/v1"
	defaultReviewModel     = "j2-ultra"
	defaultReviewTimeout   = 30 * time.Second
	envPrefix              = "MOVIEMATE"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Catalog  CatalogConfig
	Review   ReviewConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Path string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// CatalogConfig holds metadata provider configuration
type CatalogConfig struct {
	APIKey      string
	AccessToken string
	BaseURL     string
	ImageURL    string
	Timeout     time.Duration
	CacheTTL    time.Duration
}

// ReviewConfig holds review generation provider configuration
type ReviewConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/moviemate")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Config file is optional, defaults and env vars cover everything
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)

	v.SetDefault("database.path", defaultDatabasePath)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)

	// Credentials default to empty so env overrides bind on unmarshal
	v.SetDefault("catalog.apikey", "")
	v.SetDefault("catalog.accesstoken", "")
	v.SetDefault("review.apikey", "")

	v.SetDefault("catalog.baseurl", defaultCatalogBaseURL)
	v.SetDefault("catalog.imageurl", defaultCatalogImageURL)
	v.SetDefault("catalog.timeout", defaultCatalogTimeout)
	v.SetDefault("catalog.cachettl", defaultCatalogCacheTTL)

	v.SetDefault("review.baseurl", defaultReviewBaseURL)
	v.SetDefault("review.model", defaultReviewModel)
	v.SetDefault("review.timeout", defaultReviewTimeout)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}

	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("invalid catalog timeout: %v (must be > 0)", c.Catalog.Timeout)
	}
	if c.Catalog.CacheTTL <= 0 {
		return fmt.Errorf("invalid catalog cache TTL: %v (must be > 0)", c.Catalog.CacheTTL)
	}
	if c.Review.Timeout <= 0 {
		return fmt.Errorf("invalid review timeout: %v (must be > 0)", c.Review.Timeout)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
