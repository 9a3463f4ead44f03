package config

import (
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Server defaults
	if cfg.Server.Port != defaultServerPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, defaultServerPort)
	}
	if cfg.Server.Host != defaultServerHost {
		t.Errorf("Server.Host = %s, want %s", cfg.Server.Host, defaultServerHost)
	}
	if cfg.Server.ReadTimeout != defaultReadTimeout {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, defaultReadTimeout)
	}

	// Database defaults
	if cfg.Database.Path != defaultDatabasePath {
		t.Errorf("Database.Path = %s, want %s", cfg.Database.Path, defaultDatabasePath)
	}

	// Logging defaults
	if cfg.Logging.Level != defaultLogLevel {
		t.Errorf("Logging.Level = %s, want %s", cfg.Logging.Level, defaultLogLevel)
	}

	// Catalog defaults
	if cfg.Catalog.BaseURL != defaultCatalogBaseURL {
		t.Errorf("Catalog.BaseURL = %s, want %s", cfg.Catalog.BaseURL, defaultCatalogBaseURL)
	}
	if cfg.Catalog.CacheTTL != time.Hour {
		t.Errorf("Catalog.CacheTTL = %v, want %v", cfg.Catalog.CacheTTL, time.Hour)
	}
	if cfg.Catalog.APIKey != "" {
		t.Errorf("Catalog.APIKey = %s, want empty", cfg.Catalog.APIKey)
	}

	// Review defaults
	if cfg.Review.Model != defaultReviewModel {
		t.Errorf("Review.Model = %s, want %s", cfg.Review.Model, defaultReviewModel)
	}
	if cfg.Review.BaseURL != defaultReviewBaseURL {
		t.Errorf("Review.BaseURL = %s, want %s", cfg.Review.BaseURL, defaultReviewBaseURL)
	}
}

func TestConfigEnvOverride(t *testing.T) {
	t.Setenv("MOVIEMATE_SERVER_PORT", "9090")
	t.Setenv("MOVIEMATE_LOGGING_LEVEL", "debug")
	t.Setenv("MOVIEMATE_CATALOG_APIKEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
	if cfg.Catalog.APIKey != "test-key" {
		t.Errorf("Catalog.APIKey = %s, want test-key", cfg.Catalog.APIKey)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{
				Port:         8080,
				Host:         "0.0.0.0",
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 30 * time.Second,
			},
			Logging: LoggingConfig{Level: "info"},
			Catalog: CatalogConfig{Timeout: 10 * time.Second, CacheTTL: time.Hour},
			Review:  ReviewConfig{Timeout: 30 * time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "port too low", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "port too high", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "zero read timeout", mutate: func(c *Config) { c.Server.ReadTimeout = 0 }, wantErr: true},
		{name: "zero cache TTL", mutate: func(c *Config) { c.Catalog.CacheTTL = 0 }, wantErr: true},
		{name: "zero review timeout", mutate: func(c *Config) { c.Review.Timeout = 0 }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
