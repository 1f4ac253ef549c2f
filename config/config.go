package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Matcher     MatcherConfig
	Catalog     CatalogConfig
	Corrections CorrectionsConfig
	RateLimit   RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MatcherConfig holds the default run options of the matcher
type MatcherConfig struct {
	Threshold          int     `mapstructure:"threshold"`
	Divisor            float64 `mapstructure:"divisor"`
	ProfitMargin       float64 `mapstructure:"profit_margin"`
	EnableDebugLogging bool    `mapstructure:"enable_debug_logging"`
}

// CatalogConfig points at the master catalog loaded on startup
type CatalogConfig struct {
	Path string `mapstructure:"path"` // optional; the catalog can also be uploaded later
}

// CorrectionsConfig selects where manual corrections are persisted
type CorrectionsConfig struct {
	Type string `mapstructure:"type"` // "memory", "file" or "sqlite"
	Path string `mapstructure:"path"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
	Burst int `mapstructure:"burst"`
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/listmatic/")

	// Environment variable settings: LISTMATIC_MATCHER_THRESHOLD -> matcher.threshold
	v.SetEnvPrefix("LISTMATIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the environment without overriding variables that are already set.
// A missing file is not an error.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost*", "file://*"})

	// Matcher defaults
	v.SetDefault("matcher.threshold", 20)
	v.SetDefault("matcher.divisor", 1.0)
	v.SetDefault("matcher.profit_margin", 0.0)
	v.SetDefault("matcher.enable_debug_logging", false)

	// Catalog defaults
	v.SetDefault("catalog.path", "")

	// Corrections defaults
	v.SetDefault("corrections.type", "file")
	v.SetDefault("corrections.path", "corrections.json")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.burst", 20)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Corrections.Type {
	case "memory":
	case "file", "sqlite":
		if config.Corrections.Path == "" {
			return fmt.Errorf("corrections path is required when corrections type is '%s'", config.Corrections.Type)
		}
	default:
		return fmt.Errorf("corrections type must be 'memory', 'file' or 'sqlite', got: %s", config.Corrections.Type)
	}

	if config.Matcher.Threshold < 0 || config.Matcher.Threshold > 100 {
		return fmt.Errorf("matcher threshold must be between 0 and 100, got: %d", config.Matcher.Threshold)
	}

	if config.Matcher.Divisor < 0 {
		return fmt.Errorf("matcher divisor must not be negative, got: %v", config.Matcher.Divisor)
	}

	if config.Matcher.ProfitMargin < 0 {
		return fmt.Errorf("matcher profit margin must not be negative, got: %v", config.Matcher.ProfitMargin)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("rate limit per IP must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
