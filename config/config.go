package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Matching  MatchingConfig
	Extractor ExtractorConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MatchingConfig holds enrichment engine defaults; per-request options
// can tighten or loosen them.
type MatchingConfig struct {
	MinConfidence            string  `mapstructure:"min_confidence"`
	TitleSimilarityThreshold float64 `mapstructure:"title_similarity_threshold"`
	EnableDebugLogging       bool    `mapstructure:"enable_debug_logging"`
}

// ExtractorConfig holds the URL identifier extractor configuration
type ExtractorConfig struct {
	// RegistryPath points at a YAML pattern registry; empty means the
	// built-in registry
	RegistryPath string `mapstructure:"registry_path"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/cartlens/")

	// Environment variable settings
	v.SetEnvPrefix("CARTLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
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

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})

	// Matching defaults
	v.SetDefault("matching.min_confidence", "high")
	v.SetDefault("matching.title_similarity_threshold", 0.8)
	v.SetDefault("matching.enable_debug_logging", false)

	// Extractor defaults (empty path selects the built-in registry)
	v.SetDefault("extractor.registry_path", "")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Matching.MinConfidence {
	case "high", "medium", "low":
	default:
		return fmt.Errorf("matching min_confidence must be 'high', 'medium' or 'low', got: %s", config.Matching.MinConfidence)
	}

	if t := config.Matching.TitleSimilarityThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("matching title_similarity_threshold must be in (0,1], got: %v", t)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("ratelimit per_ip must be positive, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
