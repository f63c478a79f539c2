package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	Lookup    LookupConfig
	Optimizer OptimizerConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds catalog storage and store-directory configuration
type CatalogConfig struct {
	DSN          string `mapstructure:"dsn"`
	DirectoryURL string `mapstructure:"directory_url"`
	SyncOnStart  bool   `mapstructure:"sync_on_start"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LookupConfig holds product lookup configuration
type LookupConfig struct {
	EnableFuzzyMatching bool `mapstructure:"enable_fuzzy_matching"`
	FuzzyEditDistance   int  `mapstructure:"fuzzy_edit_distance"`
}

// OptimizerConfig holds comparison and plan-building configuration
type OptimizerConfig struct {
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
	MaxItems      int           `mapstructure:"max_items"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/cartwise/")

	// Environment variable settings
	v.SetEnvPrefix("CARTWISE")
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

// loadEnvFile loads variables from a .env file in the working directory.
// Missing file is not an error, and existing environment variables are
// never overridden.
func loadEnvFile() error {
	file, err := os.Open(".env")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		os.Setenv(key, strings.TrimSpace(value))
	}
	return scanner.Err()
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Catalog defaults
	v.SetDefault("catalog.dsn", "cartwise.db")
	v.SetDefault("catalog.directory_url", "")
	v.SetDefault("catalog.sync_on_start", false)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")

	// Lookup defaults
	v.SetDefault("lookup.enable_fuzzy_matching", true)
	v.SetDefault("lookup.fuzzy_edit_distance", 1)

	// Optimizer defaults
	v.SetDefault("optimizer.lookup_timeout", "2s")
	v.SetDefault("optimizer.max_items", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.DSN == "" {
		return fmt.Errorf("catalog DSN is required (set CARTWISE_CATALOG_DSN)")
	}

	if config.Catalog.SyncOnStart && config.Catalog.DirectoryURL == "" {
		return fmt.Errorf("directory URL is required when sync_on_start is enabled")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Optimizer.MaxItems <= 0 {
		return fmt.Errorf("optimizer max_items must be positive, got: %d", config.Optimizer.MaxItems)
	}

	return nil
}
