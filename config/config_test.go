package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("CARTWISE_SERVER_PORT")
		os.Unsetenv("CARTWISE_SERVER_ENVIRONMENT")
		os.Unsetenv("CARTWISE_SERVER_ALLOWED_ORIGINS")
		os.Unsetenv("CARTWISE_CATALOG_DSN")
		os.Unsetenv("CARTWISE_CATALOG_DIRECTORY_URL")
		os.Unsetenv("CARTWISE_CATALOG_SYNC_ON_START")
		os.Unsetenv("CARTWISE_CACHE_TYPE")
		os.Unsetenv("CARTWISE_CACHE_REDIS_URL")
		os.Unsetenv("CARTWISE_CACHE_TTL")
		os.Unsetenv("CARTWISE_LOOKUP_ENABLE_FUZZY_MATCHING")
		os.Unsetenv("CARTWISE_LOOKUP_FUZZY_EDIT_DISTANCE")
		os.Unsetenv("CARTWISE_OPTIMIZER_LOOKUP_TIMEOUT")
		os.Unsetenv("CARTWISE_OPTIMIZER_MAX_ITEMS")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Catalog.DSN != "cartwise.db" {
			t.Errorf("Catalog.DSN = %s, want cartwise.db", cfg.Catalog.DSN)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if !cfg.Lookup.EnableFuzzyMatching {
			t.Error("Lookup.EnableFuzzyMatching = false, want true")
		}
		if cfg.Lookup.FuzzyEditDistance != 1 {
			t.Errorf("Lookup.FuzzyEditDistance = %d, want 1", cfg.Lookup.FuzzyEditDistance)
		}
		if cfg.Optimizer.LookupTimeout != 2*time.Second {
			t.Errorf("Optimizer.LookupTimeout = %v, want 2s", cfg.Optimizer.LookupTimeout)
		}
		if cfg.Optimizer.MaxItems != 100 {
			t.Errorf("Optimizer.MaxItems = %d, want 100", cfg.Optimizer.MaxItems)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("CARTWISE_SERVER_PORT", "9090")
		os.Setenv("CARTWISE_SERVER_ENVIRONMENT", "production")
		os.Setenv("CARTWISE_CATALOG_DSN", "/var/lib/cartwise/catalog.db")
		os.Setenv("CARTWISE_CATALOG_DIRECTORY_URL", "https://directory.example.com")
		os.Setenv("CARTWISE_CACHE_TYPE", "redis")
		os.Setenv("CARTWISE_CACHE_REDIS_URL", "redis://localhost:6379")
		os.Setenv("CARTWISE_CACHE_TTL", "1h")
		os.Setenv("CARTWISE_OPTIMIZER_LOOKUP_TIMEOUT", "5s")
		os.Setenv("CARTWISE_OPTIMIZER_MAX_ITEMS", "50")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Catalog.DSN != "/var/lib/cartwise/catalog.db" {
			t.Errorf("Catalog.DSN = %s, want /var/lib/cartwise/catalog.db", cfg.Catalog.DSN)
		}
		if cfg.Catalog.DirectoryURL != "https://directory.example.com" {
			t.Errorf("Catalog.DirectoryURL = %s, want https://directory.example.com", cfg.Catalog.DirectoryURL)
		}
		if cfg.Cache.Type != "redis" {
			t.Errorf("Cache.Type = %s, want redis", cfg.Cache.Type)
		}
		if cfg.Cache.RedisURL != "redis://localhost:6379" {
			t.Errorf("Cache.RedisURL = %s, want redis://localhost:6379", cfg.Cache.RedisURL)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.Optimizer.LookupTimeout != 5*time.Second {
			t.Errorf("Optimizer.LookupTimeout = %v, want 5s", cfg.Optimizer.LookupTimeout)
		}
		if cfg.Optimizer.MaxItems != 50 {
			t.Errorf("Optimizer.MaxItems = %d, want 50", cfg.Optimizer.MaxItems)
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("CARTWISE_CACHE_TYPE", "invalid")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})

	t.Run("fails validation when redis URL missing for redis cache", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("CARTWISE_CACHE_TYPE", "redis")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing Redis URL")
		}
	})

	t.Run("fails validation when sync enabled without directory URL", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("CARTWISE_CATALOG_SYNC_ON_START", "true")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for sync without directory URL")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		err := loadEnvFile()
		if err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		// Create .env file
		envContent := `
# Comment line
TEST_VAR_1=value1
TEST_VAR_2=value2

# Another comment
TEST_VAR_3=value3
`
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		// Clear any existing values
		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_VAR_3")

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
		if os.Getenv("TEST_VAR_3") != "value3" {
			t.Errorf("TEST_VAR_3 = %s, want value3", os.Getenv("TEST_VAR_3"))
		}

		// Cleanup
		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_VAR_3")
	})

	t.Run("skips empty lines and comments", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		// Create .env file with various formats
		envContent := `
# This is a comment
   # This is also a comment

TEST_SKIP_1=value1

TEST_SKIP_2=value2
# TEST_COMMENTED=should_not_load
`
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		os.Unsetenv("TEST_SKIP_1")
		os.Unsetenv("TEST_SKIP_2")
		os.Unsetenv("TEST_COMMENTED")

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_SKIP_1") != "value1" {
			t.Errorf("TEST_SKIP_1 not loaded correctly")
		}
		if os.Getenv("TEST_SKIP_2") != "value2" {
			t.Errorf("TEST_SKIP_2 not loaded correctly")
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Errorf("TEST_COMMENTED should not be loaded from comment")
		}

		os.Unsetenv("TEST_SKIP_1")
		os.Unsetenv("TEST_SKIP_2")
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		// Set existing env var
		os.Setenv("TEST_OVERRIDE", "existing-value")

		// Create .env file that tries to override
		envContent := "TEST_OVERRIDE=new-value"
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		// Should still have original value
		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}

		os.Unsetenv("TEST_OVERRIDE")
	})
}

func TestValidate(t *testing.T) {
	t.Run("validates successfully with all required fields", func(t *testing.T) {
		cfg := &Config{
			Catalog: CatalogConfig{
				DSN: "cartwise.db",
			},
			Cache: CacheConfig{
				Type: "memory",
			},
			Optimizer: OptimizerConfig{
				MaxItems: 100,
			},
		}

		err := validate(cfg)
		if err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails when catalog DSN is empty", func(t *testing.T) {
		cfg := &Config{
			Cache: CacheConfig{
				Type: "memory",
			},
			Optimizer: OptimizerConfig{
				MaxItems: 100,
			},
		}

		err := validate(cfg)
		if err == nil {
			t.Error("validate() error = nil, want error for empty catalog DSN")
		}
	})

	t.Run("fails for invalid cache type", func(t *testing.T) {
		cfg := &Config{
			Catalog: CatalogConfig{
				DSN: "cartwise.db",
			},
			Cache: CacheConfig{
				Type: "invalid-type",
			},
			Optimizer: OptimizerConfig{
				MaxItems: 100,
			},
		}

		err := validate(cfg)
		if err == nil {
			t.Error("validate() error = nil, want error for invalid cache type")
		}
	})

	t.Run("validates redis cache type with URL", func(t *testing.T) {
		cfg := &Config{
			Catalog: CatalogConfig{
				DSN: "cartwise.db",
			},
			Cache: CacheConfig{
				Type:     "redis",
				RedisURL: "redis://localhost:6379",
			},
			Optimizer: OptimizerConfig{
				MaxItems: 100,
			},
		}

		err := validate(cfg)
		if err != nil {
			t.Errorf("validate() error = %v, want nil for valid redis config", err)
		}
	})

	t.Run("fails for redis cache without URL", func(t *testing.T) {
		cfg := &Config{
			Catalog: CatalogConfig{
				DSN: "cartwise.db",
			},
			Cache: CacheConfig{
				Type:     "redis",
				RedisURL: "",
			},
			Optimizer: OptimizerConfig{
				MaxItems: 100,
			},
		}

		err := validate(cfg)
		if err == nil {
			t.Error("validate() error = nil, want error for redis without URL")
		}
	})

	t.Run("fails for non-positive max items", func(t *testing.T) {
		cfg := &Config{
			Catalog: CatalogConfig{
				DSN: "cartwise.db",
			},
			Cache: CacheConfig{
				Type: "memory",
			},
		}

		err := validate(cfg)
		if err == nil {
			t.Error("validate() error = nil, want error for non-positive max_items")
		}
	})
}
