// Package config provides configuration management.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"print-pricing/internal/logging"
)

// EnvPrefix is the prefix for environment overrides
const EnvPrefix = "PRINT_PRICING"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" ignored:"true"`

	// Pricing contains pricing engine settings
	Pricing PricingConfig `json:"pricing"`

	// Catalog locates the product catalog
	Catalog CatalogConfig `json:"catalog"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// Currency is the display currency
	Currency string `json:"currency" split_words:"true"`

	// CacheEnabled enables pricing context memoization
	CacheEnabled bool `json:"cache_enabled" split_words:"true"`

	// CacheTTLSeconds is how long a computed context stays cached
	CacheTTLSeconds int `json:"cache_ttl_seconds" split_words:"true"`

	// CacheMaxEntries bounds the cache size
	CacheMaxEntries int `json:"cache_max_entries" split_words:"true"`

	// JanitorIntervalSeconds is how often expired entries are evicted
	JanitorIntervalSeconds int `json:"janitor_interval_seconds" split_words:"true"`
}

// CacheTTL returns the TTL as a duration
func (p PricingConfig) CacheTTL() time.Duration {
	return time.Duration(p.CacheTTLSeconds) * time.Second
}

// JanitorInterval returns the janitor interval as a duration
func (p PricingConfig) JanitorInterval() time.Duration {
	return time.Duration(p.JanitorIntervalSeconds) * time.Second
}

// CatalogConfig contains catalog settings
type CatalogConfig struct {
	// Path is a .json or .hcl catalog file; empty selects the built-in catalog
	Path string `json:"path" split_words:"true"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr                string `json:"addr" split_words:"true"`
	ReadTimeoutSeconds  int    `json:"read_timeout_seconds" split_words:"true"`
	WriteTimeoutSeconds int    `json:"write_timeout_seconds" split_words:"true"`
}

// ReadTimeout returns the read timeout as a duration
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the write timeout as a duration
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format" split_words:"true"`

	// ShowDetails shows the per-module breakdown
	ShowDetails bool `json:"show_details" split_words:"true"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Pricing: PricingConfig{
			Currency:               "USD",
			CacheEnabled:           true,
			CacheTTLSeconds:        300,
			CacheMaxEntries:        1024,
			JanitorIntervalSeconds: 60,
		},
		Server: ServerConfig{
			Addr:                ":8080",
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 10,
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			ShowDetails:   true,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file, then applies environment overrides
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overlays PRINT_PRICING_* variables, reading .env first when present
func ApplyEnv(config *Config) error {
	// a missing .env is fine
	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return fmt.Errorf("parsing env: %w", err)
	}
	return nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
