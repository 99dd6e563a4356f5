// ABOUTME: Centralized configuration for the Ortsatlas search service
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// Config holds all configuration for the search pipeline and HTTP server
type Config struct {
	// Places API settings
	APIKey         string
	PlacesEndpoint string
	PlacesTimeout  time.Duration

	// Search pipeline settings
	Concurrency int // max in-flight API requests
	RateLimit   int // request budget per minute
	BatchSize   int // cities persisted per transaction

	// Storage settings
	DBPath string

	// HTTP server settings
	HTTPAddr string
}

// DefaultDBPath returns the default database location under the XDG data home
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, "ortsatlas", "ortsatlas.db")
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		APIKey:         os.Getenv("PLACES_API_KEY"),
		PlacesEndpoint: getEnv("PLACES_ENDPOINT", "https://places.googleapis.com/v1/places:searchText"),
		PlacesTimeout:  getEnvDuration("PLACES_TIMEOUT", 30*time.Second),
		Concurrency:    getEnvInt("SEARCH_CONCURRENCY", 10),
		RateLimit:      getEnvInt("SEARCH_RATE_LIMIT", 500),
		BatchSize:      getEnvInt("SEARCH_BATCH_SIZE", 50),
		DBPath:         getEnv("ORTSATLAS_DB", DefaultDBPath()),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8050"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Concurrency < 1 || c.Concurrency > 100 {
		return fmt.Errorf("SEARCH_CONCURRENCY must be 1-100, got %d", c.Concurrency)
	}
	if c.RateLimit < 1 {
		return fmt.Errorf("SEARCH_RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	if c.BatchSize < 1 || c.BatchSize > 1000 {
		return fmt.Errorf("SEARCH_BATCH_SIZE must be 1-1000, got %d", c.BatchSize)
	}
	return nil
}

// PaceDelay returns the post-request pause that keeps sustained throughput
// under the per-minute budget, independent of the concurrency cap.
func (c *Config) PaceDelay() time.Duration {
	return time.Minute / time.Duration(c.RateLimit)
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
