package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the observation exporter
type Config struct {
	// Fetch settings: what to retrieve from iNaturalist
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Export settings: where and how output is written
	Export ExportConfig `yaml:"export" json:"export"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Retry configuration for transient fetch failures
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// FetchConfig holds retrieval settings
type FetchConfig struct {
	Species        []string      `yaml:"species" json:"species"`
	DaysBack       int           `yaml:"days_back" json:"days_back"`
	Place          string        `yaml:"place" json:"place"`
	PerPage        int           `yaml:"per_page" json:"per_page"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// ExportConfig holds output settings
type ExportConfig struct {
	OutputDir   string `yaml:"output_dir" json:"output_dir"`
	Review      bool   `yaml:"review" json:"review"`
	LocationID  string `yaml:"location_id" json:"location_id"`
	SubmitterID string `yaml:"submitter_id" json:"submitter_id"`
}

// RateLimitConfig holds rate limiting configuration.
// Delay is the minimum time between two consecutive API requests.
type RateLimitConfig struct {
	Delay time.Duration `yaml:"delay" json:"delay"`
}

// RetryConfig holds retry configuration for page fetches
type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Fetch: FetchConfig{
			DaysBack:       30,
			PerPage:        200, // Max allowed by the iNaturalist API
			RequestTimeout: 30 * time.Second,
		},
		Export: ExportConfig{
			OutputDir: "./inat_data",
		},
		RateLimit: RateLimitConfig{
			Delay: time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// Load builds a Config from defaults, an optional YAML file, and
// environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(path); err != nil {
		return nil, err
	}

	// Load a .env file if present; a missing file is not an error
	_ = godotenv.Load()

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file. An empty path falls
// back to the default locations; no file found is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// findConfigFile looks for a config file in the default locations
func (c *Config) findConfigFile() string {
	candidates := []string{
		".inatexport.yaml",
		".inatexport.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".inatexport.yaml"),
			filepath.Join(home, ".config", "inatexport", "config.yaml"),
		)
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if species := os.Getenv("INATEXPORT_SPECIES"); species != "" {
		parts := strings.Split(species, ",")
		c.Fetch.Species = c.Fetch.Species[:0]
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				c.Fetch.Species = append(c.Fetch.Species, trimmed)
			}
		}
	}

	if days := os.Getenv("INATEXPORT_DAYS_BACK"); days != "" {
		val, err := strconv.Atoi(days)
		if err != nil {
			return fmt.Errorf("invalid INATEXPORT_DAYS_BACK: %q", days)
		}
		c.Fetch.DaysBack = val
	}

	if place := os.Getenv("INATEXPORT_PLACE"); place != "" {
		c.Fetch.Place = place
	}

	if outputDir := os.Getenv("INATEXPORT_OUTPUT_DIR"); outputDir != "" {
		c.Export.OutputDir = outputDir
	}

	if locationID := os.Getenv("INATEXPORT_LOCATION_ID"); locationID != "" {
		c.Export.LocationID = locationID
	}

	if submitterID := os.Getenv("INATEXPORT_SUBMITTER_ID"); submitterID != "" {
		c.Export.SubmitterID = submitterID
	}

	// Rate limit is given in seconds, matching the --rate-limit flag
	if rateLimit := os.Getenv("INATEXPORT_RATE_LIMIT"); rateLimit != "" {
		seconds, err := strconv.ParseFloat(rateLimit, 64)
		if err != nil {
			return fmt.Errorf("invalid INATEXPORT_RATE_LIMIT: %q", rateLimit)
		}
		c.RateLimit.Delay = time.Duration(seconds * float64(time.Second))
	}

	if logLevel := os.Getenv("INATEXPORT_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if len(c.Fetch.Species) == 0 {
		return errors.New("at least one species is required")
	}

	if c.Fetch.DaysBack < 1 {
		return errors.New("days_back must be at least 1")
	}

	if c.Fetch.PerPage < 1 || c.Fetch.PerPage > 200 {
		return errors.New("per_page must be between 1 and 200")
	}

	if c.Fetch.RequestTimeout <= 0 {
		return errors.New("request_timeout must be positive")
	}

	if c.RateLimit.Delay < 0 {
		return errors.New("rate limit delay must be non-negative")
	}

	if c.Retry.MaxAttempts < 1 {
		return errors.New("retry max_attempts must be at least 1")
	}

	if c.Export.OutputDir == "" {
		return errors.New("output directory is required")
	}

	return nil
}
