// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	// Behavior
	APIKey             string `json:"api_key,omitempty"`              // Gemini API key
	EnableSelfCritique bool   `json:"enable_self_critique,omitempty"` // A/B critique for tension units
	EnableImagePrompts bool   `json:"enable_image_prompts,omitempty"` // concurrent image-prompt enrichment
	Verbose            bool   `json:"verbose,omitempty"`              // print detailed debug information

	// Tuning
	BatchSize       int                 `json:"batch_size,omitempty"`        // content-generation batch size
	CacheTTLMinutes int                 `json:"cache_ttl_minutes,omitempty"` // oracle response cache TTL
	Models          map[string][]string `json:"models,omitempty"`            // per-stage model fallback lists
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.BatchSize < 0 {
		return fmt.Errorf("config error: 'batch_size' must be non-negative")
	}
	if c.CacheTTLMinutes < 0 {
		return fmt.Errorf("config error: 'cache_ttl_minutes' must be non-negative")
	}
	for stage, models := range c.Models {
		if len(models) == 0 {
			return fmt.Errorf("config error: empty model list for stage %q", stage)
		}
	}
	return nil
}
