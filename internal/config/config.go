// Package config handles engine configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for configuration when --config
// is not given.
const DefaultPath = "refcheck.yaml"

// Config is the engine configuration, stored as YAML.
type Config struct {
	// DatabasePath locates the SQLite file holding the article corpus
	// and persisted plagiarism reports.
	DatabasePath string `yaml:"database_path"`

	// MetadataBaseURL overrides the Crossref-compatible registry URL.
	MetadataBaseURL string `yaml:"metadata_base_url,omitempty"`

	// Mailto is the polite-pool contact address sent to the registry.
	Mailto string `yaml:"mailto,omitempty"`

	// SimilarityFloor is the minimum similarity for a plagiarism
	// candidate to be retained as a source.
	SimilarityFloor float64 `yaml:"similarity_floor"`

	// SourceTimeoutSeconds bounds each candidate-source query.
	SourceTimeoutSeconds int `yaml:"source_timeout_seconds"`

	// SampleLimit caps how many corpus articles one check samples.
	SampleLimit int `yaml:"sample_limit"`

	// SearchRows is the number of works requested per registry search.
	SearchRows int `yaml:"search_rows"`

	// DefaultStyle is the citation style used when none is given.
	DefaultStyle string `yaml:"default_style"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DatabasePath:         "refcheck.db",
		SimilarityFloor:      0.3,
		SourceTimeoutSeconds: 5,
		SampleLimit:          50,
		SearchRows:           20,
		DefaultStyle:         "apa",
	}
}

// Load reads configuration from path, applying defaults for absent
// fields. A missing file yields the defaults without error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SourceTimeout returns the per-source timeout as a duration.
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.SourceTimeoutSeconds) * time.Second
}

func (c *Config) validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	if c.SimilarityFloor < 0 || c.SimilarityFloor >= 1 {
		return fmt.Errorf("similarity_floor must be in [0,1), got %v", c.SimilarityFloor)
	}
	if c.SourceTimeoutSeconds <= 0 {
		return fmt.Errorf("source_timeout_seconds must be positive, got %d", c.SourceTimeoutSeconds)
	}
	if c.SampleLimit <= 0 {
		return fmt.Errorf("sample_limit must be positive, got %d", c.SampleLimit)
	}
	if c.SearchRows <= 0 {
		return fmt.Errorf("search_rows must be positive, got %d", c.SearchRows)
	}
	return nil
}
