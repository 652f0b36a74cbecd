// Package config loads keynav.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "keynav.yaml"

// Defaults.
const (
	DefaultCachePath   = "keynav.db"
	DefaultCacheTTL    = 24 * time.Hour
	DefaultFullKey     = "full"
	DefaultHTTPTimeout = 30 * time.Second
)

// Config is the on-disk configuration.
//
// Exactly one dataset origin is used: DatasetFile (offline, with RecordsDir)
// when set, DatasetURL (with RecordsURL) otherwise.
type Config struct {
	DatasetURL     string        `yaml:"dataset_url"`
	RecordsURL     string        `yaml:"records_url"`
	DatasetFile    string        `yaml:"dataset_file"`
	RecordsDir     string        `yaml:"records_dir"`
	CachePath      string        `yaml:"cache_path"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	FullKey        string        `yaml:"full_key"`
	HTTPTimeout    time.Duration `yaml:"http_timeout"`
	ValidateSchema bool          `yaml:"validate_schema"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		CachePath:      DefaultCachePath,
		CacheTTL:       DefaultCacheTTL,
		FullKey:        DefaultFullKey,
		HTTPTimeout:    DefaultHTTPTimeout,
		ValidateSchema: true,
	}
}

// Load reads path over the defaults. A missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := Parse(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg. Keys absent from data keep cfg's values.
// Unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// Validate checks invariants Load cannot express through defaults.
func (c Config) Validate() error {
	var errs []error
	if c.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("cache_ttl must be positive, got %s", c.CacheTTL))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http_timeout must be positive, got %s", c.HTTPTimeout))
	}
	if strings.TrimSpace(c.FullKey) == "" {
		errs = append(errs, errors.New("full_key must not be empty"))
	}
	if c.RecordsURL != "" && !strings.Contains(c.RecordsURL, "{key}") {
		errs = append(errs, fmt.Errorf("records_url %q has no {key} placeholder", c.RecordsURL))
	}
	return errors.Join(errs...)
}

// Offline reports whether the dataset comes from local files.
func (c Config) Offline() bool {
	return c.DatasetFile != ""
}

// HasSource reports whether any dataset origin is configured.
func (c Config) HasSource() bool {
	return c.DatasetFile != "" || c.DatasetURL != ""
}
