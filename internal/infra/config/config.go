// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Player   PlayerConfig            `yaml:"player"`
	Library  LibraryConfig           `yaml:"library"`
	Snapshot SnapshotConfig          `yaml:"snapshot"`
	Filters  map[string]FilterConfig `yaml:"filters"`
	Log      LogConfig               `yaml:"log"`
}

// PlayerConfig represents queue engine configuration.
type PlayerConfig struct {
	Policy   string `yaml:"policy" default:"consume" validate:"oneof=rotate consume"`
	Seed     uint64 `yaml:"seed"` // Shuffle seed; 0 picks a random one
	AutoPlay bool   `yaml:"auto_play"`
}

// LibraryConfig represents the track library configuration.
type LibraryConfig struct {
	Path     string   `yaml:"path" default:"library.json" validate:"required"`
	SortKeys []string `yaml:"sort_keys" validate:"dive,oneof=title artist album duration"`
	PageSize int      `yaml:"page_size" default:"10" validate:"gte=1"`
}

// SnapshotConfig represents session persistence configuration.
type SnapshotConfig struct {
	Backend  string         `yaml:"backend" default:"json" validate:"oneof=json bolt memory"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// FilterConfig represents a filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level      string `yaml:"level" default:"info" validate:"oneof=debug info warn warning error"`
	File       string `yaml:"file"` // Empty logs to stderr
	MaxSizeMB  int    `yaml:"max_size_mb" default:"10" validate:"gte=1"`
	MaxBackups int    `yaml:"max_backups" default:"3" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" default:"28" validate:"gte=0"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	var cfg Config
	// Only fails on malformed default tags
	if err := defaults.Set(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs loads configuration from a YAML file on fs. A missing file yields the defaults.
func LoadFs(fs afero.Fs, path string) (*Config, error) {
	var cfg Config

	data, err := afero.ReadFile(fs, path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No config file: defaults only
	case err != nil:
		return nil, errors.Wrap(err, "failed to read config file")
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("PLAYQ_POLICY"); v != "" {
		c.Player.Policy = v
	}
	if v := os.Getenv("PLAYQ_LIBRARY"); v != "" {
		c.Library.Path = v
	}
	if v := os.Getenv("PLAYQ_SNAPSHOT_BACKEND"); v != "" {
		c.Snapshot.Backend = v
	}
	if v := os.Getenv("PLAYQ_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// IsFilterEnabled checks if a filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}

// GetFilterSettings returns the settings for a filter.
func (c *Config) GetFilterSettings(filterName string) map[string]any {
	if f, ok := c.Filters[filterName]; ok {
		return f.Settings
	}
	return nil
}

// EnabledFilters returns the names of enabled filters in a stable order.
func (c *Config) EnabledFilters() []string {
	names := lo.Keys(lo.PickBy(c.Filters, func(_ string, f FilterConfig) bool {
		return f.Enabled
	}))
	slices.Sort(names)
	return names
}
