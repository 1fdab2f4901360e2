// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Catalog    CatalogConfig    `yaml:"catalog"`
	Rating     RatingConfig     `yaml:"rating"`
	Moderation ModerationConfig `yaml:"moderation"`
	Playback   PlaybackConfig   `yaml:"playback"`
	Log        LogConfig        `yaml:"log"`
}

// CatalogConfig represents catalog source configuration.
type CatalogConfig struct {
	Sources []SourceConfig `yaml:"sources" validate:"required,min=1,dive"`
}

// SourceConfig represents a single catalog provider configuration.
type SourceConfig struct {
	Type        string         `yaml:"type" validate:"required,oneof=file inline"`
	DisplayName string         `yaml:"display_name" validate:"required"`
	Settings    map[string]any `yaml:"settings" validate:"required"`
}

// RatingConfig represents the accepted rating range (inclusive).
type RatingConfig struct {
	Min float64 `yaml:"min" default:"1" validate:"gt=0"`
	Max float64 `yaml:"max" default:"5" validate:"gtfield=Min"`
}

// ModerationConfig represents flagging configuration.
type ModerationConfig struct {
	DefaultFlagReason string `yaml:"default_flag_reason" default:"Not supplied" validate:"required"`
}

// PlaybackConfig represents playback configuration.
type PlaybackConfig struct {
	RandomSeed uint64 `yaml:"random_seed"` // 0 seeds from the clock
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn warning error"`
	Output string `yaml:"output" default:"stderr"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	return Parse(data)
}

// Parse parses configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
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
	if v := os.Getenv("PLAYER_CATALOG_PATH"); v != "" {
		for i := range c.Catalog.Sources {
			if c.Catalog.Sources[i].Type == "file" {
				if c.Catalog.Sources[i].Settings == nil {
					c.Catalog.Sources[i].Settings = map[string]any{}
				}
				c.Catalog.Sources[i].Settings["path"] = v
				break
			}
		}
	}
	if v := os.Getenv("PLAYER_LOG_LEVEL"); v != "" {
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

// Default returns a configuration reading the given catalog file,
// with every other value defaulted.
func Default(catalogPath string) (*Config, error) {
	cfg := Config{
		Catalog: CatalogConfig{
			Sources: []SourceConfig{
				{
					Type:        "file",
					DisplayName: "Library",
					Settings:    map[string]any{"path": catalogPath},
				},
			},
		},
	}
	cfg.overrideFromEnv()
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}
