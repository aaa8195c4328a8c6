package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/cognicore/epubcast/pkg/epubcast/internalerr"
)

// Canonical analysis limits.
const (
	DefaultMaxNames        = 25
	DefaultMaxDescriptions = 10
	DefaultMinFrequency    = 3
)

// Settings holds the numeric knobs of an analysis run.
type Settings struct {
	MaxNames        int `yaml:"max_names"        env:"EPUBCAST_MAX_NAMES"        validate:"min=1"`
	MaxDescriptions int `yaml:"max_descriptions" env:"EPUBCAST_MAX_DESCRIPTIONS" validate:"min=1"`
	MinFrequency    int `yaml:"min_frequency"    env:"EPUBCAST_MIN_FREQUENCY"    validate:"min=1"`
}

// DefaultSettings returns the canonical limits.
func DefaultSettings() Settings {
	return Settings{
		MaxNames:        DefaultMaxNames,
		MaxDescriptions: DefaultMaxDescriptions,
		MinFrequency:    DefaultMinFrequency,
	}
}

// LoadSettings reads settings from a YAML file. Keys missing from the file
// keep their default value; unknown keys are rejected.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := decodeStrict(data, &s); err != nil {
		return s, err
	}
	return s, nil
}

// ApplyEnv overrides settings from EPUBCAST_* environment variables.
// Unset variables leave the current value alone.
func (s *Settings) ApplyEnv() error {
	if err := env.Parse(s); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

var validate = validator.New()

// Validate checks that every limit is usable.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	return nil
}
