// Package config holds the per-run simulation parameters and their loading.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/wa-tor/parameter"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// Config is immutable for the duration of a run; copy it freely
type Config struct {
	FishAgeLimit       int `yaml:"fish_age_limit"`
	SharkAgeLimit      int `yaml:"shark_age_limit"`
	SharkInitialEnergy int `yaml:"shark_initial_energy"`
	TickDurationMs     int `yaml:"tick_duration_ms"`

	// StrictEdges rejects neighbors that leave the row instead of letting
	// them alias into the adjacent row through the linear index
	StrictEdges bool `yaml:"strict_edges"`

	// Seed for the random source; 0 seeds from the clock
	Seed uint64 `yaml:"seed"`
}

// Default returns the stock configuration
func Default() Config {
	return Config{
		FishAgeLimit:       parameter.DefaultFishAgeLimit,
		SharkAgeLimit:      parameter.DefaultSharkAgeLimit,
		SharkInitialEnergy: parameter.DefaultSharkInitialEnergy,
		TickDurationMs:     parameter.DefaultTickDurationMs,
	}
}

// Load reads a YAML file over the defaults; keys absent from the file keep
// their default value. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the invariants the engine relies on
func (c Config) Validate() error {
	switch {
	case c.FishAgeLimit < 0, c.SharkAgeLimit < 0, c.SharkInitialEnergy < 0, c.TickDurationMs < 0:
		return fmt.Errorf("%w: values must be non-negative", ErrInvalid)
	case c.SharkInitialEnergy == 0:
		return fmt.Errorf("%w: shark_initial_energy must be positive", ErrInvalid)
	}
	return nil
}

// Marshal renders the config as YAML, used to write a starter file
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
