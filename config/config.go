// SPDX-License-Identifier: MIT

// Package config loads engine settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/katalvlaran/ctgflow/sparse"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Config holds the tunables of a screening run.
type Config struct {
	// ViolationCost is the penalty per unit of exceedance per hour.
	ViolationCost float64 `yaml:"violation_cost" koanf:"violation_cost"`
	// Workers is the interval pool size; 0 means GOMAXPROCS.
	Workers int `yaml:"workers" koanf:"workers"`
	// PivotThreshold is the relative pivot tolerance τ in (0, 1].
	PivotThreshold float64 `yaml:"pivot_threshold" koanf:"pivot_threshold"`
	// Ordering is "mindegree" or "natural".
	Ordering string `yaml:"ordering" koanf:"ordering"`
	// BoundScreening enables the two-tier pre-filter.
	BoundScreening bool `yaml:"bound_screening" koanf:"bound_screening"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level" koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `yaml:"log_format" koanf:"log_format"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		ViolationCost:  1,
		Workers:        0,
		PivotThreshold: sparse.DefaultPivotThreshold,
		Ordering:       sparse.OrderMinimumDegree.String(),
		BoundScreening: true,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load reads path over the defaults and validates the result. Keys absent
// from the file keep their default values.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("failed to load config from %q: %w", path, err)
	}
	cfg := Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("failed to parse config from %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if !(c.ViolationCost >= 0) {
		return fmt.Errorf("%w: violation_cost must be >= 0, got %g", ErrInvalid, c.ViolationCost)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalid, c.Workers)
	}
	if !(c.PivotThreshold > 0 && c.PivotThreshold <= 1) {
		return fmt.Errorf("%w: pivot_threshold must be in (0, 1], got %g", ErrInvalid, c.PivotThreshold)
	}
	if _, ok := sparse.ParseOrdering(c.Ordering); !ok {
		return fmt.Errorf("%w: unknown ordering %q", ErrInvalid, c.Ordering)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalid, c.LogFormat)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return lvl, nil
}

// EffectiveWorkers resolves Workers = 0 to GOMAXPROCS.
func (c Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// SparseOrdering returns the parsed Ordering, falling back to minimum degree.
func (c Config) SparseOrdering() sparse.Ordering {
	o, _ := sparse.ParseOrdering(c.Ordering)
	return o
}
