package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// tomlConfig mirrors Config but with pointers on scalar fields so the
// loader can tell "absent from the file" apart from "the zero value".
type tomlConfig struct {
	Lower    tomlLowerConfig    `toml:"lower"`
	Analysis tomlAnalysisConfig `toml:"analysis"`
	Output   tomlOutputConfig   `toml:"output"`
}

type tomlLowerConfig struct {
	Parallel        *bool    `toml:"parallel"`
	MaxWorkers      *int     `toml:"max_workers"`
	Transformations []string `toml:"transformations"`
}

type tomlAnalysisConfig struct {
	IncludePatterns []string `toml:"include_patterns"`
	ExcludePatterns []string `toml:"exclude_patterns"`
	Recursive       *bool    `toml:"recursive"`
}

type tomlOutputConfig struct {
	Path         string `toml:"path"`
	WriteSummary *bool  `toml:"write_summary"`
}

// TomlConfigLoader loads a .gennm.toml file and merges it over the default
// configuration.
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML config loader.
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// GetSupportedConfigFiles returns the filenames checked, in priority order,
// when no explicit config path is given.
func (l *TomlConfigLoader) GetSupportedConfigFiles() []string {
	return []string{".gennm.toml", "gennm.toml"}
}

// LoadConfig reads and parses a .gennm.toml file, merging it over
// DefaultConfig so every unset field still has a sensible value.
func (l *TomlConfigLoader) LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed tomlConfig
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	l.applyToml(cfg, &parsed)
	return cfg, nil
}

func (l *TomlConfigLoader) applyToml(cfg *Config, t *tomlConfig) {
	if t.Lower.Parallel != nil {
		cfg.Lower.Parallel = *t.Lower.Parallel
	}
	if t.Lower.MaxWorkers != nil {
		cfg.Lower.MaxWorkers = *t.Lower.MaxWorkers
	}
	if len(t.Lower.Transformations) > 0 {
		cfg.Lower.Transformations = t.Lower.Transformations
	}

	if len(t.Analysis.IncludePatterns) > 0 {
		cfg.Analysis.IncludePatterns = t.Analysis.IncludePatterns
	}
	if len(t.Analysis.ExcludePatterns) > 0 {
		cfg.Analysis.ExcludePatterns = t.Analysis.ExcludePatterns
	}
	if t.Analysis.Recursive != nil {
		cfg.Analysis.Recursive = *t.Analysis.Recursive
	}

	if t.Output.Path != "" {
		cfg.Output.Path = t.Output.Path
	}
	if t.Output.WriteSummary != nil {
		cfg.Output.WriteSummary = *t.Output.WriteSummary
	}
}

// SaveConfig writes cfg to path as TOML, for `gennm init`.
func SaveConfig(cfg *Config, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// BoolValue returns override if set, else the default.
func BoolValue(override *bool, def bool) bool {
	if override == nil {
		return def
	}
	return *override
}
