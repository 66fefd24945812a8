// Package config loads and merges .gennm.toml configuration with CLI flags.
package config

import "errors"

var errInvalidMaxWorkers = errors.New("lower.max_workers must not be negative")

// Config is the fully resolved configuration for a lowering run, after
// defaults, a TOML file, and CLI flags have all been merged.
type Config struct {
	Lower    LowerConfig    `toml:"lower"`
	Analysis AnalysisConfig `toml:"analysis"`
	Output   OutputConfig   `toml:"output"`
}

// LowerConfig holds the [lower] section: whether and how many files to lower
// concurrently, and the transformation names carried into the request.
type LowerConfig struct {
	Parallel        bool     `toml:"parallel"`
	MaxWorkers      int      `toml:"max_workers"`
	Transformations []string `toml:"transformations"`
}

// AnalysisConfig holds the [analysis] section: which files a run considers.
type AnalysisConfig struct {
	IncludePatterns []string `toml:"include_patterns"`
	ExcludePatterns []string `toml:"exclude_patterns"`
	Recursive       bool     `toml:"recursive"`
}

// OutputConfig holds the [output] section: where and how IR is written.
type OutputConfig struct {
	Path         string `toml:"path"`
	WriteSummary bool   `toml:"write_summary"`
}

// DefaultConfig returns the configuration used when no .gennm.toml and no
// CLI flags override a setting.
func DefaultConfig() *Config {
	return &Config{
		Lower: LowerConfig{
			Parallel:        true,
			MaxWorkers:      4,
			Transformations: nil,
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{"**/*.c"},
			ExcludePatterns: []string{"**/.git/**"},
			Recursive:       true,
		},
		Output: OutputConfig{
			Path:         "",
			WriteSummary: false,
		},
	}
}

// Validate reports whether the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Lower.MaxWorkers < 0 {
		return errInvalidMaxWorkers
	}
	return nil
}
