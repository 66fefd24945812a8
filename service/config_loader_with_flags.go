package service

import (
	"github.com/r7330980/gennm/domain"
	"github.com/r7330980/gennm/internal/config"
)

// ConfigurationLoaderWithFlags wraps ConfigurationLoaderImpl with explicit
// CLI-flag tracking, so a flag the user never typed never clobbers a value
// that came from .gennm.toml.
type ConfigurationLoaderWithFlags struct {
	loader      *ConfigurationLoaderImpl
	flagTracker *config.FlagTracker
}

// NewConfigurationLoaderWithFlags creates a loader that tracks which CLI
// flags were explicitly set.
func NewConfigurationLoaderWithFlags(explicitFlags map[string]bool) *ConfigurationLoaderWithFlags {
	return &ConfigurationLoaderWithFlags{
		loader:      NewConfigurationLoader(),
		flagTracker: config.NewFlagTrackerWithFlags(explicitFlags),
	}
}

func (c *ConfigurationLoaderWithFlags) LoadConfig(path string) (*domain.LowerRequest, error) {
	return c.loader.LoadConfig(path)
}

func (c *ConfigurationLoaderWithFlags) LoadDefaultConfig() *domain.LowerRequest {
	return c.loader.LoadDefaultConfig()
}

// MergeConfig merges CLI flags over a config-file base, using override only
// for fields whose flag was explicitly set.
func (c *ConfigurationLoaderWithFlags) MergeConfig(base *domain.LowerRequest, override *domain.LowerRequest) *domain.LowerRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base

	if override.InputPath != "" {
		merged.InputPath = override.InputPath
	}
	merged.OutputPath = c.flagTracker.MergeString(merged.OutputPath, override.OutputPath, "output")
	merged.Transformations = c.flagTracker.MergeStringSlice(merged.Transformations, override.Transformations, "transform")
	merged.IncludePatterns = c.flagTracker.MergeStringSlice(merged.IncludePatterns, override.IncludePatterns, "include")
	merged.ExcludePatterns = c.flagTracker.MergeStringSlice(merged.ExcludePatterns, override.ExcludePatterns, "exclude")
	merged.MaxWorkers = c.flagTracker.MergeInt(merged.MaxWorkers, override.MaxWorkers, "max-workers")
	merged.Parallel = c.flagTracker.MergeBool(merged.Parallel, override.Parallel, "parallel")
	merged.WriteSummary = c.flagTracker.MergeBool(merged.WriteSummary, override.WriteSummary, "summary")

	return &merged
}

func (c *ConfigurationLoaderWithFlags) FindDefaultConfigFile() string {
	return c.loader.FindDefaultConfigFile()
}

func (c *ConfigurationLoaderWithFlags) CreateConfigTemplate(path string) error {
	return c.loader.CreateConfigTemplate(path)
}
