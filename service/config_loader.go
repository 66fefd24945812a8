package service

import (
	"os"

	"github.com/r7330980/gennm/domain"
	"github.com/r7330980/gennm/internal/config"
)

// ConfigurationLoaderImpl implements domain.ConfigurationLoader.
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service.
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified .gennm.toml path.
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.LowerRequest, error) {
	loader := config.NewTomlConfigLoader()
	cfg, err := loader.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	return configToRequest(cfg), nil
}

// LoadDefaultConfig loads the default configuration, first checking for a
// .gennm.toml in the current directory.
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.LowerRequest {
	if configFile := c.FindDefaultConfigFile(); configFile != "" {
		if req, err := c.LoadConfig(configFile); err == nil {
			return req
		}
	}
	return configToRequest(config.DefaultConfig())
}

// MergeConfig merges CLI flags with configuration file, preferring override
// values wherever they differ from the zero value. Parallel is always taken
// from override; WriteSummary is true if either side sets it.
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.LowerRequest, override *domain.LowerRequest) *domain.LowerRequest {
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
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	if len(override.Transformations) > 0 {
		merged.Transformations = override.Transformations
	}
	if len(override.IncludePatterns) > 0 {
		merged.IncludePatterns = override.IncludePatterns
	}
	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = override.ExcludePatterns
	}
	if override.MaxWorkers > 0 {
		merged.MaxWorkers = override.MaxWorkers
	}
	merged.Parallel = override.Parallel
	merged.WriteSummary = merged.WriteSummary || override.WriteSummary

	return &merged
}

// FindDefaultConfigFile looks for a .gennm.toml in the current directory.
func (c *ConfigurationLoaderImpl) FindDefaultConfigFile() string {
	loader := config.NewTomlConfigLoader()
	for _, filename := range loader.GetSupportedConfigFiles() {
		if _, err := os.Stat(filename); err == nil {
			return filename
		}
	}
	return ""
}

// CreateConfigTemplate writes a default .gennm.toml to path.
func (c *ConfigurationLoaderImpl) CreateConfigTemplate(path string) error {
	return config.SaveConfig(config.DefaultConfig(), path)
}

func configToRequest(cfg *config.Config) *domain.LowerRequest {
	return &domain.LowerRequest{
		OutputPath:      cfg.Output.Path,
		Transformations: cfg.Lower.Transformations,
		IncludePatterns: cfg.Analysis.IncludePatterns,
		ExcludePatterns: cfg.Analysis.ExcludePatterns,
		Parallel:        cfg.Lower.Parallel,
		MaxWorkers:      cfg.Lower.MaxWorkers,
		WriteSummary:    cfg.Output.WriteSummary,
	}
}
