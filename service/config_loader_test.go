package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/r7330980/gennm/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigurationLoader(t *testing.T) {
	loader := NewConfigurationLoader()
	assert.NotNil(t, loader)
}

func TestConfigurationLoader_LoadDefaultConfig(t *testing.T) {
	loader := NewConfigurationLoader()

	req := loader.LoadDefaultConfig()
	require.NotNil(t, req)

	assert.Equal(t, []string{"**/*.c"}, req.IncludePatterns)
	assert.True(t, req.Parallel)
	assert.Equal(t, 4, req.MaxWorkers)
}

func TestConfigurationLoader_MergeConfig(t *testing.T) {
	loader := NewConfigurationLoader()

	base := &domain.LowerRequest{
		InputPath:  "base/path",
		MaxWorkers: 4,
		Parallel:   true,
	}

	override := &domain.LowerRequest{
		InputPath:  "override/path",
		MaxWorkers: 8,
	}

	merged := loader.MergeConfig(base, override)

	assert.Equal(t, "override/path", merged.InputPath)
	assert.Equal(t, 8, merged.MaxWorkers)
}

func TestConfigurationLoader_MergeConfig_Patterns(t *testing.T) {
	loader := NewConfigurationLoader()

	base := &domain.LowerRequest{
		IncludePatterns: []string{"*.c"},
		ExcludePatterns: []string{"test_*.c"},
	}

	override := &domain.LowerRequest{
		IncludePatterns: []string{"**/*.c"},
		ExcludePatterns: []string{"*_test.c"},
	}

	merged := loader.MergeConfig(base, override)
	assert.Equal(t, []string{"**/*.c"}, merged.IncludePatterns)
	assert.Equal(t, []string{"*_test.c"}, merged.ExcludePatterns)
}

func TestConfigurationLoader_LoadConfig_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".gennm.toml")

	configContent := `
[lower]
max_workers = 8

[analysis]
recursive = false
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))

	loader := NewConfigurationLoader()
	req, err := loader.LoadConfig(configPath)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, 8, req.MaxWorkers)
}

func TestConfigurationLoader_LoadConfig_MissingFile(t *testing.T) {
	loader := NewConfigurationLoader()
	_, err := loader.LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestConfigurationLoader_FindDefaultConfigFile(t *testing.T) {
	loader := NewConfigurationLoader()
	result := loader.FindDefaultConfigFile()
	assert.IsType(t, "", result)
}

func TestConfigurationLoader_CreateConfigTemplate(t *testing.T) {
	loader := NewConfigurationLoader()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "template.toml")

	err := loader.CreateConfigTemplate(configPath)
	require.NoError(t, err)

	_, err = os.Stat(configPath)
	assert.NoError(t, err)
}

func TestConfigurationLoaderWithFlags_MergeConfig(t *testing.T) {
	loader := NewConfigurationLoaderWithFlags(map[string]bool{"max-workers": true})

	base := &domain.LowerRequest{MaxWorkers: 4, Parallel: true}
	override := &domain.LowerRequest{MaxWorkers: 16, Parallel: false}

	merged := loader.MergeConfig(base, override)
	assert.Equal(t, 16, merged.MaxWorkers, "max-workers flag was explicitly set")
	assert.True(t, merged.Parallel, "parallel flag was not set, base value preserved")
}
