package main

import (
	"fmt"

	"github.com/r7330980/gennm/service"
	"github.com/spf13/cobra"
)

// InitCommand writes a default .gennm.toml configuration template.
type InitCommand struct {
	outputPath string
	force      bool
}

// NewInitCommand creates a new init command.
func NewInitCommand() *InitCommand {
	return &InitCommand{outputPath: ".gennm.toml"}
}

// CreateCobraCommand creates the cobra command for config initialization.
func (c *InitCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default .gennm.toml configuration file",
		Long: `Write a .gennm.toml configuration template to the current directory
(or to the path given by --output), populated with gennm's defaults.

Examples:
  # Write .gennm.toml in the current directory
  gennm init

  # Write to a specific path
  gennm init --output configs/.gennm.toml`,
		RunE: c.runInit,
	}

	cmd.Flags().StringVarP(&c.outputPath, "output", "o", ".gennm.toml", "Path to write the configuration template")
	cmd.Flags().BoolVarP(&c.force, "force", "f", false, "Overwrite the file if it already exists")

	return cmd
}

func (c *InitCommand) runInit(cmd *cobra.Command, args []string) error {
	loader := service.NewConfigurationLoader()

	if !c.force {
		if exists, _ := fileExists(c.outputPath); exists {
			return fmt.Errorf("%s already exists; use --force to overwrite", c.outputPath)
		}
	}

	if err := loader.CreateConfigTemplate(c.outputPath); err != nil {
		return fmt.Errorf("failed to write configuration template: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote configuration template to %s\n", c.outputPath)
	return nil
}

// NewInitCmd creates and returns the init cobra command.
func NewInitCmd() *cobra.Command {
	return NewInitCommand().CreateCobraCommand()
}
