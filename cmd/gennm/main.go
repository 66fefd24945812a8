package main

import (
	"os"

	"github.com/r7330980/gennm/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "gennm",
	Short: "A C-to-IR lowering compiler",
	Long: `gennm parses C source with tree-sitter and lowers every top-level
function into a control-flow graph of basic blocks, with each statement
annotated with the variables it defines and uses.

Features:
  • tree-sitter based C parsing
  • per-function CFG construction with def/use annotation
  • binary IR output (gob-encoded), plus an optional YAML summary`,
	Version: version.Short(),
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a .gennm.toml configuration file")

	viper.SetEnvPrefix("gennm")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.AddCommand(NewLowerCmd())
	rootCmd.AddCommand(NewCheckCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
