package main

import (
	"context"
	"fmt"
	"time"

	"github.com/r7330980/gennm/app"
	"github.com/r7330980/gennm/domain"
	"github.com/r7330980/gennm/service"
	"github.com/spf13/cobra"
)

// CheckCommand parses (and optionally lowers) every C file under a path
// concurrently, reporting parse/lowering failures without writing IR. It's
// a fast way to validate a tree before committing to a full lower run.
type CheckCommand struct {
	lower       bool
	concurrency int
}

// NewCheckCommand creates a new check command.
func NewCheckCommand() *CheckCommand {
	return &CheckCommand{}
}

// CreateCobraCommand creates the cobra command for checking.
func (c *CheckCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <path>",
		Short: "Parse (and optionally lower) C files under path without writing IR",
		Long: `Parse every C translation unit found under path concurrently, reporting
any file that fails to parse or lower. Unlike "gennm lower", no IR is
written; this is meant as a quick validation pass over a source tree.

Examples:
  # Parse every file under src/
  gennm check src/

  # Also run the CFG lowering pass over each function
  gennm check src/ --lower --concurrency 8`,
		Args: cobra.ExactArgs(1),
		RunE: c.runCheck,
	}

	cmd.Flags().BoolVar(&c.lower, "lower", false, "Also lower every discovered function, not just parse")
	cmd.Flags().IntVar(&c.concurrency, "concurrency", 0, "Maximum concurrent file parses (default: GOMAXPROCS)")

	return cmd
}

func (c *CheckCommand) runCheck(cmd *cobra.Command, args []string) error {
	fileReader := service.NewFileReader()
	files, err := app.ResolveFilePaths(fileReader, []string{args[0]}, true,
		domain.DefaultIncludePatterns(), domain.DefaultExcludePatterns(), true)
	if err != nil {
		return fmt.Errorf("failed to collect C files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found under %s", args[0])
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	cache := service.PopulateParseCache(ctx, files, service.ParseCachePopulatorConfig{
		Lower:       c.lower,
		Concurrency: c.concurrency,
	})
	elapsed := time.Since(start)

	out := cmd.OutOrStdout()
	var failed int
	var funcCount int
	for _, f := range files {
		result, ok := cache.Get(f)
		if !ok {
			continue
		}
		if result.ParseErr != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", f, result.ParseErr)
			continue
		}
		if result.LowerErr != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", f, result.LowerErr)
			continue
		}
		funcCount += len(result.Funcs)
	}

	fmt.Fprintf(out, "checked %d file(s) in %s: %d failed", len(files), elapsed.Round(time.Millisecond), failed)
	if c.lower {
		fmt.Fprintf(out, ", %d function(s) lowered", funcCount)
	}
	fmt.Fprintln(out)

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed to %s", failed, c.verb())
	}
	return nil
}

func (c *CheckCommand) verb() string {
	if c.lower {
		return "parse or lower"
	}
	return "parse"
}

// NewCheckCmd creates and returns the check cobra command.
func NewCheckCmd() *cobra.Command {
	return NewCheckCommand().CreateCobraCommand()
}
