package main

import (
	"context"
	"fmt"
	"time"

	"github.com/r7330980/gennm/app"
	"github.com/r7330980/gennm/domain"
	"github.com/r7330980/gennm/internal/reporter"
	"github.com/r7330980/gennm/internal/version"
	"github.com/r7330980/gennm/service"
	"github.com/spf13/cobra"
)

// LowerCommand lowers C source under a path into gob-encoded IR.
type LowerCommand struct {
	outputPath   string
	configFile   string
	parallel     bool
	maxWorkers   int
	summary      bool
	include      []string
	exclude      []string
	reportFormat string
	verbose      bool
}

// NewLowerCommand creates a new lower command.
func NewLowerCommand() *LowerCommand {
	return &LowerCommand{maxWorkers: domain.DefaultMaxWorkers}
}

// CreateCobraCommand creates the cobra command for lowering.
func (c *LowerCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lower <path> [transformations...]",
		Short: "Lower C source under path into a binary IR file",
		Long: `Parse every C translation unit found under path, lower each top-level
function into a CFG of def/use-annotated basic blocks, and write the
result as gob-encoded binary IR.

Positional arguments after the path are recorded in the request as
transformation names, unchanged; no transformation pass is run over
the lowered IR.

Examples:
  # Lower a single file
  gennm lower src/main.c

  # Lower every .c file under a directory, in parallel
  gennm lower src/ --parallel --max-workers 8

  # Also write a human-readable YAML summary alongside the binary IR
  gennm lower src/main.c --summary -o build/main.gennmir`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.runLower,
	}

	cmd.Flags().StringVarP(&c.outputPath, "output", "o", "", "Output path for the binary IR (default: <input>.gennmir)")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Path to a .gennm.toml configuration file")
	cmd.Flags().BoolVar(&c.parallel, "parallel", false, "Lower files concurrently")
	cmd.Flags().IntVar(&c.maxWorkers, "max-workers", domain.DefaultMaxWorkers, "Maximum concurrent file lowerings")
	cmd.Flags().BoolVar(&c.summary, "summary", false, "Also write a <output>.summary.yaml alongside the binary IR")
	cmd.Flags().StringSliceVar(&c.include, "include", nil, "Include glob patterns (default: **/*.c)")
	cmd.Flags().StringSliceVar(&c.exclude, "exclude", nil, "Exclude glob patterns (default: **/.git/**)")
	cmd.Flags().StringVar(&c.reportFormat, "report-format", "text", "Report format printed to stderr (text, json, yaml, csv)")

	return cmd
}

func (c *LowerCommand) runLower(cmd *cobra.Command, args []string) error {
	if cmd.Parent() != nil {
		c.verbose, _ = cmd.Parent().Flags().GetBool("verbose")
	}

	inputPath := args[0]
	transformations := args[1:]

	configLoader := service.NewConfigurationLoader()
	base := configLoader.LoadDefaultConfig()
	if c.configFile != "" {
		loaded, err := configLoader.LoadConfig(c.configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		base = loaded
	}

	override := &domain.LowerRequest{InputPath: inputPath, Transformations: transformations}
	if cmd.Flags().Changed("output") {
		override.OutputPath = c.outputPath
	}
	if cmd.Flags().Changed("include") {
		override.IncludePatterns = c.include
	}
	if cmd.Flags().Changed("exclude") {
		override.ExcludePatterns = c.exclude
	}
	if cmd.Flags().Changed("parallel") {
		override.Parallel = c.parallel
	}
	if cmd.Flags().Changed("max-workers") {
		override.MaxWorkers = c.maxWorkers
	}
	if cmd.Flags().Changed("summary") {
		override.WriteSummary = c.summary
	}

	req := *configLoader.MergeConfig(base, override)
	req.InputPath = inputPath
	req.Transformations = transformations

	useCase, err := c.createLowerUseCase(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	resp, err := useCase.Lower(ctx, req)
	if err != nil {
		return c.reportError(cmd, err)
	}

	c.printSummary(cmd, resp, time.Since(start))

	if !resp.Succeeded() {
		return fmt.Errorf("lowering completed with %d failed function(s) out of %d", resp.FailedFuncs, resp.TotalFuncs)
	}
	return nil
}

func (c *LowerCommand) createLowerUseCase(cmd *cobra.Command) (*app.LowerUseCase, error) {
	fileReader := service.NewFileReader()
	irWriter := service.NewFileOutputWriter(cmd.ErrOrStderr())
	progressManager := service.NewProgressManager()
	parallelExecutor := service.NewParallelExecutor()
	errorCategorizer := service.NewErrorCategorizer()

	return app.NewLowerUseCaseBuilder().
		WithFileReader(fileReader).
		WithIRWriter(irWriter).
		WithProgressManager(progressManager).
		WithParallelExecutor(parallelExecutor).
		WithErrorCategorizer(errorCategorizer).
		Build()
}

func (c *LowerCommand) printSummary(cmd *cobra.Command, resp *domain.LowerResponse, elapsed time.Duration) {
	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "Wrote %s\n", resp.OutputPath)

	if !c.verbose {
		fmt.Fprintln(out, reporter.FormatBrief(toReporterResults(resp.Results)))
		return
	}

	rep := reporter.NewSummaryReporter(out, version.Short())
	report := rep.GenerateReport(toReporterResults(resp.Results), resp.TotalFiles, elapsed)
	if err := rep.Write(report, reporter.OutputFormat(c.reportFormat)); err != nil {
		fmt.Fprintf(out, "Warning: failed to render report: %v\n", err)
	}
}

func toReporterResults(results []domain.FunctionResult) []reporter.FunctionResult {
	out := make([]reporter.FunctionResult, len(results))
	for i, r := range results {
		out[i] = reporter.FunctionResult{
			File:        r.File,
			FuncID:      r.FuncID,
			Diagnostics: r.Diagnostics,
			Err:         r.Err,
		}
	}
	return out
}

func (c *LowerCommand) reportError(cmd *cobra.Command, err error) error {
	out := cmd.ErrOrStderr()
	catErr, ok := err.(*domain.CategorizedError)
	if !ok {
		fmt.Fprintf(out, "Error: %v\n", err)
		return err
	}

	fmt.Fprintf(out, "Error [%s]: %s\n", catErr.Category, catErr.Message)
	if catErr.Original != nil {
		fmt.Fprintf(out, "  %v\n", catErr.Original)
	}

	errorCategorizer := service.NewErrorCategorizer()
	suggestions := errorCategorizer.GetRecoverySuggestions(catErr.Category)
	if len(suggestions) > 0 {
		fmt.Fprintf(out, "\nSuggestions:\n")
		for _, s := range suggestions {
			fmt.Fprintf(out, "  • %s\n", s)
		}
	}

	return catErr
}

// NewLowerCmd creates and returns the lower cobra command.
func NewLowerCmd() *cobra.Command {
	return NewLowerCommand().CreateCobraCommand()
}
