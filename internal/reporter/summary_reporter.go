// Package reporter renders a completed lowering run as a human- or
// machine-readable report, independent of the binary IR itself.
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// OutputFormat selects how a SummaryReport is rendered.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// FunctionSummary is one function's outcome, serializable independent of
// the domain package (avoids an import cycle from domain back to reporter).
type FunctionSummary struct {
	File        string   `json:"file" yaml:"file"`
	FuncID      string   `json:"function_id" yaml:"function_id"`
	Failed      bool     `json:"failed" yaml:"failed"`
	Error       string   `json:"error,omitempty" yaml:"error,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// SummaryReport is a complete lowering-run report: aggregate statistics
// plus the per-function outcomes that produced them.
type SummaryReport struct {
	Summary  ReportSummary     `json:"summary" yaml:"summary"`
	Results  []FunctionSummary `json:"results" yaml:"results"`
	Metadata ReportMetadata    `json:"metadata" yaml:"metadata"`
	Warnings []ReportWarning   `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ReportSummary holds aggregate statistics for a lowering run.
type ReportSummary struct {
	TotalFiles           int     `json:"total_files" yaml:"total_files"`
	TotalFunctions       int     `json:"total_functions" yaml:"total_functions"`
	FailedFunctions      int     `json:"failed_functions" yaml:"failed_functions"`
	FunctionsWithDiags   int     `json:"functions_with_diagnostics" yaml:"functions_with_diagnostics"`
	AverageDiagsPerFunc  float64 `json:"average_diagnostics_per_function" yaml:"average_diagnostics_per_function"`
}

// ReportMetadata carries generation provenance.
type ReportMetadata struct {
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Version     string    `json:"version" yaml:"version"`
	Duration    string    `json:"duration" yaml:"duration"`
}

// ReportWarning flags a function whose lowering left diagnostics behind or
// failed outright.
type ReportWarning struct {
	Type     string `json:"type" yaml:"type"`
	Message  string `json:"message" yaml:"message"`
	FuncID   string `json:"function_id,omitempty" yaml:"function_id,omitempty"`
	FilePath string `json:"file,omitempty" yaml:"file,omitempty"`
}

// FunctionResult mirrors domain.FunctionResult's shape without importing
// domain, so this package stays a leaf the core can be tested without.
type FunctionResult struct {
	File        string
	FuncID      string
	Diagnostics []string
	Err         error
}

// SummaryReporter formats and writes a lowering run's results.
type SummaryReporter struct {
	writer  io.Writer
	version string
}

// NewSummaryReporter creates a reporter writing to w, stamping reports with
// the given version string.
func NewSummaryReporter(w io.Writer, version string) *SummaryReporter {
	return &SummaryReporter{writer: w, version: version}
}

// GenerateReport builds a SummaryReport from a lowering run's results.
func (r *SummaryReporter) GenerateReport(results []FunctionResult, totalFiles int, duration time.Duration) *SummaryReport {
	sorted := make([]FunctionResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].File != sorted[j].File {
			return sorted[i].File < sorted[j].File
		}
		return sorted[i].FuncID < sorted[j].FuncID
	})

	summaries := make([]FunctionSummary, len(sorted))
	for i, res := range sorted {
		fs := FunctionSummary{
			File:        res.File,
			FuncID:      res.FuncID,
			Diagnostics: res.Diagnostics,
		}
		if res.Err != nil {
			fs.Failed = true
			fs.Error = res.Err.Error()
		}
		summaries[i] = fs
	}

	report := &SummaryReport{
		Results: summaries,
		Metadata: ReportMetadata{
			GeneratedAt: time.Now(),
			Version:     r.version,
			Duration:    duration.String(),
		},
	}
	report.Summary = r.generateSummary(summaries, totalFiles)
	report.Warnings = r.generateWarnings(summaries)
	return report
}

func (r *SummaryReporter) generateSummary(results []FunctionSummary, totalFiles int) ReportSummary {
	summary := ReportSummary{
		TotalFiles:     totalFiles,
		TotalFunctions: len(results),
	}

	totalDiags := 0
	for _, res := range results {
		if res.Failed {
			summary.FailedFunctions++
			continue
		}
		if len(res.Diagnostics) > 0 {
			summary.FunctionsWithDiags++
		}
		totalDiags += len(res.Diagnostics)
	}

	if summary.TotalFunctions > 0 {
		summary.AverageDiagsPerFunc = float64(totalDiags) / float64(summary.TotalFunctions)
	}
	return summary
}

func (r *SummaryReporter) generateWarnings(results []FunctionSummary) []ReportWarning {
	var warnings []ReportWarning
	for _, res := range results {
		if res.Failed {
			warnings = append(warnings, ReportWarning{
				Type:     "lowering_failed",
				Message:  fmt.Sprintf("function %s failed to lower: %s", res.FuncID, res.Error),
				FuncID:   res.FuncID,
				FilePath: res.File,
			})
			continue
		}
		for _, d := range res.Diagnostics {
			warnings = append(warnings, ReportWarning{
				Type:     "diagnostic",
				Message:  d,
				FuncID:   res.FuncID,
				FilePath: res.File,
			})
		}
	}
	return warnings
}

// Write renders report in the given format to the reporter's writer.
func (r *SummaryReporter) Write(report *SummaryReport, format OutputFormat) error {
	switch format {
	case OutputFormatJSON:
		return r.outputJSON(report)
	case OutputFormatYAML:
		return r.outputYAML(report)
	case OutputFormatCSV:
		return r.outputCSV(report)
	case OutputFormatText:
		fallthrough
	default:
		return r.outputText(report)
	}
}

func (r *SummaryReporter) outputJSON(report *SummaryReport) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func (r *SummaryReporter) outputYAML(report *SummaryReport) error {
	encoder := yaml.NewEncoder(r.writer)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(report)
}

func (r *SummaryReporter) outputCSV(report *SummaryReport) error {
	writer := csv.NewWriter(r.writer)
	defer writer.Flush()

	header := []string{"File", "Function", "Failed", "Error", "Diagnostics"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, res := range report.Results {
		row := []string{
			res.File,
			res.FuncID,
			fmt.Sprintf("%t", res.Failed),
			res.Error,
			strings.Join(res.Diagnostics, "; "),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	return nil
}

func (r *SummaryReporter) outputText(report *SummaryReport) error {
	fmt.Fprintf(r.writer, "Lowering Report\n")
	fmt.Fprintf(r.writer, "===============\n\n")

	fmt.Fprintf(r.writer, "Summary:\n")
	fmt.Fprintf(r.writer, "  Files:               %d\n", report.Summary.TotalFiles)
	fmt.Fprintf(r.writer, "  Functions:           %d\n", report.Summary.TotalFunctions)
	fmt.Fprintf(r.writer, "  Failed:              %d\n", report.Summary.FailedFunctions)
	fmt.Fprintf(r.writer, "  With diagnostics:    %d\n", report.Summary.FunctionsWithDiags)
	fmt.Fprintf(r.writer, "  Avg diags/function:  %.2f\n", report.Summary.AverageDiagsPerFunc)

	if len(report.Warnings) > 0 {
		fmt.Fprintf(r.writer, "\nWarnings:\n")
		for _, warning := range report.Warnings {
			fmt.Fprintf(r.writer, "  [%s] %s\n", strings.ToUpper(warning.Type), warning.Message)
		}
	}

	if len(report.Results) > 0 {
		fmt.Fprintf(r.writer, "\nFunctions:\n")
		for _, res := range report.Results {
			status := "ok"
			if res.Failed {
				status = "FAILED"
			}
			fmt.Fprintf(r.writer, "  %-8s %s (%s)\n", status, res.FuncID, res.File)
		}
	}

	fmt.Fprintf(r.writer, "\nGenerated at: %s\n", report.Metadata.GeneratedAt.Format(time.RFC3339))
	return nil
}

// FormatBrief returns a brief one-line summary of a lowering run.
func FormatBrief(results []FunctionResult) string {
	if len(results) == 0 {
		return "No functions lowered"
	}

	failed := 0
	diags := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
		diags += len(res.Diagnostics)
	}

	return fmt.Sprintf("%d functions lowered - Failed: %d, Diagnostics: %d", len(results), failed, diags)
}
