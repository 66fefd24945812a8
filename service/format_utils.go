package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/r7330980/gennm/domain"
	"gopkg.in/yaml.v3"
)

// EncodeYAML returns a YAML string for the given value.
func EncodeYAML(v interface{}) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", domain.NewOutputError("failed to marshal YAML", err)
	}
	return string(data), nil
}

// WriteYAML writes YAML for the given value to the writer.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode YAML", err)
	}
	return nil
}

// Standard CLI text formatting constants.
const (
	HeaderWidth    = 40
	LabelWidth     = 25
	SectionPadding = 2
)

// FormatUtils provides shared CLI text-report formatting helpers.
type FormatUtils struct{}

// NewFormatUtils creates a new format utilities instance.
func NewFormatUtils() *FormatUtils {
	return &FormatUtils{}
}

// FormatMainHeader creates a standardized main header.
func (f *FormatUtils) FormatMainHeader(title string) string {
	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", HeaderWidth) + "\n\n")
	return b.String()
}

// FormatSectionHeader creates a standardized section header.
func (f *FormatUtils) FormatSectionHeader(title string) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(title) + "\n")
	b.WriteString(strings.Repeat("-", len(title)) + "\n")
	return b.String()
}

// FormatLabelWithIndent creates a formatted label with specific indentation.
func (f *FormatUtils) FormatLabelWithIndent(indent int, label string, value interface{}) string {
	return fmt.Sprintf("%s%s: %v\n", strings.Repeat(" ", indent), label, value)
}

// FormatFunctionStatus renders a function's lowering outcome with color,
// green for success and red for failure.
func (f *FormatUtils) FormatFunctionStatus(funcID string, err error) string {
	if err == nil {
		return fmt.Sprintf("  %s %s\n", color.GreenString("✓"), funcID)
	}
	return fmt.Sprintf("  %s %s: %v\n", color.RedString("✗"), funcID, err)
}

// FormatSummaryStats creates a standardized summary statistics section.
func (f *FormatUtils) FormatSummaryStats(stats map[string]interface{}) string {
	var b strings.Builder
	b.WriteString(f.FormatSectionHeader("SUMMARY"))
	for label, value := range stats {
		b.WriteString(f.FormatLabelWithIndent(SectionPadding, label, value))
	}
	b.WriteString("\n")
	return b.String()
}
