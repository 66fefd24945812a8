package service

import (
	"strings"

	"github.com/r7330980/gennm/domain"
)

// ErrorCategorizerImpl implements domain.ErrorCategorizer.
type ErrorCategorizerImpl struct {
	patterns map[domain.ErrorCategory][]string
}

// NewErrorCategorizer creates a new error categorizer.
func NewErrorCategorizer() domain.ErrorCategorizer {
	return &ErrorCategorizerImpl{
		patterns: initializeErrorPatterns(),
	}
}

func initializeErrorPatterns() map[domain.ErrorCategory][]string {
	return map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"invalid input",
			"no files found",
			"path",
			"directory",
			"file not found",
			"cannot access",
			"permission denied",
			"not a c file",
		},
		domain.ErrorCategoryConfig: {
			"config",
			"configuration",
			"invalid format",
			"invalid settings",
			"missing configuration",
			"toml",
		},
		domain.ErrorCategoryTimeout: {
			"timeout",
			"deadline",
			"context canceled",
			"operation timed out",
			"exceeded",
		},
		domain.ErrorCategoryOutput: {
			"write",
			"output",
			"gob",
			"cannot create",
			"failed to generate",
		},
		domain.ErrorCategoryProcessing: {
			"parse",
			"syntax",
			"lower",
			"process",
			"failed to analyze",
			"invalid c",
			"unsupported construct",
			"unterminated block",
		},
	}
}

// Categorize determines the category of an error.
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	if err == nil {
		return nil
	}

	errMsg := strings.ToLower(err.Error())

	for category, patterns := range ec.patterns {
		if containsAnyPattern(errMsg, patterns) {
			return &domain.CategorizedError{
				Category: category,
				Message:  ec.getCategoryMessage(category),
				Original: err,
			}
		}
	}

	return &domain.CategorizedError{
		Category: domain.ErrorCategoryUnknown,
		Message:  err.Error(),
		Original: err,
	}
}

// GetRecoverySuggestions returns recovery suggestions for an error category.
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	suggestions := map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"Check that the input files/directories exist and contain .c sources",
			"Try: gennm lower . --verbose to see detailed file discovery",
			"Ensure you have read permissions for the target files",
			"Use absolute paths if relative paths are causing issues",
		},
		domain.ErrorCategoryConfig: {
			"Verify .gennm.toml format and values",
			"Try: gennm init to generate a valid config file",
			"Check for syntax errors in .gennm.toml",
			"Ensure all required configuration fields are present",
		},
		domain.ErrorCategoryTimeout: {
			"Consider lowering smaller file sets or raising --max-workers",
			"Try lowering specific files instead of an entire directory",
			"Check if any translation unit is unusually large",
		},
		domain.ErrorCategoryOutput: {
			"Check write permissions for the output path",
			"Ensure the output directory exists and is writable",
			"Try writing to a different location",
		},
		domain.ErrorCategoryProcessing: {
			"Some files may have syntax errors the front-end could not recover from",
			"Run a single file to isolate the failing function",
			"Check the diagnostics attached to the failing function result",
		},
		domain.ErrorCategoryUnknown: {
			"Run with --verbose for detailed error information",
			"Report the issue if it persists",
		},
	}

	if sug, ok := suggestions[category]; ok {
		return sug
	}
	return []string{"Check the error message for more details"}
}

func (ec *ErrorCategorizerImpl) getCategoryMessage(category domain.ErrorCategory) string {
	messages := map[domain.ErrorCategory]string{
		domain.ErrorCategoryInput:      "Failed to process input files or directories",
		domain.ErrorCategoryConfig:     "Configuration file or settings error",
		domain.ErrorCategoryTimeout:    "Lowering timed out",
		domain.ErrorCategoryOutput:     "Failed to write IR output",
		domain.ErrorCategoryProcessing: "Error during parsing or lowering",
		domain.ErrorCategoryUnknown:    "An unexpected error occurred",
	}

	if msg, ok := messages[category]; ok {
		return msg
	}
	return "An error occurred"
}

func containsAnyPattern(str string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(str, pattern) {
			return true
		}
	}
	return false
}
