package domain

import (
	"context"
	"io"
)

// LowerService defines the core business logic for lowering C source into
// IR: one request covering a whole input path, or a single file.
type LowerService interface {
	// Lower performs lowering for every function discovered under the
	// request's InputPath.
	Lower(ctx context.Context, req LowerRequest) (*LowerResponse, error)

	// LowerFile lowers every top-level function in a single C file.
	LowerFile(ctx context.Context, filePath string, req LowerRequest) (*LowerResponse, error)
}

// FileReader abstracts discovering and reading C source files, so the core
// lowering pipeline never touches a filesystem or storage backend directly.
type FileReader interface {
	// CollectCFiles recursively finds C source files under the given paths.
	CollectCFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file.
	ReadFile(path string) ([]byte, error)

	// IsValidCFile checks whether a file looks like a C translation unit
	// (by extension, not by parsing it).
	IsValidCFile(path string) bool

	// FileExists checks if a path exists and is a regular file.
	FileExists(path string) (bool, error)
}

// IRWriter writes a completed LowerResponse to its output sink, either as
// gob-encoded binary IR or — when requested — an additional human-readable
// summary.
type IRWriter interface {
	Write(writer io.Writer, outputPath string, format OutputFormat, writeFunc func(io.Writer) error) error
}

// ConfigurationLoader defines the interface for loading configuration.
type ConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path.
	LoadConfig(path string) (*LowerRequest, error)

	// LoadDefaultConfig loads the default configuration.
	LoadDefaultConfig() *LowerRequest

	// MergeConfig merges CLI flags with configuration file.
	MergeConfig(base *LowerRequest, override *LowerRequest) *LowerRequest
}
