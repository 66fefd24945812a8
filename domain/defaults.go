package domain

// Defaults for a lowering run when no .gennm.toml value or CLI flag
// overrides them.
const (
	// DefaultOutputExtension is appended to the input file's stem to form
	// the default output path, mirroring the original tool's CLI default.
	DefaultOutputExtension = ".gennmir"

	// DefaultMaxWorkers bounds how many files are lowered concurrently when
	// a request sets Parallel and resolves to more than one file.
	DefaultMaxWorkers = 4

	// DefaultIncludePattern matches every C translation unit by default.
	DefaultIncludePattern = "**/*.c"
)

// DefaultIncludePatterns returns the include globs used when a request
// supplies none.
func DefaultIncludePatterns() []string {
	return []string{"**/*.c"}
}

// DefaultExcludePatterns returns the exclude globs used when a request
// supplies none.
func DefaultExcludePatterns() []string {
	return []string{"**/.git/**"}
}
