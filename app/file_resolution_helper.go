package app

import "github.com/r7330980/gennm/domain"

// ResolveFilePaths resolves file paths for lowering.
// If all paths are already files (not directories), returns them directly.
// Otherwise, collects C files from the provided paths using the specified
// filters.
//
// This optimizes the case where a caller pre-collects files and passes them
// to a lowering run, avoiding redundant file collection.
func ResolveFilePaths(
	fileReader domain.FileReader,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
	validateCFile bool,
) ([]string, error) {
	allFiles := true
	for _, path := range paths {
		if validateCFile && !fileReader.IsValidCFile(path) {
			allFiles = false
			break
		}

		exists, err := fileReader.FileExists(path)
		if err != nil || !exists {
			allFiles = false
			break
		}
	}

	if allFiles {
		return paths, nil
	}

	files, err := fileReader.CollectCFiles(paths, recursive, includePatterns, excludePatterns)
	if err != nil {
		return nil, err
	}

	return files, nil
}
