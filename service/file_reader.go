package service

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/r7330980/gennm/domain"
	"github.com/viant/afs"
	"github.com/viant/afs/option"
)

// FileReaderImpl implements domain.FileReader over afs, so the same code
// path works for local paths and, later, any afs-backed storage scheme.
type FileReaderImpl struct {
	fs afs.Service
}

// NewFileReader creates a new file reader service.
func NewFileReader() *FileReaderImpl {
	return &FileReaderImpl{fs: afs.New()}
}

var skipDirNames = map[string]bool{
	".git":         true,
	"node_modules": true,
	"build":        true,
	"dist":         true,
	"cmake-build":  true,
}

// CollectCFiles recursively finds C source files under the given paths.
func (f *FileReaderImpl) CollectCFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	ctx := context.Background()

	var files []string
	for _, path := range paths {
		exists, err := f.FileExists(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}
		if exists {
			if f.IsValidCFile(path) && f.shouldIncludeFile(path, includePatterns, excludePatterns) {
				files = append(files, path)
			}
			continue
		}

		objects, err := f.fs.List(ctx, toFileURL(path), option.NewRecursive(recursive))
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}

		for _, obj := range objects {
			if obj.IsDir() {
				continue
			}
			full := fromFileURL(obj.URL())
			if skipDirNames[filepath.Base(filepath.Dir(full))] {
				continue
			}
			if f.IsValidCFile(full) && f.shouldIncludeFile(full, includePatterns, excludePatterns) {
				files = append(files, full)
			}
		}
	}

	return files, nil
}

// ReadFile reads the content of a file.
func (f *FileReaderImpl) ReadFile(path string) ([]byte, error) {
	content, err := f.fs.DownloadWithURL(context.Background(), toFileURL(path))
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return content, nil
}

// IsValidCFile reports whether a path looks like a C translation unit.
func (f *FileReaderImpl) IsValidCFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".c" || ext == ".h"
}

// FileExists checks if a path exists and is a regular (non-directory) file.
func (f *FileReaderImpl) FileExists(path string) (bool, error) {
	ctx := context.Background()
	exists, err := f.fs.Exists(ctx, toFileURL(path))
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	objects, err := f.fs.List(ctx, toFileURL(filepath.Dir(path)))
	if err != nil {
		// Exists already confirmed the path; treat list failure as "it's a file".
		return true, nil
	}
	base := filepath.Base(path)
	for _, obj := range objects {
		if obj.Name() == base {
			return !obj.IsDir(), nil
		}
	}
	return true, nil
}

// shouldIncludeFile applies doublestar include/exclude glob patterns.
func (f *FileReaderImpl) shouldIncludeFile(path string, includePatterns, excludePatterns []string) bool {
	slashed := filepath.ToSlash(path)

	for _, pattern := range excludePatterns {
		if matched, _ := doublestar.Match(pattern, slashed); matched {
			return false
		}
	}

	if len(includePatterns) == 0 {
		return true
	}

	for _, pattern := range includePatterns {
		if matched, _ := doublestar.Match(pattern, slashed); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, filepath.Base(slashed)); matched {
			return true
		}
	}

	return false
}

func toFileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + filepath.ToSlash(abs)
}

func fromFileURL(url string) string {
	return strings.TrimPrefix(url, "file://")
}
