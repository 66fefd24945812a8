package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockFileReader is a mock implementation of domain.FileReader.
type MockFileReader struct {
	mock.Mock
}

func (m *MockFileReader) FileExists(path string) (bool, error) {
	args := m.Called(path)
	return args.Bool(0), args.Error(1)
}

func (m *MockFileReader) IsValidCFile(path string) bool {
	args := m.Called(path)
	return args.Bool(0)
}

func (m *MockFileReader) CollectCFiles(paths []string, recursive bool, includePatterns []string, excludePatterns []string) ([]string, error) {
	args := m.Called(paths, recursive, includePatterns, excludePatterns)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFileReader) ReadFile(path string) ([]byte, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func TestResolveFilePaths_AllPathsAreFiles(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{"file1.c", "file2.c", "file3.c"}

	for _, path := range paths {
		mockReader.On("FileExists", path).Return(true, nil)
	}

	result, err := ResolveFilePaths(mockReader, paths, false, []string{"*.c"}, []string{}, false)

	assert.NoError(t, err)
	assert.Equal(t, paths, result, "should return paths directly when all are files")
	mockReader.AssertExpectations(t)
	mockReader.AssertNotCalled(t, "CollectCFiles")
}

func TestResolveFilePaths_AllPathsAreFilesWithValidation(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{"file1.c", "file2.c"}

	for _, path := range paths {
		mockReader.On("IsValidCFile", path).Return(true)
		mockReader.On("FileExists", path).Return(true, nil)
	}

	result, err := ResolveFilePaths(mockReader, paths, false, []string{"*.c"}, []string{}, true)

	assert.NoError(t, err)
	assert.Equal(t, paths, result, "should return paths directly when all are valid C files")
	mockReader.AssertExpectations(t)
	mockReader.AssertNotCalled(t, "CollectCFiles")
}

func TestResolveFilePaths_InvalidCFileWithValidation(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{"file1.c", "file2.txt"}

	mockReader.On("IsValidCFile", "file1.c").Return(true)
	mockReader.On("FileExists", "file1.c").Return(true, nil)
	mockReader.On("IsValidCFile", "file2.txt").Return(false)

	collected := []string{"file1.c"}
	mockReader.On("CollectCFiles", paths, false, []string{"*.c"}, []string{}).Return(collected, nil)

	result, err := ResolveFilePaths(mockReader, paths, false, []string{"*.c"}, []string{}, true)

	assert.NoError(t, err)
	assert.Equal(t, collected, result, "should collect files when validation fails")
	mockReader.AssertExpectations(t)
}

func TestResolveFilePaths_MixedFilesAndDirectories(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{"file1.c", "directory"}

	mockReader.On("FileExists", "file1.c").Return(true, nil)
	mockReader.On("FileExists", "directory").Return(false, nil)

	collected := []string{"file1.c", "directory/file2.c", "directory/file3.c"}
	mockReader.On("CollectCFiles", paths, true, []string{"*.c"}, []string{"*_generated.c"}).Return(collected, nil)

	result, err := ResolveFilePaths(mockReader, paths, true, []string{"*.c"}, []string{"*_generated.c"}, false)

	assert.NoError(t, err)
	assert.Equal(t, collected, result, "should collect files when paths include directories")
	mockReader.AssertExpectations(t)
}

func TestResolveFilePaths_FileExistsError(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{"file1.c", "file2.c"}

	mockReader.On("FileExists", "file1.c").Return(true, nil)
	mockReader.On("FileExists", "file2.c").Return(false, errors.New("permission denied"))

	collected := []string{"file1.c"}
	mockReader.On("CollectCFiles", paths, false, []string{"*.c"}, []string{}).Return(collected, nil)

	result, err := ResolveFilePaths(mockReader, paths, false, []string{"*.c"}, []string{}, false)

	assert.NoError(t, err)
	assert.Equal(t, collected, result, "should collect files when FileExists returns an error")
	mockReader.AssertExpectations(t)
}

func TestResolveFilePaths_CollectFilesError(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{"directory"}

	mockReader.On("FileExists", "directory").Return(false, nil)

	collectErr := errors.New("failed to collect files")
	mockReader.On("CollectCFiles", paths, true, []string{"*.c"}, []string{}).Return([]string(nil), collectErr)

	result, err := ResolveFilePaths(mockReader, paths, true, []string{"*.c"}, []string{}, false)

	assert.Error(t, err)
	assert.Equal(t, collectErr, err, "should return the CollectCFiles error")
	assert.Nil(t, result)
	mockReader.AssertExpectations(t)
}

func TestResolveFilePaths_EmptyPaths(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{}

	result, err := ResolveFilePaths(mockReader, paths, false, []string{"*.c"}, []string{}, false)

	assert.NoError(t, err)
	assert.Equal(t, []string{}, result, "should return empty slice for empty paths")
}

func TestResolveFilePaths_NoFilesCollected(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{"empty_directory"}

	mockReader.On("FileExists", "empty_directory").Return(false, nil)
	mockReader.On("CollectCFiles", paths, false, []string{"*.c"}, []string{}).Return([]string{}, nil)

	result, err := ResolveFilePaths(mockReader, paths, false, []string{"*.c"}, []string{}, false)

	assert.NoError(t, err)
	assert.Empty(t, result, "should return empty slice when no files are collected")
	mockReader.AssertExpectations(t)
}
