package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(root, "main.c"), []byte("int main(void) { return 0; }"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "util.h"), []byte("void util(void);"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("not c"), 0o644))

	sub := filepath.Join(root, "lib")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "math.c"), []byte("int add(int a, int b) { return a+b; }"), 0o644))

	generated := filepath.Join(root, "lib", "gen_table.c")
	require.NoError(t, os.WriteFile(generated, []byte("int t[] = {0};"), 0o644))

	return root
}

func TestFileReader_IsValidCFile(t *testing.T) {
	r := NewFileReader()
	assert.True(t, r.IsValidCFile("foo.c"))
	assert.True(t, r.IsValidCFile("foo.h"))
	assert.False(t, r.IsValidCFile("foo.py"))
	assert.False(t, r.IsValidCFile("foo"))
}

func TestFileReader_FileExists(t *testing.T) {
	root := writeTestTree(t)
	r := NewFileReader()

	exists, err := r.FileExists(filepath.Join(root, "main.c"))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = r.FileExists(filepath.Join(root, "missing.c"))
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = r.FileExists(root)
	require.NoError(t, err)
	assert.False(t, exists, "a directory is not a file")
}

func TestFileReader_ReadFile(t *testing.T) {
	root := writeTestTree(t)
	r := NewFileReader()

	content, err := r.ReadFile(filepath.Join(root, "main.c"))
	require.NoError(t, err)
	assert.Equal(t, "int main(void) { return 0; }", string(content))

	_, err = r.ReadFile(filepath.Join(root, "missing.c"))
	assert.Error(t, err)
}

func TestFileReader_CollectCFiles_NonRecursive(t *testing.T) {
	root := writeTestTree(t)
	r := NewFileReader()

	files, err := r.CollectCFiles([]string{root}, false, []string{"*.c", "*.h"}, nil)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.ElementsMatch(t, []string{"main.c", "util.h"}, names)
}

func TestFileReader_CollectCFiles_RecursiveWithExclude(t *testing.T) {
	root := writeTestTree(t)
	r := NewFileReader()

	files, err := r.CollectCFiles([]string{root}, true, []string{"**/*.c"}, []string{"**/gen_*.c"})
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.ElementsMatch(t, []string{"main.c", "math.c"}, names)
}

func TestFileReader_CollectCFiles_SingleFilePassthrough(t *testing.T) {
	root := writeTestTree(t)
	r := NewFileReader()

	target := filepath.Join(root, "main.c")
	files, err := r.CollectCFiles([]string{target}, false, []string{"*.c"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{target}, files)
}
