package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, nil, 0644))
	}
}

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "b.abc.hcl", "a.hcl", "notes.txt", "shots/010/c.abc.hcl", "shots/readme.md")

	files, err := FindFilesByExtension(root, ".abc.hcl", ".hcl")
	require.NoError(t, err)

	want := []string{
		filepath.Join(root, "a.hcl"),
		filepath.Join(root, "b.abc.hcl"),
		filepath.Join(root, "shots", "010", "c.abc.hcl"),
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}

	t.Run("single file is returned as is", func(t *testing.T) {
		path := filepath.Join(root, "notes.txt")
		files, err := FindFilesByExtension(path, ".hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{path}, files)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := FindFilesByExtension(filepath.Join(root, "missing"), ".hcl")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("no extensions panics", func(t *testing.T) {
		assert.Panics(t, func() { _, _ = FindFilesByExtension(root) })
	})
}

func TestExpandPathsDeduplicates(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.hcl", "sub/b.hcl")

	a := filepath.Join(root, "a.hcl")
	files, err := ExpandPaths([]string{a, root}, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{a, filepath.Join(root, "sub", "b.hcl")}, files)

	_, err = ExpandPaths([]string{filepath.Join(root, "nope")}, ".hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to scan")
}
