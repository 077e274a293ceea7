package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesMissingDirectories(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "state", "nested", "editor.db")

	got, err := EnsureParentDir(target)
	require.NoError(t, err)
	require.Equal(t, target, got)

	fi, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")
}

func TestEnsureParentDir_Idempotent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "state", "editor.db")

	first, err := EnsureParentDir(target)
	require.NoError(t, err)

	second, err := EnsureParentDir(target)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureParentDir_FailsIfFileBlocksDirectory(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "state")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o660))

	_, err := EnsureParentDir(filepath.Join(blocker, "editor.db"))
	require.Error(t, err, "should fail when a file exists with the directory's name")
}

func TestOpenRegular(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	f, size, err := OpenRegular(path)
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, int64(5), size)

	_, _, err = OpenRegular(tmp)
	require.ErrorIs(t, err, ErrNotRegular)

	_, _, err = OpenRegular(filepath.Join(tmp, "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
