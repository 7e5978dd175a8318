package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeDirForFile(t *testing.T) {
	t.Run("nested", func(t *testing.T) {
		filePath := filepath.Join(t.TempDir(), "a", "b", "file.nef")
		require.NoError(t, MakeDirForFile(filePath, "test"))

		f, err := os.Create(filePath)
		require.NoError(t, err)
		require.NoError(t, f.Close())

		// Existing directory is fine.
		require.NoError(t, MakeDirForFile(filePath, "test"))
	})
	t.Run("file in the way", func(t *testing.T) {
		filePath := filepath.Join(t.TempDir(), "file.log")
		f, err := os.Create(filePath)
		require.NoError(t, err)
		require.NoError(t, f.Close())

		err = MakeDirForFile(filepath.Join(filePath, "nested.log"), "logger")
		require.ErrorContains(t, err, "could not create dir for logger")
	})
}
