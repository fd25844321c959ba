package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputManager(t *testing.T) {
	base := t.TempDir()
	om := NewOutputManager(base)

	t.Run("output paths stay inside the run directory", func(t *testing.T) {
		path, err := om.GetOutputFilePath("run-1", "../../etc/passwd")

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "run-1", "passwd"), path)
		assert.DirExists(t, filepath.Join(base, "run-1"))
	})

	t.Run("resolve and size an existing file", func(t *testing.T) {
		path, err := om.GetOutputFilePath("run-2", "analysis.csv")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte("key\n"), 0o644))

		resolved, err := om.ResolveFile("run-2", "analysis.csv")
		require.NoError(t, err)
		size, err := om.GetFileSize(resolved)

		require.NoError(t, err)
		assert.Equal(t, int64(4), size)
	})

	t.Run("resolve rejects missing files and directories", func(t *testing.T) {
		_, err := om.ResolveFile("run-2", "missing.csv")
		assert.Error(t, err)

		_, err = om.ResolveFile("", "run-2")
		assert.Error(t, err)
	})

	t.Run("download url and file type", func(t *testing.T) {
		assert.Equal(t, "/api/v1/download/run-1/analysis.json", om.GetDownloadURL("run-1", "dir/analysis.json"))
		assert.Equal(t, "csv", om.GetFileType("a.CSV"))
		assert.Equal(t, "json", om.GetFileType("a.json"))
		assert.Equal(t, "unknown", om.GetFileType("a.xlsx"))
	})
}
