package archive_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbitools/tmdlsync/internal/archive"
)

// writeZip builds a zip file at path from a map of entry name to content.
func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func TestExtract(t *testing.T) {
	t.Run("extracts nested entries", func(t *testing.T) {
		dir := t.TempDir()
		zipPath := filepath.Join(dir, "project.pbip")
		writeZip(t, zipPath, map[string]string{
			"Report/report.json":      `{"sections": []}`,
			"SemanticModel/model.tmdl": `{"model": {"tables": []}}`,
		})

		dest := filepath.Join(dir, "scratch")
		require.NoError(t, archive.Extract(zipPath, dest))

		data, err := os.ReadFile(filepath.Join(dest, "SemanticModel", "model.tmdl"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"model": {"tables": []}}`, string(data))
	})

	t.Run("stale files do not survive re-extraction", func(t *testing.T) {
		dir := t.TempDir()
		zipPath := filepath.Join(dir, "project.pbip")
		writeZip(t, zipPath, map[string]string{"a.txt": "a"})

		dest := filepath.Join(dir, "scratch")
		require.NoError(t, archive.Extract(zipPath, dest))
		require.NoError(t, os.WriteFile(filepath.Join(dest, "stale.txt"), []byte("leftover"), 0o644))

		require.NoError(t, archive.Extract(zipPath, dest))
		_, err := os.Stat(filepath.Join(dest, "stale.txt"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("missing archive", func(t *testing.T) {
		err := archive.Extract(filepath.Join(t.TempDir(), "nope.pbip"), filepath.Join(t.TempDir(), "scratch"))
		require.Error(t, err)
	})

	t.Run("not a zip", func(t *testing.T) {
		dir := t.TempDir()
		zipPath := filepath.Join(dir, "broken.pbip")
		require.NoError(t, os.WriteFile(zipPath, []byte("this is not a zip"), 0o644))
		err := archive.Extract(zipPath, filepath.Join(dir, "scratch"))
		require.Error(t, err)
	})
}

func TestPack(t *testing.T) {
	t.Run("round trip preserves files and paths", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src")
		require.NoError(t, os.MkdirAll(filepath.Join(src, "SemanticModel"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(src, "SemanticModel", "model.tmdl"), []byte("{}"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(src, "top.txt"), []byte("top"), 0o644))

		zipPath := filepath.Join(dir, "out.pbip")
		require.NoError(t, archive.Pack(src, zipPath))

		names, err := archive.List(zipPath)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"SemanticModel/model.tmdl", "top.txt"}, names)

		dest := filepath.Join(dir, "roundtrip")
		require.NoError(t, archive.Extract(zipPath, dest))
		data, err := os.ReadFile(filepath.Join(dest, "top.txt"))
		require.NoError(t, err)
		assert.Equal(t, "top", string(data))
	})

	t.Run("entries use deflate", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src")
		require.NoError(t, os.MkdirAll(src, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("aaaaaaaaaaaaaaaa"), 0o644))

		zipPath := filepath.Join(dir, "out.pbip")
		require.NoError(t, archive.Pack(src, zipPath))

		r, err := zip.OpenReader(zipPath)
		require.NoError(t, err)
		defer r.Close()
		require.Len(t, r.File, 1)
		assert.Equal(t, uint16(zip.Deflate), r.File[0].Method)
	})
}
