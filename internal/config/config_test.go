package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbitools/tmdlsync/internal/config"
)

func TestParse(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		input := []byte(`tabular_editor_path: 'C:\Program Files (x86)\Tabular Editor\TabularEditor.exe'
default_table: SectorGroupings
last_import_path: /data/groupings.csv
`)
		cfg, err := config.Parse(input)
		require.NoError(t, err)
		assert.Equal(t, `C:\Program Files (x86)\Tabular Editor\TabularEditor.exe`, cfg.TabularEditorPath)
		assert.Equal(t, "SectorGroupings", cfg.DefaultTable)
		assert.Equal(t, "/data/groupings.csv", cfg.LastImportPath)
		assert.Empty(t, cfg.LastExportPath)
	})

	t.Run("empty document", func(t *testing.T) {
		cfg, err := config.Parse([]byte(""))
		require.NoError(t, err)
		assert.Equal(t, config.Config{}, cfg)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := config.Parse([]byte("default_table: [unclosed"))
		require.Error(t, err)
	})
}

func TestLoadSave(t *testing.T) {
	t.Run("missing file yields zero config", func(t *testing.T) {
		cfg, err := config.Load(filepath.Join(t.TempDir(), "absent", "config.yaml"))
		require.NoError(t, err)
		assert.Equal(t, config.Config{}, cfg)
	})

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".tmdlsync", "config.yaml")
		want := config.Config{
			DefaultTable:   "InstrumentGroupings",
			LastImportPath: "/data/groupings.json",
		}
		require.NoError(t, config.Save(path, want))

		got, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}
