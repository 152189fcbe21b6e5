package script_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbitools/tmdlsync/internal/grouping"
	"github.com/pbitools/tmdlsync/internal/script"
)

var sampleRows = grouping.Dataset{
	{InstrumentID: "BOND1001", FirstGroup: "Government", SecondGroup: "Treasury", ThirdGroup: "US"},
	{InstrumentID: "BOND1002", FirstGroup: "Corporate", SecondGroup: "Financial", ThirdGroup: "Banking"},
}

func TestWriteTSV(t *testing.T) {
	t.Run("tab-delimited with CRLF", func(t *testing.T) {
		dir := t.TempDir()
		path, err := script.WriteTSV(sampleRows, dir, "InstrumentGroupings")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "InstrumentGroupings.tsv"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.Split(string(data), "\r\n")
		require.Len(t, lines, 4) // header + 2 rows + trailing newline
		assert.Equal(t, "Instrument ID\tFirst Group\tSecond Group\tThird Group", lines[0])
		assert.Equal(t, "BOND1001\tGovernment\tTreasury\tUS", lines[1])
		assert.Empty(t, lines[3])
	})

	t.Run("invalid dataset rejected", func(t *testing.T) {
		_, err := script.WriteTSV(grouping.Dataset{}, t.TempDir(), "InstrumentGroupings")
		require.Error(t, err)
	})

	t.Run("staging directory created", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "staging")
		_, err := script.WriteTSV(sampleRows, dir, "InstrumentGroupings")
		require.NoError(t, err)
	})
}

func TestBuild(t *testing.T) {
	t.Run("references table and staged file", func(t *testing.T) {
		text, err := script.Build("InstrumentGroupings", `C:\Temp\InstrumentGroupings.tsv`)
		require.NoError(t, err)
		assert.Contains(t, text, `Model.Tables["InstrumentGroupings"]`)
		assert.Contains(t, text, `ClearRows()`)
		assert.Contains(t, text, `ImportFile(@"C:\Temp\InstrumentGroupings.tsv", "\t")`)
		assert.Contains(t, text, "SaveChanges()")
	})

	t.Run("quotes in path are doubled for the verbatim literal", func(t *testing.T) {
		text, err := script.Build("T", `C:\odd"name\data.tsv`)
		require.NoError(t, err)
		assert.Contains(t, text, `@"C:\odd""name\data.tsv"`)
	})
}

func TestWriteScript(t *testing.T) {
	dir := t.TempDir()
	tsvPath, err := script.WriteTSV(sampleRows, dir, "InstrumentGroupings")
	require.NoError(t, err)

	scriptPath, err := script.WriteScript(dir, "InstrumentGroupings", tsvPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "InstrumentGroupings.csx"), scriptPath)

	data, err := os.ReadFile(scriptPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), tsvPath)
}
