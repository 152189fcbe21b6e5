// Package script stages grouping data for Tabular Editor: a TSV file with
// the rows, and the C# script that clears and re-imports the target table.
package script

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/pbitools/tmdlsync/internal/grouping"
)

// Tabular Editor runs the script against the live model; the script only
// ever references the staged TSV by absolute path.
var scriptTmpl = template.Must(template.New("script").Funcs(template.FuncMap{
	// Escape for a C# verbatim string literal: only double quotes need care.
	"verbatim": func(s string) string { return strings.ReplaceAll(s, `"`, `""`) },
}).Parse(`// Replace the contents of {{.Table}} from staged TSV data.
var tbl = Model.Tables["{{.Table}}"];
tbl.ClearRows();
tbl.ImportFile(@"{{verbatim .TSVPath}}", "\t");
tbl.Model.SaveChanges();
`))

// WriteTSV validates the dataset and stages it as <dir>/<table>.tsv,
// tab-delimited with CRLF line endings as Tabular Editor's import expects.
// It returns the staged file's path.
func WriteTSV(d grouping.Dataset, dir, table string) (string, error) {
	if err := d.Validate(); err != nil {
		return "", fmt.Errorf("invalid dataset: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating staging directory: %w", err)
	}

	path := filepath.Join(dir, table+".tsv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = '\t'
	w.UseCRLF = true
	if err := w.Write(grouping.Columns()); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	for _, row := range d {
		if err := w.Write(row.Fields()); err != nil {
			return "", fmt.Errorf("writing %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Build renders the Tabular Editor script for the table and staged TSV path.
func Build(table, tsvPath string) (string, error) {
	var sb strings.Builder
	err := scriptTmpl.Execute(&sb, struct {
		Table   string
		TSVPath string
	}{Table: table, TSVPath: tsvPath})
	if err != nil {
		return "", fmt.Errorf("rendering script: %w", err)
	}
	return sb.String(), nil
}

// WriteScript renders the script and writes it to <dir>/<table>.csx,
// returning the script file's path.
func WriteScript(dir, table, tsvPath string) (string, error) {
	text, err := Build(table, tsvPath)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, table+".csx")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
