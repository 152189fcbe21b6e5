package grouping

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fileRecord is the JSON shape of one row in a dataset file.
type fileRecord struct {
	InstrumentID string `json:"Instrument ID"`
	FirstGroup   string `json:"First Group"`
	SecondGroup  string `json:"Second Group"`
	ThirdGroup   string `json:"Third Group"`
}

// ReadFile loads a dataset from a JSON or CSV file, chosen by extension, and
// validates it.
func ReadFile(path string) (Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return readJSON(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .json or .csv)", filepath.Ext(path))
	}
}

// WriteFile validates the dataset and writes it to a JSON or CSV file,
// chosen by extension. Parent directories are created as needed.
func WriteFile(d Dataset, path string) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("invalid dataset: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return writeJSON(d, path)
	case ".csv":
		return writeCSV(d, path)
	default:
		return fmt.Errorf("unsupported file type %q (want .json or .csv)", filepath.Ext(path))
	}
}

func readJSON(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	// Accept either a bare array of records or an object wrapping the array
	// under a "records" or "data" key, matching files produced by other tools.
	var records []fileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		var wrapper struct {
			Records []fileRecord `json:"records"`
			Data    []fileRecord `json:"data"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		switch {
		case wrapper.Records != nil:
			records = wrapper.Records
		case wrapper.Data != nil:
			records = wrapper.Data
		default:
			return nil, fmt.Errorf("parsing %s: expected an array of records or an object with a \"records\" or \"data\" key", path)
		}
	}

	d := make(Dataset, 0, len(records))
	for _, rec := range records {
		d = append(d, Row(rec))
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset in %s: %w", path, err)
	}
	return d, nil
}

func writeJSON(d Dataset, path string) error {
	records := make([]fileRecord, 0, len(d))
	for _, row := range d {
		records = append(records, fileRecord(row))
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func readCSV(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: file is empty", path)
	}

	// Map header names to positions so column order in the file is free.
	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range Columns() {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%s: missing required column %q", path, col)
		}
	}

	field := func(rec []string, col string) string {
		i := index[col]
		if i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	d := make(Dataset, 0, len(rows)-1)
	for _, rec := range rows[1:] {
		d = append(d, Row{
			InstrumentID: field(rec, ColInstrumentID),
			FirstGroup:   field(rec, ColFirstGroup),
			SecondGroup:  field(rec, ColSecondGroup),
			ThirdGroup:   field(rec, ColThirdGroup),
		})
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset in %s: %w", path, err)
	}
	return d, nil
}

func writeCSV(d Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	for _, row := range d {
		if err := w.Write(row.Fields()); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
