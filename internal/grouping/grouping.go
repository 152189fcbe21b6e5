// Package grouping holds the instrument grouping dataset edited by tmdlsync:
// rows of one instrument identifier and up to three hierarchical group labels.
package grouping

import "fmt"

// Column names as they appear in the semantic model and in dataset files.
const (
	ColInstrumentID = "Instrument ID"
	ColFirstGroup   = "First Group"
	ColSecondGroup  = "Second Group"
	ColThirdGroup   = "Third Group"
)

// Columns lists the required column names in canonical order.
func Columns() []string {
	return []string{ColInstrumentID, ColFirstGroup, ColSecondGroup, ColThirdGroup}
}

// Row is a single instrument grouping. Group fields may be empty; the
// instrument ID must not be.
type Row struct {
	InstrumentID string
	FirstGroup   string
	SecondGroup  string
	ThirdGroup   string
}

// Fields returns the row's values in canonical column order.
func (r Row) Fields() []string {
	return []string{r.InstrumentID, r.FirstGroup, r.SecondGroup, r.ThirdGroup}
}

// Dataset is an ordered collection of grouping rows. Order is preserved for
// round-trip stability but carries no meaning.
type Dataset []Row

// Validate checks that the dataset is non-empty and that every row has a
// non-empty, unique instrument ID. A dataset that fails validation must not
// be written into a model.
func (d Dataset) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("dataset is empty")
	}
	seen := make(map[string]bool, len(d))
	for i, row := range d {
		if row.InstrumentID == "" {
			return fmt.Errorf("row %d: missing instrument ID", i+1)
		}
		if seen[row.InstrumentID] {
			return fmt.Errorf("duplicate instrument ID %q", row.InstrumentID)
		}
		seen[row.InstrumentID] = true
	}
	return nil
}

// byID indexes the dataset by instrument ID. Validate guarantees uniqueness,
// so later rows never clobber earlier ones on valid data.
func (d Dataset) byID() map[string]Row {
	m := make(map[string]Row, len(d))
	for _, row := range d {
		m[row.InstrumentID] = row
	}
	return m
}
