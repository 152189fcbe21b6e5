package grouping

import "sort"

// Change records one instrument whose groups differ between two datasets.
type Change struct {
	ID     string
	Before Row
	After  Row
}

// Diff describes how a desired dataset differs from a current one, keyed by
// instrument ID. Slices are sorted by ID for stable output.
type Diff struct {
	Added     []Row    // in desired but not current
	Removed   []Row    // in current but not desired
	Changed   []Change // in both, with different group labels
	Unchanged int
}

// IsEmpty reports whether the two datasets are equivalent as sets of rows.
func (d Diff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Compare computes the difference between the current dataset and the
// desired one.
func Compare(current, desired Dataset) Diff {
	currentByID := current.byID()
	desiredByID := desired.byID()

	var diff Diff
	for _, row := range desired {
		before, ok := currentByID[row.InstrumentID]
		switch {
		case !ok:
			diff.Added = append(diff.Added, row)
		case before != row:
			diff.Changed = append(diff.Changed, Change{ID: row.InstrumentID, Before: before, After: row})
		default:
			diff.Unchanged++
		}
	}
	for _, row := range current {
		if _, ok := desiredByID[row.InstrumentID]; !ok {
			diff.Removed = append(diff.Removed, row)
		}
	}

	sort.Slice(diff.Added, func(i, j int) bool { return diff.Added[i].InstrumentID < diff.Added[j].InstrumentID })
	sort.Slice(diff.Removed, func(i, j int) bool { return diff.Removed[i].InstrumentID < diff.Removed[j].InstrumentID })
	sort.Slice(diff.Changed, func(i, j int) bool { return diff.Changed[i].ID < diff.Changed[j].ID })
	return diff
}
