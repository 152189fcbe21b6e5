package tmdl

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pbitools/tmdlsync/internal/grouping"
)

// DefaultTableName is the grouping table tmdlsync edits unless told
// otherwise.
const DefaultTableName = "InstrumentGroupings"

// literalPattern extracts the base64 literal from the partition's M
// expression. The surrounding snippet is deliberately not parsed as a
// grammar; the one quoted argument of Binary.FromText is all that matters.
var literalPattern = regexp.MustCompile(`Binary\.FromText\("([^"]+)"`)

// sourceExpression is the fixed-shape M snippet carrying the encoded
// dataset: a let binding with the inline literal, then the return line.
func sourceExpression(literal string) []string {
	cols := make([]string, 0, 4)
	for _, c := range grouping.Columns() {
		cols = append(cols, fmt.Sprintf("%q", c))
	}
	return []string{
		"let",
		fmt.Sprintf(`    Source = Table.FromRows(Json.Document(Binary.Decompress(Binary.FromText("%s", BinaryEncoding.Base64), Compression.Deflate)), {%s})`,
			literal, strings.Join(cols, ", ")),
		"in",
		"    Source",
	}
}

// newGroupingTable builds a fresh table node with the fixed four-column
// string schema and one partition holding an empty inline literal.
func newGroupingTable(name string) *Table {
	cols := make([]Column, 0, 4)
	for _, c := range grouping.Columns() {
		cols = append(cols, Column{Name: c, DataType: "string"})
	}
	return &Table{
		Name:    name,
		Columns: cols,
		Partitions: []*Partition{{
			Name:   name,
			Source: Source{Type: "m", Expression: sourceExpression("")},
		}},
	}
}

// EncodeGroupings writes the dataset into tableName's partition as a
// compressed base64 inline literal, fully replacing the previous source
// expression. A missing table, or a missing partition on an existing table,
// is created, so encoding is total over both cases.
func EncodeGroupings(doc *Document, tableName string, d grouping.Dataset) error {
	literal, err := encodeLiteral(d)
	if err != nil {
		return err
	}

	table := doc.FindTable(tableName)
	if table == nil {
		table = newGroupingTable(tableName)
		doc.Model.Tables = append(doc.Model.Tables, table)
	}

	// The data partition carries the table's own name.
	replaced := false
	for _, p := range table.Partitions {
		if p.Name == tableName {
			p.Source = Source{Type: "m", Expression: sourceExpression(literal)}
			replaced = true
		}
	}
	if !replaced {
		table.Partitions = append(table.Partitions, &Partition{
			Name:   tableName,
			Source: Source{Type: "m", Expression: sourceExpression(literal)},
		})
	}
	return nil
}

// DecodeGroupings extracts the dataset embedded in tableName's partition.
//
// A nil dataset with a nil error means the table is absent from the model.
// A nil dataset with a non-nil error means the table exists but its literal
// is missing or undecodable; callers are expected to log that and treat the
// table as having no data, since foreign tools may legitimately have
// rewritten the partition.
func DecodeGroupings(doc *Document, tableName string) (grouping.Dataset, error) {
	table := doc.FindTable(tableName)
	if table == nil {
		return nil, nil
	}

	literal := ""
	for _, p := range table.Partitions {
		if p.Name != tableName {
			continue
		}
		for _, line := range p.Source.Expression {
			if m := literalPattern.FindStringSubmatch(line); m != nil {
				literal = m[1]
				break
			}
		}
	}
	if literal == "" {
		return nil, fmt.Errorf("table %q: no inline data literal in partition expression", tableName)
	}
	return decodeLiteral(tableName, literal)
}

// encodeLiteral turns the dataset into a JSON array-of-arrays, compresses it
// and base64-encodes the result.
func encodeLiteral(d grouping.Dataset) (string, error) {
	rows := make([][]string, 0, len(d))
	for _, row := range d {
		rows = append(rows, row.Fields())
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encoding rows: %w", err)
	}

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		return "", fmt.Errorf("compressing rows: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("compressing rows: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decodeLiteral(tableName, literal string) (grouping.Dataset, error) {
	raw, err := base64.StdEncoding.DecodeString(literal)
	if err != nil {
		return nil, fmt.Errorf("table %q: invalid base64 literal: %w", tableName, err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("table %q: decompressing literal: %w", tableName, err)
	}
	payload, err := io.ReadAll(zr)
	zr.Close()
	if err != nil {
		return nil, fmt.Errorf("table %q: decompressing literal: %w", tableName, err)
	}

	var rows [][]string
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, fmt.Errorf("table %q: parsing decompressed rows: %w", tableName, err)
	}

	d := make(grouping.Dataset, 0, len(rows))
	for _, fields := range rows {
		var row grouping.Row
		// Columns are positional; short rows leave trailing groups empty.
		if len(fields) > 0 {
			row.InstrumentID = fields[0]
		}
		if len(fields) > 1 {
			row.FirstGroup = fields[1]
		}
		if len(fields) > 2 {
			row.SecondGroup = fields[2]
		}
		if len(fields) > 3 {
			row.ThirdGroup = fields[3]
		}
		d = append(d, row)
	}
	return d, nil
}
