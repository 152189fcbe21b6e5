// Package tmdl reads and writes the model-definition file embedded in a PBIP
// container and encodes grouping data into a table partition's M expression.
//
// The model file is treated as a structured document with the shape
// model.tables[].partitions[].source.expression; everything this package does
// not understand is a parse failure, not a recovery case.
package tmdl

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ModelExt is the file extension of model-definition files inside a PBIP
// container.
const ModelExt = ".tmdl"

// Document is the root of a parsed model definition.
type Document struct {
	Model *Model `json:"model"`
}

// Model holds the table definitions of a semantic model.
type Model struct {
	Tables []*Table `json:"tables"`
}

// Table is a named table with its column and partition definitions.
type Table struct {
	Name       string       `json:"name"`
	Columns    []Column     `json:"columns,omitempty"`
	Partitions []*Partition `json:"partitions,omitempty"`
}

// Column is a column definition within a table.
type Column struct {
	Name     string `json:"name"`
	DataType string `json:"dataType"`
}

// Partition is a named data-source definition within a table.
type Partition struct {
	Name   string `json:"name"`
	Source Source `json:"source"`
}

// Source holds a partition's source expression as an ordered sequence of
// text lines.
type Source struct {
	Type       string   `json:"type"`
	Expression []string `json:"expression"`
}

// FindTable returns the named table, or nil if the document has no such
// table.
func (d *Document) FindTable(name string) *Table {
	if d.Model == nil {
		return nil
	}
	for _, t := range d.Model.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Parse reads the model file at path into a Document.
func Parse(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing model file %s: %w", path, err)
	}
	if doc.Model == nil {
		return nil, fmt.Errorf("parsing model file %s: missing \"model\" object", path)
	}
	return &doc, nil
}

// Serialize writes the document back to path with stable two-space
// indentation. If a file already exists at path it is first copied to
// <path>.bak, so a failed write never destroys the previous content.
func Serialize(doc *Document, path string) error {
	if _, err := os.Stat(path); err == nil {
		if err := copyFile(path, path+".bak"); err != nil {
			return fmt.Errorf("backing up model file: %w", err)
		}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding model document: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing model file %s: %w", path, err)
	}
	return nil
}

// FindModelFile walks root for files with the model extension and returns
// the first in lexical walk order, plus any further matches so the caller
// can report them. Zero matches is an error.
func FindModelFile(root string) (string, []string, error) {
	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ModelExt) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return "", nil, fmt.Errorf("searching %s: %w", root, err)
	}
	if len(matches) == 0 {
		return "", nil, fmt.Errorf("no %s file found under %s", ModelExt, root)
	}
	return matches[0], matches[1:], nil
}

// copyFile copies src to dst, overwriting dst if it exists.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
