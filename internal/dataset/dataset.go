// Package dataset reads and writes the row-oriented material table as CSV.
// A Table keeps the header and rows exactly as loaded; columns the
// classifier needs are added on demand and absent values are written as
// empty cells, never as a "None" or "null" literal.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Table is an in-memory row-oriented dataset with named columns.
type Table struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

// New builds a table from a header and rows. Rows must already have the
// header's width.
func New(header []string, rows [][]string) *Table {
	t := &Table{Header: header, Rows: rows}
	t.reindex()
	return t
}

// ReadFile loads a CSV file into a table. The first record is the header;
// every following record must have the same number of fields.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("input dataset %s is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV record: %w", err)
		}
		rows = append(rows, record)
	}

	return New(header, rows), nil
}

// WriteFile writes the table as CSV, creating the parent directory first.
func (t *Table) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output dataset: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write CSV record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output dataset: %w", err)
	}
	return nil
}

// Column returns the index of the named column.
func (t *Table) Column(name string) (int, bool) {
	idx, ok := t.index[name]
	return idx, ok
}

// EnsureColumn returns the index of the named column, appending it with
// empty values when it does not exist yet.
func (t *Table) EnsureColumn(name string) int {
	if idx, ok := t.index[name]; ok {
		return idx
	}
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], "")
	}
	idx := len(t.Header) - 1
	t.index[name] = idx
	return idx
}

// Len reports the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Header))
	for i, name := range t.Header {
		t.index[name] = i
	}
}
