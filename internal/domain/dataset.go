package domain

import (
	"strconv"
	"time"
)

// DatasetDescriptor summarizes one tabular measurement file in the catalog.
// Immutable once listed; the full set is rebuilt only on catalog reload.
type DatasetDescriptor struct {
	// Name identifies the dataset (the file name within the source folder).
	Name string `json:"name"`
	// SizeBytes is the file size on disk.
	SizeBytes int64 `json:"size_bytes"`
	// ModifiedAt is the file's last-modified timestamp.
	ModifiedAt time.Time `json:"modified_at"`
	// ColumnCount is the number of columns in the file header, or -1 when
	// the header could not be read.
	ColumnCount int `json:"column_count"`
	// Incomplete marks a descriptor whose metadata could not be fully read.
	// Such rows are listed with an explicit missing marker, never dropped.
	Incomplete bool `json:"incomplete,omitempty"`
}

// SizeKB returns the descriptor's size in whole kilobytes.
func (d DatasetDescriptor) SizeKB() int64 {
	return d.SizeBytes / 1024
}

// Column is one named, ordered column of a loaded dataset. Values are kept
// as raw strings; numeric interpretation happens at plot/export time.
type Column struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Float returns the value at row i parsed as a float, or false when the row
// is out of range or not numeric.
func (c Column) Float(i int) (float64, bool) {
	if i < 0 || i >= len(c.Values) {
		return 0, false
	}
	f, err := strconv.ParseFloat(c.Values[i], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Table is the loaded content of one dataset: an ordered list of named
// columns, row-aligned.
type Table struct {
	DatasetID string   `json:"dataset_id"`
	Columns   []Column `json:"columns"`
}

// ColumnNames returns the table's column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or false when absent.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// RowCount returns the number of rows in the longest column.
func (t *Table) RowCount() int {
	rows := 0
	for _, c := range t.Columns {
		if len(c.Values) > rows {
			rows = len(c.Values)
		}
	}
	return rows
}
