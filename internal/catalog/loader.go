package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"softfocus/internal/domain"
)

// CSVLoader reads one dataset file into row-aligned named columns.
type CSVLoader struct {
	dir string
}

// NewCSVLoader creates a dataset loader over the given directory.
func NewCSVLoader(dir string) *CSVLoader {
	return &CSVLoader{dir: dir}
}

// Load reads the dataset's CSV content. Malformed rows (ragged field
// counts, bad quoting) are not coerced — the whole load fails with a
// LoadError tagged with the dataset identifier.
func (l *CSVLoader) Load(ctx context.Context, datasetID string) (*domain.Table, error) {
	if filepath.Base(datasetID) != datasetID {
		return nil, domain.ErrLoad(datasetID, fmt.Errorf("invalid dataset identifier"))
	}

	f, err := os.Open(filepath.Join(l.dir, datasetID)) //nolint:gosec // id restricted to a bare file name above
	if err != nil {
		return nil, domain.ErrLoad(datasetID, err)
	}
	defer f.Close() //nolint:errcheck

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, domain.ErrLoad(datasetID, err)
	}
	if len(records) < 1 {
		return nil, domain.ErrLoad(datasetID, fmt.Errorf("empty file"))
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	header := records[0]
	rows := records[1:]
	columns := make([]domain.Column, len(header))
	for i, name := range header {
		values := make([]string, len(rows))
		for j, row := range rows {
			values[j] = row[i]
		}
		columns[i] = domain.Column{Name: name, Values: values}
	}

	return &domain.Table{DatasetID: datasetID, Columns: columns}, nil
}
