package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"softfocus/internal/domain"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o640))
}

func TestLoadReadsColumns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCSV(t, dir, "run.csv", "time,temp\n1,20.5\n2,21.0\n")

	table, err := NewCSVLoader(dir).Load(context.Background(), "run.csv")
	require.NoError(t, err)
	assert.Equal(t, "run.csv", table.DatasetID)
	require.Len(t, table.Columns, 2)
	assert.Equal(t, []string{"time", "temp"}, table.ColumnNames())
	assert.Equal(t, []string{"1", "2"}, table.Columns[0].Values)
	assert.Equal(t, []string{"20.5", "21.0"}, table.Columns[1].Values)
}

func TestLoadFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCSV(t, dir, "empty.csv", "")
	writeCSV(t, dir, "ragged.csv", "a,b\n1\n")

	tests := []struct {
		name      string
		datasetID string
	}{
		{name: "missing file", datasetID: "absent.csv"},
		{name: "empty file", datasetID: "empty.csv"},
		{name: "ragged rows", datasetID: "ragged.csv"},
		{name: "path traversal", datasetID: "../run.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewCSVLoader(dir).Load(context.Background(), tt.datasetID)
			var lerr *domain.LoadError
			require.ErrorAs(t, err, &lerr)
			assert.Equal(t, tt.datasetID, lerr.DatasetID)
		})
	}
}
