package catalog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"softfocus/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestFSSourceList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "b_run.csv", "time,temp,pressure\n1,20.5,3.1\n")
	writeFile(t, dir, "a_run.csv", "time,temp\n1,20.5\n")
	writeFile(t, dir, "notes.txt", "not a dataset")
	writeFile(t, dir, "empty.csv", "")

	src := NewFSSource(dir, discardLogger())
	descriptors, err := src.List(context.Background())
	require.NoError(t, err)
	require.Len(t, descriptors, 3, "txt files are skipped, empty csv is listed")

	// Directory order is name order.
	assert.Equal(t, "a_run.csv", descriptors[0].Name)
	assert.Equal(t, 2, descriptors[0].ColumnCount)
	assert.Equal(t, "b_run.csv", descriptors[1].Name)
	assert.Equal(t, 3, descriptors[1].ColumnCount)
	assert.False(t, descriptors[1].Incomplete)
	assert.Positive(t, descriptors[1].SizeBytes)
	assert.False(t, descriptors[1].ModifiedAt.IsZero())

	// Unreadable header is marked, not dropped.
	assert.Equal(t, "empty.csv", descriptors[2].Name)
	assert.Equal(t, -1, descriptors[2].ColumnCount)
	assert.True(t, descriptors[2].Incomplete)
}

func TestFSSourceListStartupErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		src := NewFSSource(filepath.Join(t.TempDir(), "absent"), discardLogger())
		_, err := src.List(context.Background())
		var serr *domain.StartupError
		require.ErrorAs(t, err, &serr)
	})

	t.Run("no csv files", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "readme.md", "nothing here")
		src := NewFSSource(dir, discardLogger())
		_, err := src.List(context.Background())
		var serr *domain.StartupError
		require.ErrorAs(t, err, &serr)
	})
}

func TestCSVLoaderLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "run.csv", "time,temp\n1,20.5\n2,21.0\n")
	loader := NewCSVLoader(dir)

	table, err := loader.Load(context.Background(), "run.csv")
	require.NoError(t, err)
	assert.Equal(t, "run.csv", table.DatasetID)
	assert.Equal(t, []string{"time", "temp"}, table.ColumnNames())
	assert.Equal(t, 2, table.RowCount())

	temp, ok := table.Column("temp")
	require.True(t, ok)
	assert.Equal(t, []string{"20.5", "21.0"}, temp.Values)
	v, ok := temp.Float(1)
	require.True(t, ok)
	assert.InDelta(t, 21.0, v, 1e-9)
}

func TestCSVLoaderLoadFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "ragged.csv", "a,b\n1,2\n3\n")
	loader := NewCSVLoader(dir)

	tests := []struct {
		name string
		id   string
	}{
		{name: "missing dataset", id: "absent.csv"},
		{name: "ragged rows not coerced", id: "ragged.csv"},
		{name: "path traversal rejected", id: "../run.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := loader.Load(context.Background(), tt.id)
			var lerr *domain.LoadError
			require.ErrorAs(t, err, &lerr)
			assert.Equal(t, tt.id, lerr.DatasetID)
		})
	}
}
