// Package catalog implements the catalog-source and dataset-loader
// collaborators over a folder of CSV measurement files.
package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"softfocus/internal/domain"
)

const datasetExt = ".csv"

// FSSource lists the CSV files of a directory as dataset descriptors.
type FSSource struct {
	dir    string
	logger *slog.Logger
}

// NewFSSource creates a catalog source over the given directory.
func NewFSSource(dir string, logger *slog.Logger) *FSSource {
	return &FSSource{dir: dir, logger: logger}
}

// List returns one descriptor per CSV file, in directory (name) order.
// A missing or unreadable directory, or a directory with no CSV files,
// is a StartupError — the application cannot proceed without datasets.
func (s *FSSource) List(ctx context.Context) ([]domain.DatasetDescriptor, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, domain.ErrStartup(fmt.Sprintf("catalog folder %s unreadable", s.dir), err)
	}

	var descriptors []domain.DatasetDescriptor
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), datasetExt) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			s.logger.Warn("stat dataset failed", "dataset", entry.Name(), "error", err)
			descriptors = append(descriptors, domain.DatasetDescriptor{
				Name:        entry.Name(),
				ColumnCount: -1,
				Incomplete:  true,
			})
			continue
		}

		desc := domain.DatasetDescriptor{
			Name:       entry.Name(),
			SizeBytes:  info.Size(),
			ModifiedAt: info.ModTime(),
		}
		cols, err := countColumns(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			// Listed with an explicit missing marker, not dropped.
			s.logger.Warn("read dataset header failed", "dataset", entry.Name(), "error", err)
			desc.ColumnCount = -1
			desc.Incomplete = true
		} else {
			desc.ColumnCount = cols
		}
		descriptors = append(descriptors, desc)
	}

	if len(descriptors) == 0 {
		return nil, domain.ErrStartup(fmt.Sprintf("no %s files found in %s", datasetExt, s.dir), nil)
	}
	return descriptors, nil
}

// countColumns reads the file's header record and returns its field count.
func countColumns(path string) (int, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from a listed dir entry
	if err != nil {
		return 0, err
	}
	defer f.Close() //nolint:errcheck

	header, err := csv.NewReader(f).Read()
	if err != nil {
		if err == io.EOF {
			return 0, fmt.Errorf("empty file")
		}
		return 0, err
	}
	return len(header), nil
}
