// Package export materializes per-owner spreadsheet artifacts from plotted
// series and reclaims stale ones on a schedule.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"softfocus/internal/domain"
)

// Exporter writes one xlsx artifact per owner session into the artifact
// directory. The per-owner path is deterministic, so a re-export overwrites
// (delete first, then write) rather than accumulating files.
type Exporter struct {
	dir    string
	logger *slog.Logger

	mu       sync.Mutex
	versions map[string]uint8 // owner id -> last emitted version token
}

// NewExporter creates an exporter over the artifact directory, creating the
// directory if needed.
func NewExporter(dir string, logger *slog.Logger) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create artifact dir %s: %w", dir, err)
	}
	return &Exporter{
		dir:      dir,
		logger:   logger,
		versions: make(map[string]uint8),
	}, nil
}

// ArtifactPath returns the owner's deterministic artifact location.
func (e *Exporter) ArtifactPath(ownerID string) string {
	return filepath.Join(e.dir, ownerID+domain.ArtifactSuffix)
}

// Export serializes the plot's primary series to the owner's artifact slot.
// A secondary series is never exported. Any prior artifact at the path is
// deleted first so a stale file is never served after a failed write. On
// success the owner's version token flips, signalling the delivery
// collaborator that a new artifact is ready.
func (e *Exporter) Export(ctx context.Context, ownerID string, spec *domain.PlotSpec) (*domain.ExportArtifact, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	path := e.ArtifactPath(ownerID)

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, domain.ErrExport(fmt.Errorf("remove prior artifact: %w", err))
	}

	if err := writeWorkbook(path, spec); err != nil {
		return nil, domain.ErrExport(err)
	}

	e.mu.Lock()
	version := 1 - e.versions[ownerID]
	e.versions[ownerID] = version
	e.mu.Unlock()

	e.logger.Info("artifact exported",
		"owner", ownerID,
		"dataset", spec.DatasetID,
		"rows", len(spec.Primary.X),
		"version", version,
	)
	return &domain.ExportArtifact{
		OwnerID:   ownerID,
		DatasetID: spec.DatasetID,
		Path:      path,
		CreatedAt: time.Now(),
		Version:   version,
	}, nil
}

// Resolve returns the owner's current artifact path, or NotFoundError when
// no export has occurred yet for that owner.
func (e *Exporter) Resolve(ownerID string) (string, error) {
	path := e.ArtifactPath(ownerID)
	if _, err := os.Stat(path); err != nil {
		return "", domain.ErrNotFound("no artifact for session %s", ownerID)
	}
	return path, nil
}

// Version returns the owner's current version token.
func (e *Exporter) Version(ownerID string) uint8 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.versions[ownerID]
}

func writeWorkbook(path string, spec *domain.PlotSpec) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	sheet := sheetName(spec.DatasetID)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	if err := f.SetCellValue(sheet, "A1", spec.XLabel); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "B1", spec.Primary.Label); err != nil {
		return err
	}
	for i := range spec.Primary.X {
		xCell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		yCell, err := excelize.CoordinatesToCellName(2, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, xCell, spec.Primary.X[i]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, yCell, spec.Primary.Y[i]); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// sheetName derives a legal sheet name from the dataset identifier: the
// "data_" prefix of the original naming, illegal characters replaced, and
// truncated to the 31-character sheet-name limit.
func sheetName(datasetID string) string {
	base := strings.TrimSuffix(datasetID, filepath.Ext(datasetID))
	name := "data_" + base
	replacer := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")
	name = replacer.Replace(name)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
