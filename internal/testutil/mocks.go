// Package testutil provides hand-written mocks for domain ports.
package testutil

import (
	"context"

	"softfocus/internal/domain"
)

// MockCatalogSource implements domain.CatalogSource with pluggable behavior.
type MockCatalogSource struct {
	ListFn func(ctx context.Context) ([]domain.DatasetDescriptor, error)
}

func (m *MockCatalogSource) List(ctx context.Context) ([]domain.DatasetDescriptor, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

// MockDatasetLoader implements domain.DatasetLoader with pluggable behavior.
// Calls records every dataset identifier passed to Load.
type MockDatasetLoader struct {
	LoadFn func(ctx context.Context, datasetID string) (*domain.Table, error)
	Calls  []string
}

func (m *MockDatasetLoader) Load(ctx context.Context, datasetID string) (*domain.Table, error) {
	m.Calls = append(m.Calls, datasetID)
	if m.LoadFn != nil {
		return m.LoadFn(ctx, datasetID)
	}
	return nil, domain.ErrLoad(datasetID, context.Canceled)
}

// Compile-time interface checks.
var (
	_ domain.CatalogSource = (*MockCatalogSource)(nil)
	_ domain.DatasetLoader = (*MockDatasetLoader)(nil)
)
