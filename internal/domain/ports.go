package domain

import "context"

// CatalogSource lists the datasets available in the configured source.
// The core is agnostic to what backs it (filesystem walker today).
type CatalogSource interface {
	// List returns the ordered descriptor set. An empty or unreadable
	// source is a StartupError.
	List(ctx context.Context) ([]DatasetDescriptor, error)
}

// DatasetLoader reads one dataset's tabular content.
type DatasetLoader interface {
	// Load returns the dataset's columns, row-aligned. Failures are
	// reported as LoadError tagged with the dataset identifier.
	Load(ctx context.Context, datasetID string) (*Table, error)
}
