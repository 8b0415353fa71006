// Package app provides application-level wiring for the softfocus server.
package app

import (
	"context"
	"log/slog"

	"softfocus/internal/catalog"
	"softfocus/internal/config"
	"softfocus/internal/domain"
	"softfocus/internal/service/explorer"
	"softfocus/internal/service/export"
)

// Deps holds the external dependencies that main() must provide.
// Source and Loader default to the filesystem implementations over
// Cfg.DataDir when nil.
type Deps struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Source domain.CatalogSource
	Loader domain.DatasetLoader
}

// App holds the fully-wired application.
type App struct {
	Manager  *explorer.Manager
	Exporter *export.Exporter
	Cleaner  *export.Cleaner
}

// New scans the data directory and wires the workspace manager, exporter,
// and artifact cleaner. An empty or unreadable data directory is a startup
// error: a dashboard over nothing is a misconfiguration, not a state to
// serve.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg

	source := deps.Source
	if source == nil {
		source = catalog.NewFSSource(cfg.DataDir, deps.Logger.With("component", "catalog"))
	}
	index, err := source.List(ctx)
	if err != nil {
		return nil, err
	}
	deps.Logger.Info("catalog scanned", "dir", cfg.DataDir, "datasets", len(index))

	loader := deps.Loader
	if loader == nil {
		loader = catalog.NewCSVLoader(cfg.DataDir)
	}
	manager := explorer.NewManager(index, loader, deps.Logger, cfg.WorkspaceTTL)

	exporter, err := export.NewExporter(cfg.ArtifactDir, deps.Logger.With("component", "export"))
	if err != nil {
		return nil, err
	}
	cleaner := export.NewCleaner(cfg.ArtifactDir, cfg.RetentionAge, deps.Logger.With("component", "cleaner"))

	return &App{
		Manager:  manager,
		Exporter: exporter,
		Cleaner:  cleaner,
	}, nil
}
