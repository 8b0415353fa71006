// Package ui serves the server-rendered exploration pages: the filterable
// catalog, per-dataset plot sessions, and export download.
package ui

import (
	"log/slog"
	"net/http"

	gomponents "maragu.dev/gomponents"

	"softfocus/internal/middleware"
	"softfocus/internal/service/explorer"
	"softfocus/internal/service/export"
)

type Handler struct {
	Manager  *explorer.Manager
	Exporter *export.Exporter
	Logger   *slog.Logger
}

func NewHandler(manager *explorer.Manager, exporter *export.Exporter, logger *slog.Logger) *Handler {
	return &Handler{
		Manager:  manager,
		Exporter: exporter,
		Logger:   logger.With("component", "ui"),
	}
}

func (h *Handler) workspace(r *http.Request) *explorer.Workspace {
	return h.Manager.Get(middleware.OwnerFromContext(r.Context()))
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}
