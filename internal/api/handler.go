// Package api provides the JSON HTTP interface over workspaces, plot
// sessions, and export artifacts.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"softfocus/internal/middleware"
	"softfocus/internal/service/explorer"
	"softfocus/internal/service/export"
)

// Handler serves the REST API.
type Handler struct {
	manager  *explorer.Manager
	exporter *export.Exporter
	logger   *slog.Logger
}

// NewHandler creates a Handler over the workspace manager and exporter.
func NewHandler(manager *explorer.Manager, exporter *export.Exporter, logger *slog.Logger) *Handler {
	return &Handler{
		manager:  manager,
		exporter: exporter,
		logger:   logger.With("component", "api"),
	}
}

// Routes mounts all API endpoints on a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/catalog", h.getCatalog)
	r.Post("/catalog/filter", h.setFilter)
	r.Post("/catalog/select", h.selectDataset)
	r.Delete("/catalog/select", h.deselectDataset)
	r.Get("/status", h.getStatus)

	r.Get("/sessions", h.listSessions)
	r.Post("/sessions", h.openSession)
	r.Post("/sessions/active", h.setActiveSession)
	r.Delete("/sessions/{dataset}", h.closeSession)
	r.Post("/sessions/{dataset}/axes", h.setAxis)
	r.Post("/sessions/{dataset}/transform", h.setTransform)
	r.Get("/sessions/{dataset}/plot", h.getPlot)

	r.Post("/export", h.exportArtifact)
	r.Get("/export/download", h.downloadArtifact)

	return r
}

// workspace resolves the caller's workspace from the session cookie identity.
func (h *Handler) workspace(r *http.Request) *explorer.Workspace {
	return h.manager.Get(middleware.OwnerFromContext(r.Context()))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("encode response failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := httpStatusFromDomainError(err)
	if code == http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}
	h.writeJSON(w, code, errorResponse{Code: code, Message: err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close() //nolint:errcheck
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
