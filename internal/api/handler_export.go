package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"softfocus/internal/domain"
	"softfocus/internal/middleware"
)

type exportRequest struct {
	// Dataset empty exports the active plot session.
	Dataset string `json:"dataset"`
}

type exportResponse struct {
	Dataset   string    `json:"dataset"`
	Version   uint8     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) exportArtifact(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	// An empty body exports the active session.
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, domain.ErrValidation("invalid body: %v", err))
		return
	}
	ws := h.workspace(r)

	dataset := req.Dataset
	if dataset == "" {
		active, ok := ws.ActiveSession()
		if !ok {
			h.writeError(w, domain.ErrNoSelection("no active plot session to export"))
			return
		}
		dataset = active.DatasetID
	}

	spec, err := ws.BuildPlotSpec(dataset)
	if err != nil {
		h.writeError(w, err)
		return
	}
	owner := middleware.OwnerFromContext(r.Context())
	art, err := h.exporter.Export(r.Context(), owner, spec)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, exportResponse{
		Dataset:   art.DatasetID,
		Version:   art.Version,
		CreatedAt: art.CreatedAt,
	})
}

func (h *Handler) downloadArtifact(w http.ResponseWriter, r *http.Request) {
	owner := middleware.OwnerFromContext(r.Context())
	path, err := h.exporter.Resolve(owner)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="output.xlsx"`)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, path)
}
