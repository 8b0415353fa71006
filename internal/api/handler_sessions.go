package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"softfocus/internal/domain"
	"softfocus/internal/service/explorer"
)

type sessionResponse struct {
	Dataset   string    `json:"dataset"`
	Columns   []string  `json:"columns"`
	X         string    `json:"x"`
	YPrimary  string    `json:"y_primary"`
	YSecond   string    `json:"y_secondary"`
	Transform string    `json:"transform,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionListResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type openSessionRequest struct {
	Dataset string `json:"dataset"`
}

type setActiveRequest struct {
	// Dataset empty means focus returns to the catalog view.
	Dataset string `json:"dataset"`
}

type axisRequest struct {
	Role   string `json:"role"`
	Column string `json:"column"`
}

type transformRequest struct {
	Expression string `json:"expression"`
}

type seriesResponse struct {
	Label string    `json:"label"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
}

type plotResponse struct {
	Dataset   string          `json:"dataset"`
	XLabel    string          `json:"x_label"`
	Primary   seriesResponse  `json:"primary"`
	Secondary *seriesResponse `json:"secondary,omitempty"`
	Legend    []string        `json:"legend"`
}

func sessionToAPI(s *explorer.PlotSession, active bool) sessionResponse {
	return sessionResponse{
		Dataset:   s.DatasetID,
		Columns:   s.Table.ColumnNames(),
		X:         s.Config.X,
		YPrimary:  s.Config.YPrimary,
		YSecond:   s.Config.YSecondary,
		Transform: s.Transform,
		Active:    active,
		CreatedAt: s.CreatedAt,
	}
}

func sessionsToAPI(ws *explorer.Workspace) sessionListResponse {
	active, _ := ws.ActiveSession()
	sessions := ws.Sessions()
	out := make([]sessionResponse, len(sessions))
	for i, s := range sessions {
		out[i] = sessionToAPI(s, s == active)
	}
	return sessionListResponse{Sessions: out}
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, sessionsToAPI(h.workspace(r)))
}

func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if err := decodeBody(r, &req); err != nil || req.Dataset == "" {
		h.writeError(w, domain.ErrValidation("dataset is required"))
		return
	}
	ws := h.workspace(r)
	s, err := ws.OpenSession(r.Context(), req.Dataset)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, sessionToAPI(s, true))
}

func (h *Handler) setActiveSession(w http.ResponseWriter, r *http.Request) {
	var req setActiveRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, domain.ErrValidation("invalid body: %v", err))
		return
	}
	ws := h.workspace(r)
	if err := ws.SetActive(req.Dataset); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sessionsToAPI(ws))
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	ws.CloseSession(chi.URLParam(r, "dataset"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setAxis(w http.ResponseWriter, r *http.Request) {
	var req axisRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, domain.ErrValidation("invalid body: %v", err))
		return
	}
	ws := h.workspace(r)
	dataset := chi.URLParam(r, "dataset")
	if err := ws.SetAxis(dataset, domain.AxisRole(req.Role), req.Column); err != nil {
		h.writeError(w, err)
		return
	}
	s, _ := ws.Session(dataset)
	h.writeJSON(w, http.StatusOK, sessionToAPI(s, false))
}

func (h *Handler) setTransform(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, domain.ErrValidation("invalid body: %v", err))
		return
	}
	ws := h.workspace(r)
	dataset := chi.URLParam(r, "dataset")
	if err := ws.SetTransform(dataset, req.Expression); err != nil {
		h.writeError(w, err)
		return
	}
	s, _ := ws.Session(dataset)
	h.writeJSON(w, http.StatusOK, sessionToAPI(s, false))
}

func (h *Handler) getPlot(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	spec, err := ws.BuildPlotSpec(chi.URLParam(r, "dataset"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp := plotResponse{
		Dataset: spec.DatasetID,
		XLabel:  spec.XLabel,
		Primary: seriesResponse{
			Label: spec.Primary.Label,
			X:     spec.Primary.X,
			Y:     spec.Primary.Y,
		},
		Legend: spec.Legend,
	}
	if spec.Secondary != nil {
		resp.Secondary = &seriesResponse{
			Label: spec.Secondary.Label,
			X:     spec.Secondary.X,
			Y:     spec.Secondary.Y,
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}
