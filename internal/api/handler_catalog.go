package api

import (
	"net/http"
	"time"

	"softfocus/internal/domain"
	"softfocus/internal/service/explorer"
)

// dateLayout is the wire format for filter date bounds.
const dateLayout = "2006-01-02"

type datasetResponse struct {
	Name        string    `json:"name"`
	SizeBytes   int64     `json:"size_bytes"`
	SizeKB      int64     `json:"size_kb"`
	ModifiedAt  time.Time `json:"modified_at"`
	ColumnCount int       `json:"column_count"`
	Incomplete  bool      `json:"incomplete,omitempty"`
}

type catalogResponse struct {
	Datasets  []datasetResponse `json:"datasets"`
	Selection string            `json:"selection,omitempty"`
	CanPlot   bool              `json:"can_plot"`
	Filter    filterResponse    `json:"filter"`
}

type filterResponse struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	Size string    `json:"size,omitempty"`
	Name string    `json:"name,omitempty"`
}

type filterRequest struct {
	From *string `json:"from"`
	To   *string `json:"to"`
	Size *string `json:"size"`
	Name *string `json:"name"`
}

type selectRequest struct {
	Dataset string `json:"dataset"`
}

type statusResponse struct {
	State   string `json:"state"`
	Message string `json:"message,omitempty"`
}

func datasetToAPI(d domain.DatasetDescriptor) datasetResponse {
	return datasetResponse{
		Name:        d.Name,
		SizeBytes:   d.SizeBytes,
		SizeKB:      d.SizeKB(),
		ModifiedAt:  d.ModifiedAt,
		ColumnCount: d.ColumnCount,
		Incomplete:  d.Incomplete,
	}
}

func (h *Handler) catalogToAPI(w *explorer.Workspace) catalogResponse {
	view := w.View()
	out := make([]datasetResponse, len(view))
	for i, d := range view {
		out[i] = datasetToAPI(d)
	}
	selection, _ := w.Selection()
	f := w.Filter()
	resp := catalogResponse{
		Datasets:  out,
		Selection: selection,
		CanPlot:   w.CanPlot(),
		Filter: filterResponse{
			From: f.From,
			To:   f.To,
			Name: f.Name,
		},
	}
	if f.Size != nil {
		resp.Filter.Size = f.Size.String()
	}
	return resp
}

func (h *Handler) getCatalog(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	h.writeJSON(w, http.StatusOK, h.catalogToAPI(ws))
}

func (h *Handler) setFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, domain.ErrValidation("invalid filter body: %v", err))
		return
	}
	ws := h.workspace(r)

	if req.From != nil || req.To != nil {
		if req.From == nil || req.To == nil {
			h.writeError(w, domain.ErrValidation("date filter requires both from and to"))
			return
		}
		from, err := time.Parse(dateLayout, *req.From)
		if err != nil {
			h.writeError(w, domain.ErrValidation("invalid from date %q", *req.From))
			return
		}
		to, err := time.Parse(dateLayout, *req.To)
		if err != nil {
			h.writeError(w, domain.ErrValidation("invalid to date %q", *req.To))
			return
		}
		if err := ws.SetDateRange(from, to); err != nil {
			h.writeError(w, err)
			return
		}
	}
	if req.Size != nil {
		if err := ws.SetSizeSpec(*req.Size); err != nil {
			h.writeError(w, err)
			return
		}
	}
	if req.Name != nil {
		if err := ws.SetNameFilter(*req.Name); err != nil {
			h.writeError(w, err)
			return
		}
	}
	h.writeJSON(w, http.StatusOK, h.catalogToAPI(ws))
}

func (h *Handler) selectDataset(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeBody(r, &req); err != nil || req.Dataset == "" {
		h.writeError(w, domain.ErrValidation("dataset is required"))
		return
	}
	ws := h.workspace(r)
	if err := ws.Select(req.Dataset); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.catalogToAPI(ws))
}

func (h *Handler) deselectDataset(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	if err := ws.Deselect(); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.catalogToAPI(ws))
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	st := h.workspace(r).Status()
	h.writeJSON(w, http.StatusOK, statusResponse{
		State:   st.State,
		Message: st.Message,
	})
}
