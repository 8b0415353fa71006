package ui

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"softfocus/internal/domain"
)

const dateLayout = "2006-01-02"

func sessionURL(dataset string) string {
	return "/ui/sessions/" + url.PathEscape(dataset)
}

func (h *Handler) CatalogPage(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	renderHTML(w, http.StatusOK, catalogPage(ws))
}

// FilterSubmit applies the filter form. Invalid input lands in the workspace
// status line rather than an error page, matching the inline feedback of the
// catalog view.
func (h *Handler) FilterSubmit(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/ui", http.StatusSeeOther)
		return
	}

	fromRaw, toRaw := r.FormValue("from"), r.FormValue("to")
	if fromRaw != "" && toRaw != "" {
		from, err1 := time.Parse(dateLayout, fromRaw)
		to, err2 := time.Parse(dateLayout, toRaw)
		if err1 == nil && err2 == nil {
			_ = ws.SetDateRange(from, to)
		}
	}
	_ = ws.SetSizeSpec(r.FormValue("size"))
	_ = ws.SetNameFilter(r.FormValue("name"))

	http.Redirect(w, r, "/ui", http.StatusSeeOther)
}

func (h *Handler) SelectSubmit(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	_ = ws.Select(r.FormValue("dataset"))
	http.Redirect(w, r, "/ui", http.StatusSeeOther)
}

func (h *Handler) SessionOpen(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	dataset := r.FormValue("dataset")
	if _, err := ws.OpenSession(r.Context(), dataset); err != nil {
		http.Redirect(w, r, "/ui", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, sessionURL(dataset), http.StatusSeeOther)
}

func (h *Handler) SessionPage(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	dataset := chi.URLParam(r, "dataset")
	s, ok := ws.Session(dataset)
	if !ok {
		http.Redirect(w, r, "/ui", http.StatusSeeOther)
		return
	}
	_ = ws.SetActive(dataset)

	spec, err := ws.BuildPlotSpec(dataset)
	if err != nil {
		// Render the session controls with the failure in the status line so
		// the transform can be corrected in place.
		renderHTML(w, http.StatusOK, sessionPage(ws, s, nil))
		return
	}
	renderHTML(w, http.StatusOK, sessionPage(ws, s, spec))
}

func (h *Handler) AxisSubmit(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	dataset := chi.URLParam(r, "dataset")
	_ = ws.SetAxis(dataset, domain.AxisRole(r.FormValue("role")), r.FormValue("column"))
	http.Redirect(w, r, sessionURL(dataset), http.StatusSeeOther)
}

func (h *Handler) TransformSubmit(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	dataset := chi.URLParam(r, "dataset")
	_ = ws.SetTransform(dataset, r.FormValue("expression"))
	http.Redirect(w, r, sessionURL(dataset), http.StatusSeeOther)
}

func (h *Handler) SessionClose(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	ws.CloseSession(chi.URLParam(r, "dataset"))
	http.Redirect(w, r, "/ui", http.StatusSeeOther)
}

func (h *Handler) ExportSubmit(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	dataset := r.FormValue("dataset")
	back := "/ui"
	if dataset != "" {
		back = sessionURL(dataset)
	}

	spec, err := ws.BuildPlotSpec(dataset)
	if err != nil {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	owner := ws.ID
	if _, err := h.Exporter.Export(r.Context(), owner, spec); err != nil {
		h.Logger.Warn("export failed", "workspace", owner, "dataset", dataset, "error", err)
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(r)
	path, err := h.Exporter.Resolve(ws.ID)
	if err != nil {
		http.Redirect(w, r, "/ui", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="output.xlsx"`)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, path)
}
