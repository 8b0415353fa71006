package ui

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"softfocus/internal/ui/assets"
)

func MountRoutes(r chi.Router, h *Handler) {
	staticFS, err := fs.Sub(assets.StaticFS(), "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/ui/static/", http.FileServer(http.FS(staticFS))))
	}

	r.Get("/", h.CatalogPage)
	r.Post("/filter", h.FilterSubmit)
	r.Post("/select", h.SelectSubmit)

	r.Post("/sessions/open", h.SessionOpen)
	r.Get("/sessions/{dataset}", h.SessionPage)
	r.Post("/sessions/{dataset}/axes", h.AxisSubmit)
	r.Post("/sessions/{dataset}/transform", h.TransformSubmit)
	r.Post("/sessions/{dataset}/close", h.SessionClose)

	r.Post("/export", h.ExportSubmit)
	r.Get("/download", h.Download)
}
