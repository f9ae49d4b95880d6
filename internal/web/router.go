package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/edgard/studentpredictor/internal/logger"
)

// NewRouter wires the handler into the routes served by the front-end.
func NewRouter(h *Handler, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logger.Middleware(log))

	r.Get("/", h.showForm)
	r.Post("/predict", h.submitForm)
	r.Get("/clear", h.clearForm)
	r.Get("/model", h.showModel)
	r.Get("/history", h.showHistory)
	r.Get("/healthz", h.healthz)

	r.Route("/api", func(r chi.Router) {
		r.Post("/predict", h.apiPredict)
	})
	return r
}
