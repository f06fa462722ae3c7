package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)

	// scraped every few seconds, kept out of the access log
	router.Get("/metrics", h.metrics.ServeHTTP)

	router.Group(func(r chi.Router) {
		r.Use(h.withLogging)

		r.Get("/health", h.getHealth)
		r.Get("/version", h.getVersion)
		r.Post("/resync", h.resync)
		r.Post("/trigger", h.trigger)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
