package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// every route requires a verified owner identity
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/sync/logbook", h.syncLogbook)

		r.Get("/api/logbook", h.listEntries)
		r.Post("/api/logbook", h.createEntry)
		r.Delete("/api/logbook/{id}", h.deleteEntry)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
