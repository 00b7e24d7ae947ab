package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the router.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/version", h.getServerVersion)
		r.Post("/api/auth/token", h.createToken)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		// the stream outlives any request timeout
		r.Get("/api/realtime/{kind}", h.stream)

		r.Group(func(r chi.Router) {
			if h.requestTimeout > 0 {
				r.Use(middleware.Timeout(h.requestTimeout))
			}

			r.Post("/api/entities/{kind}/pull", h.pull)
			r.Put("/api/entities/{kind}", h.push)
			r.Post("/api/entities/{kind}/delete", h.pop)

			r.Post("/api/realtime/{kind}/sessions/{session}/subscriptions", h.subscribe)
			r.Delete("/api/realtime/{kind}/sessions/{session}/subscriptions", h.unsubscribe)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
