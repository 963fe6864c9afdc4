// Package http serves the read-only HTTP view of the mirror.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(documentsV1 *DocumentsHandler) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", healthz)

	router.Route("/v1/users/{owner}", func(r chi.Router) {
		r.Use(documentsV1.requireOwner)
		r.Get("/{collection}", documentsV1.list)
	})

	return router
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
