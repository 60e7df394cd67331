// Package api serves search result pages over HTTP using chi.
package api

import (
	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with the search routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(svc *Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/search", h.Search)

	return r
}
