package routes

import (
	browseapi "Branches/internal/api/handlers/browse"
	"Branches/internal/api/middleware"
	"Branches/internal/core/browse"

	"github.com/go-chi/chi/v5"
)

// RegisterBrowseRoutes registers the browse XRPC endpoints.
// Each request triggers outbound resolution, so all of them sit behind the rate limiter.
func RegisterBrowseRoutes(r chi.Router, service browse.Service, limiter *middleware.RateLimiter) {
	handler := browseapi.NewHandler(service)

	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}

		// GET /xrpc/dev.branches.browse.resolve?uri=at://...
		r.Get("/xrpc/dev.branches.browse.resolve", handler.HandleResolve)

		// GET /xrpc/dev.branches.browse.getDidDoc?authority=...
		r.Get("/xrpc/dev.branches.browse.getDidDoc", handler.HandleGetDIDDoc)

		// GET /xrpc/dev.branches.browse.getServingHost?authority=...
		r.Get("/xrpc/dev.branches.browse.getServingHost", handler.HandleGetServingHost)
	})
}
