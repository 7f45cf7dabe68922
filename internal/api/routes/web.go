package routes

import (
	"Branches/internal/api/middleware"
	"Branches/internal/core/browse"
	"Branches/internal/web"

	"github.com/go-chi/chi/v5"
)

// RegisterWebRoutes registers the HTML pages of the browser.
func RegisterWebRoutes(r chi.Router, service browse.Service, limiter *middleware.RateLimiter, version string) {
	// Initialize templates
	templates, err := web.NewTemplates()
	if err != nil {
		panic("failed to load web templates: " + err.Error())
	}

	handlers := web.NewHandlers(templates, service, version)

	// Search page
	r.Get("/", handlers.IndexHandler)
	r.Get("/about", handlers.AboutHandler)

	// Outcome pages; web+at:// links land here through the protocol handler
	if limiter != nil {
		r.With(limiter.Middleware).Get("/browse", handlers.BrowseHandler)
	} else {
		r.Get("/browse", handlers.BrowseHandler)
	}
}
