package web

import (
	"log/slog"
	"net/http"

	browseapi "Branches/internal/api/handlers/browse"
	"Branches/internal/core/browse"
)

// Handlers provides HTTP handlers for the browser web interface.
type Handlers struct {
	templates *Templates
	service   browse.Service
	version   string
}

// NewHandlers creates a new Handlers instance with the provided dependencies.
func NewHandlers(templates *Templates, service browse.Service, version string) *Handlers {
	return &Handlers{
		templates: templates,
		service:   service,
		version:   version,
	}
}

// SearchPageData holds data for the search page template.
type SearchPageData struct {
	// Title is the page title
	Title string
	// Query pre-fills the search box
	Query string
	// Examples are sample addresses shown under the search box
	Examples []Link
}

// ErrorPageData holds data for a failed pass.
type ErrorPageData struct {
	Title   string
	Query   string
	Kind    string
	Message string
	Status  int
}

// AboutPageData holds data for the about page.
type AboutPageData struct {
	Title   string
	Query   string
	Version string
}

var searchExamples = []string{
	"at://bsky.app",
	"at://bsky.app/app.bsky.feed.post",
	"at://did:plc:z72i7hdynmk6r22z27h6tvur/app.bsky.actor.profile/self",
}

// IndexHandler handles GET / requests and renders the search page.
func (h *Handlers) IndexHandler(w http.ResponseWriter, r *http.Request) {
	// Only handle exact root path - let other routes handle their own paths
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := SearchPageData{
		Title: "Branches - AT Protocol browser",
		Query: r.URL.Query().Get("uri"),
	}
	for _, example := range searchExamples {
		data.Examples = append(data.Examples, Link{Label: example, Href: browseHref(example)})
	}

	if err := h.templates.Render(w, "index.html", data); err != nil {
		slog.Error("failed to render search page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// BrowseHandler runs one pass and renders its outcome.
// GET /browse?uri=at://alice.bsky.social/app.bsky.feed.post
// Links opened through the web+at protocol handler land here too.
func (h *Handlers) BrowseHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("uri")
	if query == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	outcome, err := h.service.BrowseRaw(r.Context(), query)
	if err != nil {
		h.renderError(w, query, err)
		return
	}

	data := newBrowsePageData(query, outcome)
	if err := h.templates.Render(w, "browse.html", data); err != nil {
		slog.Error("failed to render browse page", "uri", query, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// AboutHandler renders the about page.
func (h *Handlers) AboutHandler(w http.ResponseWriter, r *http.Request) {
	data := AboutPageData{Title: "About Branches", Version: h.version}
	if err := h.templates.Render(w, "about.html", data); err != nil {
		slog.Error("failed to render about page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handlers) renderError(w http.ResponseWriter, query string, err error) {
	kind := browse.Classify(err)
	status := browseapi.StatusFor(kind)

	data := ErrorPageData{
		Title:  "Could not open " + query,
		Query:  query,
		Kind:   string(kind),
		Status: status,
	}
	if status == http.StatusInternalServerError {
		slog.Error("browse pass failed", "uri", query, "error", err)
	} else {
		slog.Warn("browse pass failed", "uri", query, "kind", kind, "error", err)
	}
	data.Message = browseapi.MessageFor(kind)

	if renderErr := h.templates.RenderStatus(w, status, "error.html", data); renderErr != nil {
		slog.Error("failed to render error page", "error", renderErr)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
