package browse

import (
	"encoding/json"
	"log"
	"net/http"

	"Branches/internal/core/browse"
)

// maxInputLength bounds query parameters to prevent DoS via massive strings.
// Max DID length is 2048 chars; collection and record key add at most a few hundred.
const maxInputLength = 4096

// Handler serves the browse XRPC endpoints
type Handler struct {
	service browse.Service
}

// NewHandler creates a new browse handler
func NewHandler(service browse.Service) *Handler {
	return &Handler{service: service}
}

// HandleResolve runs one browse pass
// GET /xrpc/dev.branches.browse.resolve?uri=at://alice.bsky.social/app.bsky.feed.post
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uri := r.URL.Query().Get("uri")
	if len(uri) > maxInputLength {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "uri parameter exceeds maximum length")
		return
	}

	outcome, err := h.service.BrowseRaw(r.Context(), uri)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, NewResolveResponse(outcome))
}

// HandleGetDIDDoc returns the identity document for an authority
// GET /xrpc/dev.branches.browse.getDidDoc?authority=alice.bsky.social
func (h *Handler) HandleGetDIDDoc(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	authority := r.URL.Query().Get("authority")
	if len(authority) > maxInputLength {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "authority parameter exceeds maximum length")
		return
	}

	doc, err := h.service.DIDDocument(r.Context(), authority)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, doc)
}

// HandleGetServingHost returns the PDS an authority is served from
// GET /xrpc/dev.branches.browse.getServingHost?authority=did:plc:abc123
func (h *Handler) HandleGetServingHost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	authority := r.URL.Query().Get("authority")
	if len(authority) > maxInputLength {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "authority parameter exceeds maximum length")
		return
	}

	ident, err := h.service.ServingHost(r.Context(), authority)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, NewIdentityView(ident))
}

// writeJSON pre-encodes v so an encoding failure can still become a proper error
func writeJSON(w http.ResponseWriter, v any) {
	responseBytes, err := json.Marshal(v)
	if err != nil {
		log.Printf("ERROR: Failed to encode browse response: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError", "Failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(responseBytes); err != nil {
		log.Printf("ERROR: Failed to write browse response: %v", err)
	}
}
