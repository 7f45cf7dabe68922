package browse

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"Branches/internal/atproto/pds"
	"Branches/internal/core/browse"
)

// ErrorResponse represents an XRPC error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errorType,
		Message: message,
	}); err != nil {
		// Log encoding errors but can't send error response (headers already sent)
		log.Printf("ERROR: Failed to encode error response: %v", err)
	}
}

// StatusFor maps an error kind to the HTTP status returned for it
func StatusFor(kind browse.ErrorKind) int {
	switch kind {
	case browse.ErrorMissingAuthority, browse.ErrorInvalidAuthority, browse.ErrorInvalidNSID,
		browse.ErrorInvalidRecordKey, browse.ErrorInvalidIdentifier, browse.ErrorUnsupportedDIDMethod:
		return http.StatusBadRequest
	case browse.ErrorHandleResolutionFailed, browse.ErrorNoHostFound,
		browse.ErrorRepoNotFound, browse.ErrorRecordsNotFound, browse.ErrorRecordNotFound:
		return http.StatusNotFound
	case browse.ErrorDocumentFetchFailed:
		return http.StatusBadGateway
	case browse.ErrorCanceled:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// MessageFor returns the client-facing message for kind.
// Causes stay in the logs; they can name internal hosts and transport details.
func MessageFor(kind browse.ErrorKind) string {
	switch kind {
	case browse.ErrorMissingAuthority:
		return "The address has no authority"
	case browse.ErrorInvalidAuthority:
		return "The authority is not a valid handle or DID"
	case browse.ErrorInvalidNSID:
		return "The collection is not a valid NSID"
	case browse.ErrorInvalidRecordKey:
		return "The record key is not valid"
	case browse.ErrorInvalidIdentifier:
		return "The identifier cannot be resolved as given"
	case browse.ErrorHandleResolutionFailed:
		return "The handle could not be resolved to a DID"
	case browse.ErrorUnsupportedDIDMethod:
		return "The DID method is not supported"
	case browse.ErrorDocumentFetchFailed:
		return "The DID document could not be fetched"
	case browse.ErrorNoHostFound:
		return "The DID document names no PDS"
	case browse.ErrorRepoNotFound:
		return "The repository was not found on its PDS"
	case browse.ErrorRecordsNotFound:
		return "The collection could not be listed on its PDS"
	case browse.ErrorRecordNotFound:
		return "The record was not found on its PDS"
	case browse.ErrorCanceled:
		return "Resolution did not finish in time"
	default:
		return "An internal error occurred"
	}
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	kind := browse.Classify(err)
	status := StatusFor(kind)

	// A PDS that is down or throttling is not proof the record is missing.
	if errors.Is(err, pds.ErrUpstream) || errors.Is(err, pds.ErrRateLimited) {
		status = http.StatusBadGateway
	}

	switch {
	case status == http.StatusInternalServerError:
		// Internal server error - don't leak details
		log.Printf("ERROR: Browse service error: %v", err)
		writeError(w, status, "InternalServerError", MessageFor(kind))
	case status == http.StatusBadGateway && kind != browse.ErrorDocumentFetchFailed:
		log.Printf("[BROWSE-HANDLER] Upstream failure: %v", err)
		writeError(w, status, string(kind), "An upstream server failed to answer")
	default:
		log.Printf("[BROWSE-HANDLER] %s: %v", kind, err)
		writeError(w, status, string(kind), MessageFor(kind))
	}
}
