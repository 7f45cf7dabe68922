package identity

import (
	"errors"
	"fmt"
)

// Causes attached to a DocumentError.
var (
	// ErrUnsupportedMethod is returned for DID methods other than plc and web.
	// No request is made for them.
	ErrUnsupportedMethod = errors.New("unsupported DID method")

	// ErrInvalidWebDID is returned for did:web identifiers that do not name a bare host.
	ErrInvalidWebDID = errors.New("invalid did:web identifier")

	// ErrUnexpectedStatus is returned when the document host answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrMalformedDocument is returned when the body decodes but is not a document for the requested DID.
	ErrMalformedDocument = errors.New("malformed DID document")
)

// ResolveErrorKind classifies why an authority could not be resolved to a host
type ResolveErrorKind string

const (
	KindInvalidIdentifier      ResolveErrorKind = "InvalidIdentifier"
	KindHandleResolutionFailed ResolveErrorKind = "HandleResolutionFailed"
	KindUnsupportedDIDMethod   ResolveErrorKind = "UnsupportedDidMethod"
	KindDocumentFetchFailed    ResolveErrorKind = "DocumentFetchFailed"
	KindNoHostFound            ResolveErrorKind = "NoHostFound"
)

// ResolveError is returned by ResolveDID and ResolveHost.
// The cause is kept for diagnostics; callers branch on Kind.
type ResolveError struct {
	Kind       ResolveErrorKind
	Identifier string
	Method     string // DID method, set for KindUnsupportedDIDMethod
	Cause      error
}

func (e *ResolveError) Error() string {
	switch e.Kind {
	case KindInvalidIdentifier:
		return fmt.Sprintf("invalid identifier %q", e.Identifier)
	case KindHandleResolutionFailed:
		return fmt.Sprintf("failed to resolve handle %s: %v", e.Identifier, e.Cause)
	case KindUnsupportedDIDMethod:
		return fmt.Sprintf("unsupported DID method %q for %s", e.Method, e.Identifier)
	case KindDocumentFetchFailed:
		return fmt.Sprintf("failed to fetch DID document for %s: %v", e.Identifier, e.Cause)
	case KindNoHostFound:
		return fmt.Sprintf("no PDS endpoint found for %s", e.Identifier)
	default:
		return fmt.Sprintf("resolution failed for %s: %v", e.Identifier, e.Cause)
	}
}

func (e *ResolveError) Unwrap() error {
	return e.Cause
}

// DocumentError is returned by FetchDocument. Unsupported methods, transport
// failures, decode failures and malformed documents all land here; the
// originating cause is attached.
type DocumentError struct {
	DID    string
	Method string
	Cause  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("DID document for %s: %v", e.DID, e.Cause)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// KindOf returns the ResolveErrorKind carried by err, if any.
func KindOf(err error) (ResolveErrorKind, bool) {
	var resolveErr *ResolveError
	if errors.As(err, &resolveErr) {
		return resolveErr.Kind, true
	}
	return "", false
}
