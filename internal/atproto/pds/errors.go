package pds

import (
	"errors"
	"fmt"
)

// Typed errors for PDS reads.
// These allow callers to use errors.Is() for reliable error detection
// instead of fragile string matching.
var (
	// ErrNotFound indicates the repository or record does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrBadRequest indicates the PDS rejected the request (HTTP 400).
	// PDSs answer unknown repos with 400 RepoNotFound as often as with 404.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized indicates the PDS wants credentials (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the PDS refused the read (HTTP 403).
	ErrForbidden = errors.New("forbidden")

	// ErrRateLimited indicates the PDS is throttling us (HTTP 429).
	ErrRateLimited = errors.New("rate limited")

	// ErrUpstream indicates the PDS failed (HTTP 5xx).
	ErrUpstream = errors.New("upstream error")

	// ErrNoHost indicates a read was attempted before Reconfigure.
	ErrNoHost = errors.New("no PDS host configured")
)

// RemoteErrorKind names which repository read failed
type RemoteErrorKind string

const (
	KindRepoNotFound    RemoteErrorKind = "RepoNotFound"
	KindRecordsNotFound RemoteErrorKind = "RecordsNotFound"
	KindRecordNotFound  RemoteErrorKind = "RecordNotFound"
)

// RemoteError is returned by every Client read. Kind is fixed by the
// operation; Cause carries the transport sentinel for diagnostics.
type RemoteError struct {
	Kind  RemoteErrorKind
	Host  string
	Cause error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s on %s: %v", e.Kind, e.Host, e.Cause)
}

func (e *RemoteError) Unwrap() error {
	return e.Cause
}

// IsRemoteError reports whether err came from a PDS read
func IsRemoteError(err error) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr)
}
