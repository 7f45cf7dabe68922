package browse

import (
	"context"
	"errors"

	"Branches/internal/atproto/aturi"
	"Branches/internal/atproto/identity"
	"Branches/internal/atproto/pds"
)

// ErrorKind is the flat set of ways a pass can fail.
// Collaborators branch on it instead of on each package's error types.
type ErrorKind string

const (
	ErrorMissingAuthority       ErrorKind = "MissingAuthority"
	ErrorInvalidAuthority       ErrorKind = "InvalidAuthority"
	ErrorInvalidNSID            ErrorKind = "InvalidNsid"
	ErrorInvalidRecordKey       ErrorKind = "InvalidRecordKey"
	ErrorInvalidIdentifier      ErrorKind = "InvalidIdentifier"
	ErrorHandleResolutionFailed ErrorKind = "HandleResolutionFailed"
	ErrorUnsupportedDIDMethod   ErrorKind = "UnsupportedDidMethod"
	ErrorDocumentFetchFailed    ErrorKind = "DocumentFetchFailed"
	ErrorNoHostFound            ErrorKind = "NoHostFound"
	ErrorRepoNotFound           ErrorKind = "RepoNotFound"
	ErrorRecordsNotFound        ErrorKind = "RecordsNotFound"
	ErrorRecordNotFound         ErrorKind = "RecordNotFound"
	ErrorCanceled               ErrorKind = "Canceled"
	ErrorInternal               ErrorKind = "Internal"
)

// Classify maps any error returned by this package to its ErrorKind.
// A nil error has no kind and yields "".
func Classify(err error) ErrorKind {
	if err == nil {
		return ""
	}

	// Cancellation wins: whatever stage was interrupted, the cause is the caller.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorCanceled
	}

	switch {
	case errors.Is(err, aturi.ErrMissingAuthority):
		return ErrorMissingAuthority
	case errors.Is(err, aturi.ErrInvalidAuthority):
		return ErrorInvalidAuthority
	case errors.Is(err, aturi.ErrInvalidNSID):
		return ErrorInvalidNSID
	case errors.Is(err, aturi.ErrInvalidRecordKey):
		return ErrorInvalidRecordKey
	}

	if kind, ok := identity.KindOf(err); ok {
		switch kind {
		case identity.KindInvalidIdentifier:
			return ErrorInvalidIdentifier
		case identity.KindHandleResolutionFailed:
			return ErrorHandleResolutionFailed
		case identity.KindUnsupportedDIDMethod:
			return ErrorUnsupportedDIDMethod
		case identity.KindDocumentFetchFailed:
			return ErrorDocumentFetchFailed
		case identity.KindNoHostFound:
			return ErrorNoHostFound
		}
	}

	var docErr *identity.DocumentError
	if errors.As(err, &docErr) {
		switch {
		case errors.Is(err, identity.ErrUnsupportedMethod):
			return ErrorUnsupportedDIDMethod
		case errors.Is(err, identity.ErrInvalidWebDID):
			return ErrorInvalidIdentifier
		}
		return ErrorDocumentFetchFailed
	}

	var remoteErr *pds.RemoteError
	if errors.As(err, &remoteErr) {
		switch remoteErr.Kind {
		case pds.KindRepoNotFound:
			return ErrorRepoNotFound
		case pds.KindRecordsNotFound:
			return ErrorRecordsNotFound
		case pds.KindRecordNotFound:
			return ErrorRecordNotFound
		}
	}

	return ErrorInternal
}

// IsInputError reports whether kind blames the address itself rather than the network
func (k ErrorKind) IsInputError() bool {
	switch k {
	case ErrorMissingAuthority, ErrorInvalidAuthority, ErrorInvalidNSID,
		ErrorInvalidRecordKey, ErrorInvalidIdentifier:
		return true
	}
	return false
}
