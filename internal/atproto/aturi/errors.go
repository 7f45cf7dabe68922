package aturi

import (
	"errors"
	"fmt"
)

// Sentinel errors for address parsing.
// Callers match these with errors.Is; the concrete value is always *Error.
var (
	// ErrMissingAuthority indicates the address had no authority segment at all.
	ErrMissingAuthority = errors.New("missing authority")

	// ErrInvalidAuthority indicates the authority is neither a handle nor a DID.
	ErrInvalidAuthority = errors.New("invalid authority")

	// ErrInvalidNSID indicates the collection segment is not a valid NSID.
	ErrInvalidNSID = errors.New("invalid collection NSID")

	// ErrInvalidRecordKey indicates the record key segment is malformed.
	ErrInvalidRecordKey = errors.New("invalid record key")
)

// Error describes why a raw address could not be parsed.
type Error struct {
	// Kind is one of the sentinel errors above.
	Kind error
	// Input is the raw address as supplied by the caller.
	Input string
	// Segment is the offending path segment (empty for ErrMissingAuthority).
	Segment string
	// Err is the underlying syntax error, if any.
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%v %q: %v", e.Kind, e.Segment, e.Err)
	case e.Segment != "":
		return fmt.Sprintf("%v %q", e.Kind, e.Segment)
	default:
		return fmt.Sprintf("%v in %q", e.Kind, e.Input)
	}
}

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsAddressError returns true if err came from Parse.
func IsAddressError(err error) bool {
	var addrErr *Error
	return errors.As(err, &addrErr)
}
