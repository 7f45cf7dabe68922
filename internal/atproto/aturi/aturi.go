// Package aturi parses the addresses users type into the browser: full
// at:// URIs, web+at:// links handed over by the OS, bare handles and bare DIDs.
//
// Parsing is pure. No network access happens here; turning a handle into a
// DID is the identity package's job.
package aturi

import (
	"strings"

	"github.com/bluesky-social/indigo/atproto/syntax"
)

const (
	// Scheme is the protocol prefix every rendered address carries.
	Scheme = "at://"

	// LinkScheme wraps Scheme when an address arrives through an OS-level
	// protocol handler (e.g. a browser registerProtocolHandler("web+at", ...)).
	LinkScheme = "web+"
)

// Target says which repository read an address maps to.
type Target int

const (
	// TargetRepo is an authority-only address (describeRepo).
	TargetRepo Target = iota
	// TargetCollection is authority + collection (listRecords).
	TargetCollection
	// TargetRecord is authority + collection + record key (getRecord).
	TargetRecord
)

func (t Target) String() string {
	switch t {
	case TargetRepo:
		return "repo"
	case TargetCollection:
		return "collection"
	case TargetRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Address is a parsed at:// address.
//
// Collection and RecordKey are optional; their zero values mean "absent".
// A record key is never set without a collection.
type Address struct {
	Authority  syntax.AtIdentifier
	Collection syntax.NSID
	RecordKey  syntax.RecordKey
}

// Parse turns a raw user-supplied string into an Address.
//
// Accepted forms include:
//
//	at://alice.example/app.bsky.feed.post/3k2x
//	web+at://did:plc:abc123/app.bsky.actor.profile/self
//	alice.example
//	did:web:example.com/app.bsky.feed.like
//
// Both prefixes are optional. Segments past the third are ignored rather
// than rejected, so links carrying extra path data still resolve to the
// record they name.
func Parse(raw string) (Address, error) {
	rest := strings.TrimSpace(raw)
	rest = strings.TrimPrefix(rest, LinkScheme)
	rest = strings.TrimPrefix(rest, Scheme)

	segments := strings.SplitN(rest, "/", 4)

	var addr Address

	if segments[0] == "" {
		return Address{}, &Error{Kind: ErrMissingAuthority, Input: raw}
	}
	authority, err := syntax.ParseAtIdentifier(segments[0])
	if err != nil {
		return Address{}, &Error{Kind: ErrInvalidAuthority, Input: raw, Segment: segments[0], Err: err}
	}
	addr.Authority = *authority

	if len(segments) < 2 {
		return addr, nil
	}
	collection, err := syntax.ParseNSID(segments[1])
	if err != nil {
		return Address{}, &Error{Kind: ErrInvalidNSID, Input: raw, Segment: segments[1], Err: err}
	}
	addr.Collection = collection

	if len(segments) < 3 {
		return addr, nil
	}
	rkey, err := syntax.ParseRecordKey(segments[2])
	if err != nil {
		return Address{}, &Error{Kind: ErrInvalidRecordKey, Input: raw, Segment: segments[2], Err: err}
	}
	addr.RecordKey = rkey

	return addr, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(raw string) Address {
	addr, err := Parse(raw)
	if err != nil {
		panic("aturi: " + err.Error())
	}
	return addr
}

// HasCollection reports whether the address names a collection.
func (a Address) HasCollection() bool {
	return a.Collection != ""
}

// HasRecordKey reports whether the address names a single record.
func (a Address) HasRecordKey() bool {
	return a.RecordKey != ""
}

// Target returns the repository read this address selects.
func (a Address) Target() Target {
	switch {
	case a.HasCollection() && a.HasRecordKey():
		return TargetRecord
	case a.HasCollection():
		return TargetCollection
	default:
		return TargetRepo
	}
}

// DID returns the authority as a DID when it already is one.
func (a Address) DID() (syntax.DID, bool) {
	if !a.Authority.IsDID() {
		return "", false
	}
	did, err := a.Authority.AsDID()
	if err != nil {
		return "", false
	}
	return did, true
}

// String renders the address as at://authority[/collection[/rkey]].
// Parse(a.String()) yields a again.
func (a Address) String() string {
	var b strings.Builder
	b.WriteString(Scheme)
	b.WriteString(a.Authority.String())
	if a.HasCollection() {
		b.WriteByte('/')
		b.WriteString(a.Collection.String())
		if a.HasRecordKey() {
			b.WriteByte('/')
			b.WriteString(a.RecordKey.String())
		}
	}
	return b.String()
}
