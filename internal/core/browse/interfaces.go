package browse

import (
	"context"

	"Branches/internal/atproto/aturi"
	"Branches/internal/atproto/identity"
	"Branches/internal/atproto/pds"
)

// Service runs browse passes: one address in, one outcome or one error out.
// Every pass resolves the authority afresh; nothing is shared between passes.
type Service interface {
	// Browse resolves the address's authority to its PDS and performs the
	// single repository read the address calls for.
	Browse(ctx context.Context, addr aturi.Address) (*Outcome, error)

	// BrowseRaw parses raw and browses the result.
	BrowseRaw(ctx context.Context, raw string) (*Outcome, error)

	// DIDDocument resolves authority (a handle or DID, optionally with an
	// at:// prefix) and returns its identity document.
	DIDDocument(ctx context.Context, authority string) (*identity.DIDDocument, error)

	// ServingHost resolves authority and returns the identity with its PDS endpoint.
	ServingHost(ctx context.Context, authority string) (*identity.Identity, error)
}

// ClientFactory builds a fresh host-bound client for one pass.
// Clients produced by one factory should share an *http.Client.
type ClientFactory func() pds.Client
