package identity

import (
	"context"

	"github.com/bluesky-social/indigo/atproto/syntax"
)

// Resolver turns the authority of an address into a DID and a serving host
type Resolver interface {
	// ResolveDID returns the DID for an authority.
	// A DID authority is returned unchanged without any network call;
	// a handle goes through the configured HandleResolver.
	ResolveDID(ctx context.Context, authority syntax.AtIdentifier) (syntax.DID, error)

	// FetchDocument retrieves the public DID document.
	// did:plc is read from the PLC directory, did:web from the domain's
	// /.well-known/did.json. Other methods fail with ErrUnsupportedMethod.
	FetchDocument(ctx context.Context, did syntax.DID) (*DIDDocument, error)

	// ResolveHost runs ResolveDID, FetchDocument and ExtractServingHost in order.
	// Callers invoke it before every remote read; hosts are not assumed stable.
	ResolveHost(ctx context.Context, authority syntax.AtIdentifier) (*Identity, error)
}

// HandleResolver maps a handle to the DID it claims
type HandleResolver interface {
	ResolveHandle(ctx context.Context, handle syntax.Handle) (syntax.DID, error)
}
