package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bluesky-social/indigo/atproto/syntax"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("Branches/identity")

// baseResolver implements Resolver without any caching
type baseResolver struct {
	handles      HandleResolver
	handleMethod ResolutionMethod
	httpClient   *http.Client
	plcURL       string
}

// newBaseResolver creates a resolver that fetches documents with httpClient
func newBaseResolver(plcURL string, httpClient *http.Client, handles HandleResolver, handleMethod ResolutionMethod) *baseResolver {
	return &baseResolver{
		handles:      handles,
		handleMethod: handleMethod,
		httpClient:   httpClient,
		plcURL:       strings.TrimSuffix(plcURL, "/"),
	}
}

// ResolveDID returns the DID for an authority
func (r *baseResolver) ResolveDID(ctx context.Context, authority syntax.AtIdentifier) (syntax.DID, error) {
	if authority.IsDID() {
		did, err := authority.AsDID()
		if err != nil {
			return "", &ResolveError{Kind: KindInvalidIdentifier, Identifier: authority.String(), Cause: err}
		}
		return did, nil
	}

	if !authority.IsHandle() {
		return "", &ResolveError{Kind: KindInvalidIdentifier, Identifier: authority.String()}
	}
	handle, err := authority.AsHandle()
	if err != nil {
		return "", &ResolveError{Kind: KindInvalidIdentifier, Identifier: authority.String(), Cause: err}
	}

	ctx, span := tracer.Start(ctx, "Identity.ResolveHandle")
	defer span.End()
	span.SetAttributes(attribute.String("handle", handle.String()))

	did, err := r.handles.ResolveHandle(ctx, handle)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "handle resolution failed")
		return "", &ResolveError{Kind: KindHandleResolutionFailed, Identifier: handle.String(), Cause: err}
	}

	return did, nil
}

// FetchDocument retrieves the DID document for did
func (r *baseResolver) FetchDocument(ctx context.Context, did syntax.DID) (*DIDDocument, error) {
	docURL, err := documentURL(r.plcURL, did)
	if err != nil {
		// Unknown methods are never guessed at or sent anywhere.
		return nil, &DocumentError{DID: did.String(), Method: did.Method(), Cause: err}
	}

	ctx, span := tracer.Start(ctx, "Identity.FetchDocument")
	defer span.End()
	span.SetAttributes(
		attribute.String("did", did.String()),
		attribute.String("did.method", did.Method()),
	)

	doc, err := fetchDocument(ctx, r.httpClient, docURL, did)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "document fetch failed")
		return nil, &DocumentError{DID: did.String(), Method: did.Method(), Cause: err}
	}

	return doc, nil
}

// ResolveHost resolves authority all the way to its PDS
func (r *baseResolver) ResolveHost(ctx context.Context, authority syntax.AtIdentifier) (*Identity, error) {
	did, err := r.ResolveDID(ctx, authority)
	if err != nil {
		return nil, err
	}

	doc, err := r.FetchDocument(ctx, did)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedMethod):
			return nil, &ResolveError{
				Kind:       KindUnsupportedDIDMethod,
				Identifier: did.String(),
				Method:     did.Method(),
				Cause:      err,
			}
		case errors.Is(err, ErrInvalidWebDID):
			return nil, &ResolveError{Kind: KindInvalidIdentifier, Identifier: did.String(), Cause: err}
		}
		return nil, &ResolveError{Kind: KindDocumentFetchFailed, Identifier: did.String(), Cause: err}
	}

	pdsURL, ok := ExtractServingHost(doc)
	if !ok {
		return nil, &ResolveError{Kind: KindNoHostFound, Identifier: did.String()}
	}

	ident := &Identity{
		DID:        did.String(),
		PDSURL:     pdsURL,
		ResolvedAt: time.Now().UTC(),
		Method:     MethodPassthrough,
	}
	if authority.IsHandle() {
		ident.Handle = authority.String()
		ident.Method = r.handleMethod
	}

	return ident, nil
}
