package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	atclient "github.com/bluesky-social/indigo/atproto/client"
	indigoIdentity "github.com/bluesky-social/indigo/atproto/identity"
	"github.com/bluesky-social/indigo/atproto/syntax"
)

// xrpcHandleResolver asks a discovery host to resolve handles through
// com.atproto.identity.resolveHandle. Any PDS or AppView answers this.
type xrpcHandleResolver struct {
	host       string
	httpClient *http.Client
}

// NewXRPCHandleResolver creates a HandleResolver backed by host's resolveHandle endpoint
func NewXRPCHandleResolver(host string, httpClient *http.Client) HandleResolver {
	return &xrpcHandleResolver{
		host:       strings.TrimSuffix(host, "/"),
		httpClient: httpClient,
	}
}

func (r *xrpcHandleResolver) ResolveHandle(ctx context.Context, handle syntax.Handle) (syntax.DID, error) {
	api := atclient.NewAPIClient(r.host)
	api.Client = r.httpClient

	var result struct {
		DID string `json:"did"`
	}
	params := map[string]any{
		"handle": handle.String(),
	}

	err := api.Get(ctx, syntax.NSID("com.atproto.identity.resolveHandle"), params, &result)
	if err != nil {
		return "", fmt.Errorf("resolveHandle via %s: %w", r.host, err)
	}

	did, err := syntax.ParseDID(result.DID)
	if err != nil {
		return "", fmt.Errorf("resolveHandle via %s returned invalid DID %q: %w", r.host, result.DID, err)
	}
	return did, nil
}

// directHandleResolver resolves handles the way a PDS would: DNS TXT on
// _atproto.<handle>, then https://<handle>/.well-known/atproto-did.
type directHandleResolver struct {
	base *indigoIdentity.BaseDirectory
}

// NewDirectHandleResolver creates a HandleResolver using Indigo's BaseDirectory
func NewDirectHandleResolver(plcURL string, httpClient *http.Client) HandleResolver {
	return &directHandleResolver{
		base: &indigoIdentity.BaseDirectory{
			PLCURL:     plcURL,
			HTTPClient: *httpClient,
		},
	}
}

func (r *directHandleResolver) ResolveHandle(ctx context.Context, handle syntax.Handle) (syntax.DID, error) {
	did, err := r.base.ResolveHandle(ctx, handle)
	if err != nil {
		return "", fmt.Errorf("direct handle resolution: %w", err)
	}
	return did, nil
}
