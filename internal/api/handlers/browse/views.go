package browse

import (
	"time"

	"Branches/internal/atproto/identity"
	"Branches/internal/atproto/pds"
	"Branches/internal/core/browse"
)

// IdentityView is the JSON form of a resolved identity
type IdentityView struct {
	ResolvedAt time.Time `json:"resolvedAt"`
	DID        string    `json:"did"`
	Handle     string    `json:"handle,omitempty"`
	PDS        string    `json:"pds"`
	Method     string    `json:"method"`
}

// ResolveResponse is the JSON form of an Outcome.
// Kind says which one of Repo, Records or Record is present.
type ResolveResponse struct {
	Identity IdentityView         `json:"identity"`
	Repo     *pds.RepoDescription `json:"repo,omitempty"`
	Records  *pds.RecordPage      `json:"records,omitempty"`
	Record   *pds.RecordEnvelope  `json:"record,omitempty"`
	Kind     string               `json:"kind"`
	URI      string               `json:"uri"`
}

// NewIdentityView converts a resolved identity for output
func NewIdentityView(ident *identity.Identity) IdentityView {
	if ident == nil {
		return IdentityView{}
	}
	return IdentityView{
		DID:        ident.DID,
		Handle:     ident.Handle,
		PDS:        ident.PDSURL,
		Method:     string(ident.Method),
		ResolvedAt: ident.ResolvedAt,
	}
}

// NewResolveResponse converts an Outcome for output
func NewResolveResponse(outcome *browse.Outcome) ResolveResponse {
	return ResolveResponse{
		Kind:     string(outcome.Kind),
		URI:      outcome.Address.String(),
		Identity: NewIdentityView(outcome.Identity),
		Repo:     outcome.Repo,
		Records:  outcome.Records,
		Record:   outcome.Record,
	}
}
