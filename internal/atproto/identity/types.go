package identity

import (
	"strings"
	"time"
)

// ResolutionMethod indicates how the DID of an identity was obtained
type ResolutionMethod string

const (
	MethodPassthrough ResolutionMethod = "did"    // authority was already a DID
	MethodXRPC        ResolutionMethod = "xrpc"   // com.atproto.identity.resolveHandle
	MethodDirect      ResolutionMethod = "direct" // DNS TXT / HTTPS well-known
	MethodCustom      ResolutionMethod = "custom" // caller-supplied HandleResolver
)

// Service entry id and type that designate an account's PDS.
const (
	PDSServiceID   = "#atproto_pds"
	PDSServiceType = "AtprotoPersonalDataServer"
)

// Identity is the result of one resolution pass: a DID and the host serving it.
// It is never cached; every pass builds a fresh one.
type Identity struct {
	DID        string           // Decentralized Identifier (e.g., "did:plc:abc123")
	Handle     string           // Handle the pass started from, empty if it started from a DID
	PDSURL     string           // Personal Data Server URL
	ResolvedAt time.Time        // When this identity was resolved
	Method     ResolutionMethod // How the DID was obtained
}

// DIDDocument is the public identity document for a DID.
// did:plc and did:web documents share this shape.
type DIDDocument struct {
	ID                 string               `json:"id"`
	AlsoKnownAs        []string             `json:"alsoKnownAs,omitempty"`
	VerificationMethod []VerificationMethod `json:"verificationMethod,omitempty"`
	Service            []Service            `json:"service,omitempty"`
}

// VerificationMethod is a public key entry in a DID document
type VerificationMethod struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	Controller         string `json:"controller"`
	PublicKeyMultibase string `json:"publicKeyMultibase,omitempty"`
}

// Service represents a service entry in a DID document
type Service struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// ExtractServingHost returns the PDS endpoint declared by doc.
// The entry must carry the #atproto_pds id (bare or DID-qualified) and the
// AtprotoPersonalDataServer type. A missing entry is reported with ok=false,
// not an error; callers decide what absence means.
func ExtractServingHost(doc *DIDDocument) (string, bool) {
	if doc == nil {
		return "", false
	}
	for _, svc := range doc.Service {
		if svc.ID != PDSServiceID && svc.ID != doc.ID+PDSServiceID {
			continue
		}
		if svc.Type != PDSServiceType || svc.ServiceEndpoint == "" {
			continue
		}
		return strings.TrimSuffix(svc.ServiceEndpoint, "/"), true
	}
	return "", false
}

// Handles returns the handles the document claims through at:// aliases.
func (d *DIDDocument) Handles() []string {
	var handles []string
	for _, aka := range d.AlsoKnownAs {
		if h, ok := strings.CutPrefix(aka, "at://"); ok && h != "" {
			handles = append(handles, h)
		}
	}
	return handles
}
