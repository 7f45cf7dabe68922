package browse

import (
	"Branches/internal/atproto/aturi"
	"Branches/internal/atproto/identity"
	"Branches/internal/atproto/pds"
)

// OutcomeKind tags which field of an Outcome is set
type OutcomeKind string

const (
	OutcomeRepo    OutcomeKind = "repo"
	OutcomeRecords OutcomeKind = "records"
	OutcomeRecord  OutcomeKind = "record"
)

// Outcome is the successful result of a pass.
// Exactly one of Repo, Records or Record is set, selected by Kind.
type Outcome struct {
	Kind     OutcomeKind
	Address  aturi.Address
	Identity *identity.Identity

	Repo    *pds.RepoDescription
	Records *pds.RecordPage
	Record  *pds.RecordEnvelope
}

// State is where a pass is in its lifecycle
type State int

const (
	StateIdle State = iota
	StateResolving
	StateDispatching
	StateDelivered
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateDispatching:
		return "dispatching"
	case StateDelivered:
		return "delivered"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen
func (s State) Terminal() bool {
	return s == StateDelivered || s == StateFailed
}
