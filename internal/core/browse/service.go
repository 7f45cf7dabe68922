package browse

import (
	"context"
	"fmt"
	"log"
	"time"

	"Branches/internal/atproto/aturi"
	"Branches/internal/atproto/identity"
	"Branches/internal/metrics"

	"github.com/bluesky-social/indigo/atproto/syntax"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("Branches/browse")

// DefaultPassTimeout bounds a pass when no WithPassTimeout option is given.
const DefaultPassTimeout = 30 * time.Second

// service implements the Service interface
type service struct {
	resolver    identity.Resolver
	newClient   ClientFactory
	metrics     *metrics.Metrics
	passTimeout time.Duration
}

// NewService creates a new browse service
func NewService(resolver identity.Resolver, newClient ClientFactory, opts ...ServiceOption) Service {
	if resolver == nil {
		panic("browse: resolver cannot be nil")
	}
	if newClient == nil {
		panic("browse: client factory cannot be nil")
	}

	s := &service{
		resolver:    resolver,
		newClient:   newClient,
		passTimeout: DefaultPassTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ServiceOption configures the service
type ServiceOption func(*service)

// WithPassTimeout bounds each pass. Zero or negative disables the bound;
// the caller's context still applies.
func WithPassTimeout(timeout time.Duration) ServiceOption {
	return func(s *service) {
		s.passTimeout = timeout
	}
}

// WithMetrics records pass outcomes and stage latencies
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *service) {
		s.metrics = m
	}
}

// pass carries the state of one Browse call
type pass struct {
	addr  aturi.Address
	state State
}

func (p *pass) transition(next State) {
	log.Printf("[BROWSE] %s: %s -> %s", p.addr, p.state, next)
	p.state = next
}

// withTimeout layers the pass timeout on ctx
func (s *service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.passTimeout > 0 {
		return context.WithTimeout(ctx, s.passTimeout)
	}
	return context.WithCancel(ctx)
}

// interrupted attaches the context's error when the pass was cut short,
// so Classify reports cancellation rather than whichever stage noticed it.
func interrupted(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	return err
}

// BrowseRaw parses raw and browses the result.
func (s *service) BrowseRaw(ctx context.Context, raw string) (*Outcome, error) {
	addr, err := aturi.Parse(raw)
	if err != nil {
		s.metrics.IncrementOutcome("invalid", string(Classify(err)))
		return nil, err
	}
	return s.Browse(ctx, addr)
}

// Browse runs one pass: Idle -> Resolving -> Dispatching -> Delivered | Failed.
func (s *service) Browse(ctx context.Context, addr aturi.Address) (*Outcome, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	target := addr.Target()
	ctx, span := tracer.Start(ctx, "Browse.Pass", trace.WithAttributes(
		attribute.String("address", addr.String()),
		attribute.String("target", target.String()),
	))
	defer span.End()

	done := s.metrics.PassStarted()
	defer done()
	start := time.Now()

	p := &pass{addr: addr, state: StateIdle}
	outcome, err := s.run(ctx, p)

	s.metrics.ObservePassLatency(time.Since(start))
	if err != nil {
		kind := Classify(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(kind))
		s.metrics.IncrementOutcome(target.String(), string(kind))
		log.Printf("[BROWSE] %s failed (%s): %v", addr, kind, err)
		return nil, err
	}

	s.metrics.IncrementOutcome(target.String(), "ok")
	return outcome, nil
}

func (s *service) run(ctx context.Context, p *pass) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		p.transition(StateFailed)
		return nil, err
	}

	p.transition(StateResolving)
	resolveStart := time.Now()
	ident, err := s.resolver.ResolveHost(ctx, p.addr.Authority)
	s.metrics.ObserveStageLatency("resolve", time.Since(resolveStart))
	if err != nil {
		p.transition(StateFailed)
		return nil, interrupted(ctx, err)
	}

	did, err := syntax.ParseDID(ident.DID)
	if err != nil {
		p.transition(StateFailed)
		return nil, fmt.Errorf("resolver returned invalid DID %q: %w", ident.DID, err)
	}

	// A fresh client per pass, pointed at the host just resolved.
	client := s.newClient()
	client.Reconfigure(ident.PDSURL)

	p.transition(StateDispatching)
	ctx, span := tracer.Start(ctx, "Browse.Dispatch", trace.WithAttributes(
		attribute.String("pds", ident.PDSURL),
	))
	defer span.End()

	outcome := &Outcome{Address: p.addr, Identity: ident}
	dispatchStart := time.Now()

	switch {
	case p.addr.HasCollection() && p.addr.HasRecordKey():
		outcome.Kind = OutcomeRecord
		outcome.Record, err = client.GetRecord(ctx, did, p.addr.Collection, p.addr.RecordKey)
	case p.addr.HasCollection():
		outcome.Kind = OutcomeRecords
		outcome.Records, err = client.ListRecords(ctx, did, p.addr.Collection)
	default:
		outcome.Kind = OutcomeRepo
		outcome.Repo, err = client.DescribeRepo(ctx, did)
	}

	s.metrics.ObserveStageLatency("dispatch", time.Since(dispatchStart))
	if err != nil {
		span.RecordError(err)
		p.transition(StateFailed)
		return nil, interrupted(ctx, err)
	}

	p.transition(StateDelivered)
	return outcome, nil
}

// DIDDocument resolves authority and returns its identity document.
func (s *service) DIDDocument(ctx context.Context, authority string) (*identity.DIDDocument, error) {
	addr, err := aturi.Parse(authority)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	did, err := s.resolver.ResolveDID(ctx, addr.Authority)
	if err != nil {
		return nil, interrupted(ctx, err)
	}

	doc, err := s.resolver.FetchDocument(ctx, did)
	if err != nil {
		return nil, interrupted(ctx, err)
	}

	return doc, nil
}

// ServingHost resolves authority and returns the identity with its PDS endpoint.
func (s *service) ServingHost(ctx context.Context, authority string) (*identity.Identity, error) {
	addr, err := aturi.Parse(authority)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ident, err := s.resolver.ResolveHost(ctx, addr.Authority)
	if err != nil {
		return nil, interrupted(ctx, err)
	}

	return ident, nil
}
