// Package pds provides read access to the public repositories on a PDS.
// It wraps indigo's atclient.APIClient; no authentication is involved since
// describeRepo, listRecords and getRecord are public endpoints.
package pds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	atclient "github.com/bluesky-social/indigo/atproto/client"
	"github.com/bluesky-social/indigo/atproto/syntax"
	"github.com/ipfs/go-cid"
)

// Client reads one repository host at a time.
// The host is chosen after identity resolution and may change between reads,
// so it is set through Reconfigure rather than fixed at construction.
type Client interface {
	// Reconfigure points every later read at host. Calling it again with the
	// same host is a no-op.
	Reconfigure(host string)

	// HostURL returns the host reads currently go to.
	HostURL() string

	// DescribeRepo calls com.atproto.repo.describeRepo.
	DescribeRepo(ctx context.Context, did syntax.DID) (*RepoDescription, error)

	// ListRecords calls com.atproto.repo.listRecords and returns the first page only.
	ListRecords(ctx context.Context, did syntax.DID, collection syntax.NSID) (*RecordPage, error)

	// GetRecord calls com.atproto.repo.getRecord.
	GetRecord(ctx context.Context, did syntax.DID, collection syntax.NSID, rkey syntax.RecordKey) (*RecordEnvelope, error)
}

// RepoDescription is the describeRepo response.
type RepoDescription struct {
	Handle          string          `json:"handle"`
	DID             string          `json:"did"`
	DIDDoc          json.RawMessage `json:"didDoc,omitempty"`
	Collections     []string        `json:"collections"`
	HandleIsCorrect bool            `json:"handleIsCorrect"`
}

// RecordPage is one page of a listRecords response.
type RecordPage struct {
	Records []RecordEnvelope `json:"records"`
	Cursor  string           `json:"cursor,omitempty"`
}

// RecordEnvelope wraps a record with its address and content hash.
// Value is left undecoded; records are arbitrary lexicon data.
type RecordEnvelope struct {
	URI   string          `json:"uri"`
	CID   string          `json:"cid,omitempty"`
	Value json.RawMessage `json:"value"`
}

// ParsedCID decodes the envelope's content identifier
func (r *RecordEnvelope) ParsedCID() (cid.Cid, error) {
	if r.CID == "" {
		return cid.Undef, errors.New("record has no CID")
	}
	c, err := cid.Decode(r.CID)
	if err != nil {
		return cid.Undef, fmt.Errorf("invalid record CID %q: %w", r.CID, err)
	}
	return c, nil
}

// Option configures a client
type Option func(*client)

// WithPageSize sets the limit sent with listRecords. Zero leaves it to the PDS.
func WithPageSize(limit int) Option {
	return func(c *client) {
		c.pageSize = limit
	}
}

// client implements Client using indigo's APIClient.
// A fresh APIClient is built per read from a snapshot of the host, so a
// concurrent Reconfigure never splits a single request across hosts.
type client struct {
	httpClient *http.Client

	mu   sync.RWMutex
	host string

	pageSize int
}

// Ensure client implements Client interface.
var _ Client = (*client)(nil)

// NewClient creates a client for host. host may be empty; reads then fail
// with ErrNoHost until Reconfigure is called.
func NewClient(host string, httpClient *http.Client, opts ...Option) Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &client{
		httpClient: httpClient,
		host:       normalizeHost(host),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func normalizeHost(host string) string {
	return strings.TrimSuffix(strings.TrimSpace(host), "/")
}

// wrapAPIError inspects an error from atclient and wraps it with our typed errors.
// This allows callers to use errors.Is() for reliable error detection.
func wrapAPIError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var apiErr *atclient.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 400:
			return fmt.Errorf("%s: %w: %s", operation, ErrBadRequest, apiErr.Message)
		case apiErr.StatusCode == 401:
			return fmt.Errorf("%s: %w: %s", operation, ErrUnauthorized, apiErr.Message)
		case apiErr.StatusCode == 403:
			return fmt.Errorf("%s: %w: %s", operation, ErrForbidden, apiErr.Message)
		case apiErr.StatusCode == 404:
			return fmt.Errorf("%s: %w: %s", operation, ErrNotFound, apiErr.Message)
		case apiErr.StatusCode == 429:
			return fmt.Errorf("%s: %w: %s", operation, ErrRateLimited, apiErr.Message)
		case apiErr.StatusCode >= 500:
			return fmt.Errorf("%s: %w: %s", operation, ErrUpstream, apiErr.Message)
		}
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}

// Reconfigure points later reads at host.
func (c *client) Reconfigure(host string) {
	host = normalizeHost(host)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.host == host {
		return
	}
	if c.host != "" {
		log.Printf("[PDS] Repointing client from %s to %s", c.host, host)
	}
	c.host = host
}

// HostURL returns the PDS host URL.
func (c *client) HostURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.host
}

// api snapshots the current host into a one-shot APIClient
func (c *client) api() (*atclient.APIClient, string, error) {
	host := c.HostURL()
	if host == "" {
		return nil, "", ErrNoHost
	}
	apiClient := atclient.NewAPIClient(host)
	apiClient.Client = c.httpClient
	return apiClient, host, nil
}

// DescribeRepo returns the repository summary for did.
func (c *client) DescribeRepo(ctx context.Context, did syntax.DID) (*RepoDescription, error) {
	apiClient, host, err := c.api()
	if err != nil {
		return nil, &RemoteError{Kind: KindRepoNotFound, Cause: err}
	}

	params := map[string]any{
		"repo": did.String(),
	}

	var result RepoDescription
	err = apiClient.Get(ctx, syntax.NSID("com.atproto.repo.describeRepo"), params, &result)
	if err != nil {
		return nil, &RemoteError{Kind: KindRepoNotFound, Host: host, Cause: wrapAPIError(err, "describeRepo")}
	}

	return &result, nil
}

// ListRecords lists the first page of records in a collection.
func (c *client) ListRecords(ctx context.Context, did syntax.DID, collection syntax.NSID) (*RecordPage, error) {
	apiClient, host, err := c.api()
	if err != nil {
		return nil, &RemoteError{Kind: KindRecordsNotFound, Cause: err}
	}

	params := map[string]any{
		"repo":       did.String(),
		"collection": collection.String(),
	}
	if c.pageSize > 0 {
		params["limit"] = c.pageSize
	}

	var result RecordPage
	err = apiClient.Get(ctx, syntax.NSID("com.atproto.repo.listRecords"), params, &result)
	if err != nil {
		return nil, &RemoteError{Kind: KindRecordsNotFound, Host: host, Cause: wrapAPIError(err, "listRecords")}
	}

	if result.Records == nil {
		result.Records = []RecordEnvelope{}
	}

	return &result, nil
}

// GetRecord retrieves a single record by collection and rkey.
func (c *client) GetRecord(ctx context.Context, did syntax.DID, collection syntax.NSID, rkey syntax.RecordKey) (*RecordEnvelope, error) {
	apiClient, host, err := c.api()
	if err != nil {
		return nil, &RemoteError{Kind: KindRecordNotFound, Cause: err}
	}

	params := map[string]any{
		"repo":       did.String(),
		"collection": collection.String(),
		"rkey":       rkey.String(),
	}

	var result RecordEnvelope
	err = apiClient.Get(ctx, syntax.NSID("com.atproto.repo.getRecord"), params, &result)
	if err != nil {
		return nil, &RemoteError{Kind: KindRecordNotFound, Host: host, Cause: wrapAPIError(err, "getRecord")}
	}

	return &result, nil
}
