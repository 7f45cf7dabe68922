package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bluesky-social/indigo/atproto/syntax"
)

// maxDocumentSize caps how much of a DID document body is read
const maxDocumentSize = 1 << 20

// documentURL returns where the document for did lives.
// Only plc and web are allowed; anything else is ErrUnsupportedMethod.
func documentURL(plcURL string, did syntax.DID) (string, error) {
	switch did.Method() {
	case "plc":
		return plcURL + "/" + did.String(), nil
	case "web":
		host, err := webDIDHost(did)
		if err != nil {
			return "", err
		}
		return "https://" + host + "/.well-known/did.json", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMethod, did.Method())
	}
}

// webDIDHost extracts the host from a did:web identifier.
// A percent-encoded port (%3A) is decoded; path-based did:web is rejected.
func webDIDHost(did syntax.DID) (string, error) {
	id := did.Identifier()
	if id == "" || strings.Contains(id, ":") {
		return "", fmt.Errorf("%w: %s", ErrInvalidWebDID, did)
	}
	host := strings.ReplaceAll(id, "%3A", ":")
	host = strings.ReplaceAll(host, "%3a", ":")
	if strings.Contains(host, "%") || strings.Contains(host, "/") {
		return "", fmt.Errorf("%w: %s", ErrInvalidWebDID, did)
	}
	return host, nil
}

// fetchDocument performs the GET and decodes the body into a DIDDocument
func fetchDocument(ctx context.Context, httpClient *http.Client, docURL string, did syntax.DID) (*DIDDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/did+ld+json, application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", docURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Limit error body to 1KB to prevent unbounded reads
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w %d from %s: %s", ErrUnexpectedStatus, resp.StatusCode, docURL, strings.TrimSpace(string(body)))
	}

	var doc DIDDocument
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentSize)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode DID document: %w", err)
	}

	if doc.ID != did.String() {
		return nil, fmt.Errorf("%w: document id %q does not match %s", ErrMalformedDocument, doc.ID, did)
	}

	return &doc, nil
}
