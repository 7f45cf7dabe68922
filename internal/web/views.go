package web

import (
	"fmt"
	"strings"

	"Branches/internal/atproto/aturi"
	"Branches/internal/atproto/pds"
	"Branches/internal/core/browse"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multicodec"
)

// Link is a labelled in-app link
type Link struct {
	Label string
	Href  string
}

// IdentityData describes who an address resolved to
type IdentityData struct {
	DID    string
	Handle string
	PDS    string
	Method string
}

// RecordData is one record prepared for display
type RecordData struct {
	Key   string
	URI   string
	Href  string
	CID   string
	Codec string // e.g. "v1 dag-cbor"; empty when the CID does not decode
	JSON  string
}

// BrowsePageData holds data for the outcome page
type BrowsePageData struct {
	Title    string
	Query    string
	URI      string
	Kind     string
	Identity IdentityData
	Crumbs   []Link

	// repo
	Handle          string
	HandleIsCorrect bool
	Collections     []Link

	// records
	Records []RecordData
	Cursor  string

	// record
	Record *RecordData
}

// newBrowsePageData flattens an Outcome for the template
func newBrowsePageData(query string, outcome *browse.Outcome) BrowsePageData {
	addr := outcome.Address
	data := BrowsePageData{
		Title:  addr.String(),
		Query:  query,
		URI:    addr.String(),
		Kind:   string(outcome.Kind),
		Crumbs: crumbs(addr),
	}
	if outcome.Identity != nil {
		data.Identity = IdentityData{
			DID:    outcome.Identity.DID,
			Handle: outcome.Identity.Handle,
			PDS:    outcome.Identity.PDSURL,
			Method: string(outcome.Identity.Method),
		}
	}

	switch outcome.Kind {
	case browse.OutcomeRepo:
		repo := outcome.Repo
		data.Handle = repo.Handle
		data.HandleIsCorrect = repo.HandleIsCorrect
		for _, collection := range repo.Collections {
			uri := fmt.Sprintf("%s%s/%s", aturi.Scheme, addr.Authority, collection)
			data.Collections = append(data.Collections, Link{Label: collection, Href: browseHref(uri)})
		}
	case browse.OutcomeRecords:
		data.Cursor = outcome.Records.Cursor
		for i := range outcome.Records.Records {
			data.Records = append(data.Records, newRecordData(&outcome.Records.Records[i]))
		}
	case browse.OutcomeRecord:
		rec := newRecordData(outcome.Record)
		data.Record = &rec
	}

	return data
}

func newRecordData(rec *pds.RecordEnvelope) RecordData {
	data := RecordData{
		Key:  recordKeyOf(rec.URI),
		URI:  rec.URI,
		Href: browseHref(rec.URI),
		CID:  rec.CID,
		JSON: prettyJSON(rec.Value),
	}
	if c, err := rec.ParsedCID(); err == nil {
		data.Codec = describeCID(c)
	}
	return data
}

// describeCID names a CID's version and codec, e.g. "v1 dag-cbor"
func describeCID(c cid.Cid) string {
	return fmt.Sprintf("v%d %s", c.Version(), multicodec.Code(c.Prefix().Codec))
}

// crumbs builds the authority / collection / record trail for addr
func crumbs(addr aturi.Address) []Link {
	base := aturi.Scheme + addr.Authority.String()
	links := []Link{{Label: addr.Authority.String(), Href: browseHref(base)}}
	if addr.HasCollection() {
		base += "/" + addr.Collection.String()
		links = append(links, Link{Label: addr.Collection.String(), Href: browseHref(base)})
	}
	if addr.HasRecordKey() {
		base += "/" + addr.RecordKey.String()
		links = append(links, Link{Label: addr.RecordKey.String(), Href: browseHref(base)})
	}
	return links
}

// recordKeyOf returns the last path segment of an at:// URI
func recordKeyOf(uri string) string {
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
