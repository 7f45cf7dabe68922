package aturi

import (
	"errors"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		wantAuthority  string
		wantIsDID      bool
		wantCollection string
		wantRecordKey  string
		wantTarget     Target
	}{
		{
			name:           "full at uri with handle",
			raw:            "at://alice.test/app.bsky.feed.post/3k2x",
			wantAuthority:  "alice.test",
			wantCollection: "app.bsky.feed.post",
			wantRecordKey:  "3k2x",
			wantTarget:     TargetRecord,
		},
		{
			name:          "bare handle",
			raw:           "alice.test",
			wantAuthority: "alice.test",
			wantTarget:    TargetRepo,
		},
		{
			name:           "web+at link with did:plc",
			raw:            "web+at://did:plc:abc123/app.bsky.actor.profile/self",
			wantAuthority:  "did:plc:abc123",
			wantIsDID:      true,
			wantCollection: "app.bsky.actor.profile",
			wantRecordKey:  "self",
			wantTarget:     TargetRecord,
		},
		{
			name:          "bare did:web",
			raw:           "did:web:example.com",
			wantAuthority: "did:web:example.com",
			wantIsDID:     true,
			wantTarget:    TargetRepo,
		},
		{
			name:           "collection without record key",
			raw:            "at://did:plc:abc123/app.bsky.feed.like",
			wantAuthority:  "did:plc:abc123",
			wantIsDID:      true,
			wantCollection: "app.bsky.feed.like",
			wantTarget:     TargetCollection,
		},
		{
			name:           "no scheme with collection",
			raw:            "alice.test/app.bsky.graph.follow",
			wantAuthority:  "alice.test",
			wantCollection: "app.bsky.graph.follow",
			wantTarget:     TargetCollection,
		},
		{
			name:           "segments beyond the third are discarded",
			raw:            "at://alice.test/app.bsky.feed.post/3k2x/extra/bits",
			wantAuthority:  "alice.test",
			wantCollection: "app.bsky.feed.post",
			wantRecordKey:  "3k2x",
			wantTarget:     TargetRecord,
		},
		{
			name:          "surrounding whitespace is ignored",
			raw:           "  at://alice.test \n",
			wantAuthority: "alice.test",
			wantTarget:    TargetRepo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.raw, err)
			}

			if got := addr.Authority.String(); got != tt.wantAuthority {
				t.Errorf("Authority = %q, want %q", got, tt.wantAuthority)
			}
			if got := addr.Authority.IsDID(); got != tt.wantIsDID {
				t.Errorf("Authority.IsDID() = %v, want %v", got, tt.wantIsDID)
			}
			if got := addr.Collection.String(); got != tt.wantCollection {
				t.Errorf("Collection = %q, want %q", got, tt.wantCollection)
			}
			if got := addr.RecordKey.String(); got != tt.wantRecordKey {
				t.Errorf("RecordKey = %q, want %q", got, tt.wantRecordKey)
			}
			if got := addr.Target(); got != tt.wantTarget {
				t.Errorf("Target() = %v, want %v", got, tt.wantTarget)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{name: "empty string", raw: "", wantErr: ErrMissingAuthority},
		{name: "scheme only", raw: "at://", wantErr: ErrMissingAuthority},
		{name: "link scheme only", raw: "web+at://", wantErr: ErrMissingAuthority},
		{name: "leading slash", raw: "at:///app.bsky.feed.post", wantErr: ErrMissingAuthority},
		{name: "authority is neither handle nor did", raw: "at://not_a_handle", wantErr: ErrInvalidAuthority},
		{name: "single label", raw: "localhost", wantErr: ErrInvalidAuthority},
		{name: "malformed did", raw: "did:PLC:abc", wantErr: ErrInvalidAuthority},
		{name: "empty collection", raw: "at://alice.test//3k2x", wantErr: ErrInvalidNSID},
		{name: "trailing slash", raw: "at://alice.test/", wantErr: ErrInvalidNSID},
		{name: "two segment nsid", raw: "at://alice.test/app.post", wantErr: ErrInvalidNSID},
		{name: "record key dot", raw: "at://alice.test/app.bsky.feed.post/.", wantErr: ErrInvalidRecordKey},
		{name: "record key with illegal char", raw: "at://alice.test/app.bsky.feed.post/a b", wantErr: ErrInvalidRecordKey},
		{name: "empty record key", raw: "at://alice.test/app.bsky.feed.post/", wantErr: ErrInvalidRecordKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got nil", tt.raw)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
			}
			if !IsAddressError(err) {
				t.Errorf("IsAddressError(%v) = false, want true", err)
			}
		})
	}
}

func TestParse_EmptyCollectionShortCircuits(t *testing.T) {
	// The record key "." is invalid too; the collection error must win.
	_, err := Parse("at://alice.test//.")
	if !errors.Is(err, ErrInvalidNSID) {
		t.Fatalf("error = %v, want ErrInvalidNSID", err)
	}
	if errors.Is(err, ErrInvalidRecordKey) {
		t.Error("record key was consulted after an invalid collection")
	}
}

func TestParse_PrefixStrippingIsOptional(t *testing.T) {
	want := "at://alice.test/app.bsky.feed.post/3k2x"
	inputs := []string{
		"alice.test/app.bsky.feed.post/3k2x",
		"at://alice.test/app.bsky.feed.post/3k2x",
		"web+at://alice.test/app.bsky.feed.post/3k2x",
	}

	for _, raw := range inputs {
		addr, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", raw, err)
		}
		if got := addr.String(); got != want {
			t.Errorf("Parse(%q).String() = %q, want %q", raw, got, want)
		}
	}
}

func TestAddress_String(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "alice.test", want: "at://alice.test"},
		{raw: "did:plc:abc123/app.bsky.feed.like", want: "at://did:plc:abc123/app.bsky.feed.like"},
		{raw: "web+at://alice.test/app.bsky.feed.post/3k2x", want: "at://alice.test/app.bsky.feed.post/3k2x"},
	}

	for _, tt := range tests {
		if got := MustParse(tt.raw).String(); got != tt.want {
			t.Errorf("MustParse(%q).String() = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestAddress_DID(t *testing.T) {
	did, ok := MustParse("did:plc:abc123").DID()
	if !ok {
		t.Fatal("DID() ok = false for a DID authority")
	}
	if did.String() != "did:plc:abc123" {
		t.Errorf("DID() = %q, want did:plc:abc123", did)
	}

	if _, ok := MustParse("alice.test").DID(); ok {
		t.Error("DID() ok = true for a handle authority")
	}
}

func TestMustParse_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse did not panic on invalid input")
		}
	}()
	MustParse("at://")
}

func TestError_Message(t *testing.T) {
	_, err := Parse("at://alice.test/nope")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `"nope"`) {
		t.Errorf("error message %q does not name the offending segment", err.Error())
	}
}

// Any well-formed three-segment address survives Parse -> String -> Parse.
func TestParse_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		authority := rapid.OneOf(
			rapid.StringMatching(`[a-z][a-z0-9]{0,8}(-[a-z0-9]{1,4})?\.[a-z][a-z0-9]{0,8}\.[a-z]{2,6}`),
			rapid.StringMatching(`did:plc:[a-z2-7]{24}`),
			rapid.StringMatching(`did:web:[a-z][a-z0-9]{1,10}\.[a-z]{2,5}`),
		).Draw(rt, "authority")
		collection := rapid.StringMatching(`[a-z]{2,8}\.[a-z]{2,8}\.[a-z][a-zA-Z]{1,12}`).Draw(rt, "collection")
		rkey := rapid.OneOf(
			rapid.StringMatching(`[a-z2-7]{13}`),
			rapid.SampledFrom([]string{"self", "3k2x", "a-b_c~d:e"}),
		).Draw(rt, "rkey")
		prefix := rapid.SampledFrom([]string{"", Scheme, LinkScheme + Scheme}).Draw(rt, "prefix")

		raw := prefix + authority + "/" + collection + "/" + rkey
		first, err := Parse(raw)
		if err != nil {
			rt.Fatalf("Parse(%q) unexpected error: %v", raw, err)
		}

		second, err := Parse(first.String())
		if err != nil {
			rt.Fatalf("re-Parse(%q) unexpected error: %v", first.String(), err)
		}

		if first.Authority.String() != second.Authority.String() ||
			first.Collection != second.Collection ||
			first.RecordKey != second.RecordKey {
			rt.Fatalf("round trip mismatch: %+v != %+v", first, second)
		}
		if first.String() != second.String() {
			rt.Fatalf("String() mismatch: %q != %q", first.String(), second.String())
		}
	})
}
