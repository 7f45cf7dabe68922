package netguard

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		name     string
		ip       string
		expected bool
	}{
		// Loopback addresses
		{"IPv4 loopback", "127.0.0.1", true},
		{"IPv6 loopback", "::1", true},
		{"Unspecified", "0.0.0.0", true},

		// Private IPv4 ranges
		{"Private 10.x.x.x", "10.0.0.1", true},
		{"Private 172.16.x.x", "172.16.0.1", true},
		{"Private 172.31.x.x edge", "172.31.255.255", true},
		{"Private 192.168.x.x", "192.168.1.1", true},
		{"Carrier-grade NAT", "100.64.0.1", true},

		// Link-local addresses
		{"Link-local IPv4", "169.254.169.254", true},
		{"Link-local IPv6", "fe80::1", true},

		// IPv6 private ranges
		{"IPv6 unique local fc00", "fc00::1", true},
		{"IPv6 unique local fd00", "fd00::1", true},

		// Public addresses
		{"Public IP 1.1.1.1", "1.1.1.1", false},
		{"Public IP 172.32.0.1", "172.32.0.1", false},
		{"Public IP 100.128.0.1", "100.128.0.1", false},
		{"Public IPv6", "2001:4860:4860::8888", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			if ip == nil {
				t.Fatalf("Failed to parse IP: %s", tt.ip)
			}

			if result := isPrivateIP(ip); result != tt.expected {
				t.Errorf("isPrivateIP(%s) = %v, expected %v", tt.ip, result, tt.expected)
			}
		})
	}
}

func TestIsPrivateIP_NilIP(t *testing.T) {
	if isPrivateIP(nil) {
		t.Error("isPrivateIP(nil) = true, expected false")
	}
}

func TestGuardControl(t *testing.T) {
	if err := guardControl("tcp", "127.0.0.1:443", nil); !errors.Is(err, ErrBlockedAddress) {
		t.Errorf("expected ErrBlockedAddress for loopback, got %v", err)
	}
	if err := guardControl("tcp", "1.1.1.1:443", nil); err != nil {
		t.Errorf("expected public address to pass, got %v", err)
	}
	if err := guardControl("tcp", "no-port", nil); err == nil {
		t.Error("expected error for malformed address")
	}
}

func TestNewHTTPClient_Defaults(t *testing.T) {
	client := NewHTTPClient(Config{})

	if client.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", client.Timeout)
	}

	transport, ok := client.Transport.(*userAgentTransport)
	if !ok {
		t.Fatalf("Transport = %T, want *userAgentTransport", client.Transport)
	}
	if transport.userAgent != DefaultUserAgent {
		t.Errorf("userAgent = %q, want %q", transport.userAgent, DefaultUserAgent)
	}
}

func TestNewHTTPClient_BlocksLoopback(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	client := NewHTTPClient(Config{Timeout: 2 * time.Second})
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	resp, err := client.Do(req)
	if err == nil {
		_ = resp.Body.Close()
		t.Fatal("expected loopback request to be blocked")
	}
	if !errors.Is(err, ErrBlockedAddress) {
		t.Errorf("expected ErrBlockedAddress, got %v", err)
	}
	if hits != 0 {
		t.Errorf("server saw %d requests, want 0", hits)
	}
}

func TestNewHTTPClient_AllowPrivateSetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	client := NewHTTPClient(Config{AllowPrivate: true, UserAgent: "branches-test"})
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	_ = resp.Body.Close()

	if gotUA != "branches-test" {
		t.Errorf("User-Agent = %q, want branches-test", gotUA)
	}
}

func TestNewHTTPClient_RedirectLimit(t *testing.T) {
	client := NewHTTPClient(Config{})

	if client.CheckRedirect == nil {
		t.Fatal("Expected CheckRedirect to be set")
	}

	var via []*http.Request
	for i := 0; i < 5; i++ {
		via = append(via, &http.Request{})
	}

	err := client.CheckRedirect(nil, via)
	if err == nil || err.Error() != "too many redirects" {
		t.Errorf("Expected 'too many redirects' error, got: %v", err)
	}

	if err := client.CheckRedirect(nil, via[:4]); err != nil {
		t.Errorf("Expected no error for 4 redirects, got: %v", err)
	}
}
