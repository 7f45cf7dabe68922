// Package bootstrap assembles a browse service from plain settings.
// The HTTP server and the CLI both start here so they resolve identically.
package bootstrap

import (
	"fmt"
	"time"

	"Branches/internal/atproto/identity"
	"Branches/internal/atproto/netguard"
	"Branches/internal/atproto/pds"
	"Branches/internal/core/browse"
	"Branches/internal/metrics"
)

// Settings configures a browse service
type Settings struct {
	PLCURL           string
	DiscoveryHost    string
	HandleResolution string // "xrpc" or "direct"
	HTTPTimeout      time.Duration
	PassTimeout      time.Duration
	ListPageSize     int
	AllowPrivate     bool
	UserAgent        string
	Metrics          *metrics.Metrics
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	defaults := identity.DefaultConfig()
	return Settings{
		PLCURL:           defaults.PLCURL,
		DiscoveryHost:    defaults.DiscoveryHost,
		HandleResolution: defaults.HandleResolution,
		HTTPTimeout:      10 * time.Second,
		PassTimeout:      browse.DefaultPassTimeout,
	}
}

// NewService builds the resolver, the per-pass client factory and the service.
// All clients share one outbound *http.Client.
func NewService(s Settings) (browse.Service, error) {
	httpClient := netguard.NewHTTPClient(netguard.Config{
		Timeout:      s.HTTPTimeout,
		AllowPrivate: s.AllowPrivate,
		UserAgent:    s.UserAgent,
	})

	resolver, err := identity.NewResolver(identity.Config{
		HTTPClient:       httpClient,
		PLCURL:           s.PLCURL,
		DiscoveryHost:    s.DiscoveryHost,
		HandleResolution: s.HandleResolution,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create identity resolver: %w", err)
	}

	var clientOpts []pds.Option
	if s.ListPageSize > 0 {
		clientOpts = append(clientOpts, pds.WithPageSize(s.ListPageSize))
	}
	newClient := func() pds.Client {
		return pds.NewClient("", httpClient, clientOpts...)
	}

	opts := []browse.ServiceOption{browse.WithPassTimeout(s.PassTimeout)}
	if s.Metrics != nil {
		opts = append(opts, browse.WithMetrics(s.Metrics))
	}

	return browse.NewService(resolver, newClient, opts...), nil
}
