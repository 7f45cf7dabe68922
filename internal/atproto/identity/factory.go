package identity

import (
	"fmt"
	"net/http"
	"time"
)

// Handle resolution strategies accepted by Config.HandleResolution
const (
	HandleResolutionXRPC   = "xrpc"
	HandleResolutionDirect = "direct"
)

// Config holds configuration for the identity resolver
type Config struct {
	HTTPClient *http.Client
	PLCURL     string
	// DiscoveryHost answers com.atproto.identity.resolveHandle for the xrpc strategy
	DiscoveryHost string
	// HandleResolution is "xrpc" (default) or "direct"
	HandleResolution string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		PLCURL:           "https://plc.directory",
		DiscoveryHost:    "https://bsky.social",
		HandleResolution: HandleResolutionXRPC,
		HTTPClient:       &http.Client{Timeout: 10 * time.Second},
	}
}

// NewResolver creates a new identity resolver.
// Identities are not cached: every call goes to the network.
func NewResolver(config Config) (Resolver, error) {
	defaults := DefaultConfig()
	if config.PLCURL == "" {
		config.PLCURL = defaults.PLCURL
	}
	if config.DiscoveryHost == "" {
		config.DiscoveryHost = defaults.DiscoveryHost
	}
	if config.HandleResolution == "" {
		config.HandleResolution = defaults.HandleResolution
	}
	if config.HTTPClient == nil {
		config.HTTPClient = defaults.HTTPClient
	}

	var handles HandleResolver
	var method ResolutionMethod
	switch config.HandleResolution {
	case HandleResolutionXRPC:
		handles = NewXRPCHandleResolver(config.DiscoveryHost, config.HTTPClient)
		method = MethodXRPC
	case HandleResolutionDirect:
		handles = NewDirectHandleResolver(config.PLCURL, config.HTTPClient)
		method = MethodDirect
	default:
		return nil, fmt.Errorf("unknown handle resolution strategy %q (want %q or %q)",
			config.HandleResolution, HandleResolutionXRPC, HandleResolutionDirect)
	}

	return newBaseResolver(config.PLCURL, config.HTTPClient, handles, method), nil
}

// NewResolverWithHandles creates a resolver around a caller-supplied HandleResolver.
// Identities resolved from a handle report MethodCustom.
func NewResolverWithHandles(config Config, handles HandleResolver) Resolver {
	if config.PLCURL == "" {
		config.PLCURL = DefaultConfig().PLCURL
	}
	if config.HTTPClient == nil {
		config.HTTPClient = DefaultConfig().HTTPClient
	}
	return newBaseResolver(config.PLCURL, config.HTTPClient, handles, MethodCustom)
}
