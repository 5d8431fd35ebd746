package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig is the bucket shape for one route. Paths ending in "/" match
// as prefixes.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int // defaults to Limit when 0
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig builds a Config with the scoring endpoint tiers applied.
func NewConfig(enabled bool, limit int, window time.Duration, whitelist, blacklist []string) *Config {
	return &Config{
		Enabled:         enabled,
		DefaultLimit:    limit,
		DefaultWindow:   window,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       ipSet(whitelist),
		Blacklist:       ipSet(blacklist),
		EndpointConfigs: DefaultEndpointConfigs(limit, window),
	}
}

// DefaultEndpointConfigs derives per-route limits from the global limit.
// Analyses and ML scoring call out to embedding/LLM backends, so they get a
// quarter of the budget with a small burst.
func DefaultEndpointConfigs(limit int, window time.Duration) []EndpointConfig {
	expensive := max(limit/4, 1)
	burst := max(expensive/5, 1)
	return []EndpointConfig{
		{Path: "/analyze", Method: "POST", Limit: expensive, Window: window, Burst: burst},
		{Path: "/ml-score", Method: "POST", Limit: expensive, Window: window, Burst: burst},
		{Path: "/skills/match", Method: "POST", Limit: limit, Window: window},
		{Path: "/kb/search", Method: "GET", Limit: limit, Window: window},
	}
}

// MatchEndpoint returns the config for path and method, nil when the default
// applies. GET /health is never limited.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}
	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}
	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}
	return nil
}

func ipSet(ips []string) map[string]bool {
	out := make(map[string]bool, len(ips))
	for _, ip := range ips {
		if ip = strings.TrimSpace(ip); ip != "" {
			out[ip] = true
		}
	}
	return out
}
