// Package ratelimit provides per-client rate limiting using a token bucket.
package ratelimit

import (
	"strings"
	"sync"
	"time"
)

// tokenBucket refills at a steady rate up to its burst capacity.
type tokenBucket struct {
	capacity   int
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newTokenBucket(capacity int, refillRate float64) *tokenBucket {
	return &tokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

func (tb *tokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	tb.tokens = min(float64(tb.capacity), tb.tokens+now.Sub(tb.lastRefill).Seconds()*tb.refillRate)
	tb.lastRefill = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// EndpointConfig is the limit applied to one route. Paths ending in "/"
// prefix-match, so "/clients/" covers "/clients/{id}/reports".
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int // requests per window
	Window time.Duration
	Burst  int // burst capacity, defaults to Limit
}

// Config holds the limiter configuration.
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	Endpoints     []EndpointConfig
}

// DefaultConfig returns the limiter tiers for the report service. Report
// generation reaches out to the external conversion service, so it gets the
// strictest tier.
func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  600,
		DefaultWindow: time.Minute,
		Endpoints: []EndpointConfig{
			{Path: "/reports", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
			{Path: "/clients/", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
			{Path: "/questionnaires", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		},
	}
}

// Limiter manages one bucket per (client, endpoint tier).
type Limiter struct {
	config  *Config
	buckets map[string]*tokenBucket
	mu      sync.Mutex
}

// NewLimiter creates a limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Limiter{
		config:  config,
		buckets: make(map[string]*tokenBucket),
	}
}

// Allow reports whether the client may call the endpoint now. Health and
// metrics probes are never limited.
func (l *Limiter) Allow(clientID, path, method string) bool {
	if !l.config.Enabled {
		return true
	}
	if method == "GET" && (path == "/health" || path == "/metrics") {
		return true
	}

	limit, window, burst := l.config.DefaultLimit, l.config.DefaultWindow, l.config.DefaultLimit
	key := clientID + "|default"
	if ep := l.match(path, method); ep != nil {
		limit, window = ep.Limit, ep.Window
		burst = ep.Burst
		if burst == 0 {
			burst = ep.Limit
		}
		key = clientID + "|" + ep.Method + " " + ep.Path
	}

	l.mu.Lock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = newTokenBucket(burst, float64(limit)/window.Seconds())
		l.buckets[key] = bucket
	}
	l.mu.Unlock()

	return bucket.allow()
}

// match finds the endpoint tier for a request, exact paths first.
func (l *Limiter) match(path, method string) *EndpointConfig {
	for i := range l.config.Endpoints {
		ep := &l.config.Endpoints[i]
		if ep.Method == method && ep.Path == path {
			return ep
		}
	}
	for i := range l.config.Endpoints {
		ep := &l.config.Endpoints[i]
		if ep.Method == method && strings.HasSuffix(ep.Path, "/") && strings.HasPrefix(path, ep.Path) {
			return ep
		}
	}
	return nil
}
