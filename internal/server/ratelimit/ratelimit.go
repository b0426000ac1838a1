// Package ratelimit provides per-client rate limiting for expensive endpoints,
// built on golang.org/x/time/rate token buckets.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int // requests per window; 0 means unlimited
	Remaining  int
	RetryAfter time.Duration
}

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig limits every render endpoint to perMinute requests per client with the
// given burst. perMinute <= 0 disables limiting.
func NewConfig(perMinute, burst int) *Config {
	return &Config{
		Enabled:         perMinute > 0,
		CleanupInterval: 10 * time.Minute,
		Whitelist:       make(map[string]bool),
		EndpointConfigs: RenderEndpoints(perMinute, burst),
	}
}

// RenderEndpoints returns the endpoints that start external renderers.
func RenderEndpoints(perMinute, burst int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/export/", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: burst},
		{Path: "/profiles/", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: burst},
	}
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter manages one token bucket per client and endpoint.
type Limiter struct {
	mu          sync.Mutex
	limiters    map[string]*entry
	config      *Config
	cleanupStop chan struct{}
	stopOnce    sync.Once
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{}
	}

	l := &Limiter{
		limiters: make(map[string]*entry),
		config:   config,
	}

	// Start cleanup goroutine if enabled
	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupStop = make(chan struct{})
		go l.cleanup(config.CleanupInterval)
	}

	return l
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}

	cfg := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if cfg == nil || cfg.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	// Buckets are shared by every path under one endpoint pattern.
	limiter := l.getLimiter(clientID+":"+cfg.Method+":"+cfg.Path, cfg)

	info := Info{Limit: cfg.Limit}
	now := time.Now()
	info.Allowed = limiter.AllowN(now, 1)
	info.Remaining = max(int(limiter.TokensAt(now)), 0)
	if !info.Allowed {
		info.RetryAfter = time.Duration(float64(time.Second) / float64(limiter.Limit()))
	}
	return info.Allowed, info
}

func (l *Limiter) getLimiter(key string, cfg *EndpointConfig) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.limiters[key]
	if !ok {
		burst := cfg.Burst
		if burst <= 0 {
			burst = cfg.Limit
		}
		perSecond := rate.Limit(float64(cfg.Limit) / cfg.Window.Seconds())
		e = &entry{limiter: rate.NewLimiter(perSecond, burst)}
		l.limiters[key] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

// cleanup periodically removes limiters that have been idle for a full interval.
func (l *Limiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evict(time.Now().Add(-interval))
		case <-l.cleanupStop:
			return
		}
	}
}

func (l *Limiter) evict(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, e := range l.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
		}
	}
}

// Size returns the number of tracked client buckets.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Stop stops the cleanup goroutine.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.cleanupStop != nil {
			close(l.cleanupStop)
		}
	})
}
