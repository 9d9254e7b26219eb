// Package ratelimit throttles API clients with a token-bucket scheme.
// Auth endpoints get tight per-client budgets to slow credential
// stuffing; board mutations get wider ones sized for drag-heavy
// sessions. See DefaultEndpointConfigs for the tiers.
package ratelimit

import (
	"sync"
	"time"
)

// Config holds limiter settings, normally loaded from the environment
// via LoadConfig.
type Config struct {
	Enabled         bool
	DefaultLimit    int           // Requests per DefaultWindow for unmatched endpoints
	DefaultWindow   time.Duration // Window for the default limit
	CleanupInterval time.Duration // How often idle buckets are reaped
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Info describes the outcome of an Allow call. The server exposes it
// to clients through X-RateLimit-* headers.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// bucket is the per-client, per-endpoint token state. Tokens refill
// continuously at perSecond up to burst; lastSeen drives idle cleanup.
type bucket struct {
	tokens    float64
	burst     int
	perSecond float64
	refilled  time.Time
	lastSeen  time.Time
}

// topUp credits the tokens earned since the last refill, capped at burst.
func (b *bucket) topUp(now time.Time) {
	earned := now.Sub(b.refilled).Seconds() * b.perSecond
	b.tokens = min(float64(b.burst), b.tokens+earned)
	b.refilled = now
	b.lastSeen = now
}

// take consumes one token if available.
func (b *bucket) take(now time.Time) bool {
	b.topUp(now)
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// untilNextToken reports how long until a depleted bucket has a whole
// token again. Zero when one is already available.
func (b *bucket) untilNextToken() time.Duration {
	if b.tokens >= 1 {
		return 0
	}
	missing := 1 - b.tokens
	return time.Duration(missing / b.perSecond * float64(time.Second))
}

// untilFull reports how long until the bucket refills to burst.
func (b *bucket) untilFull() time.Duration {
	missing := float64(b.burst) - b.tokens
	if missing <= 0 {
		return 0
	}
	return time.Duration(missing / b.perSecond * float64(time.Second))
}

// Limiter tracks one bucket per client+endpoint+method key. A single
// mutex guards the map; bucket state is only touched under it.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	config  *Config
	stop    chan struct{}
}

// NewLimiter creates a limiter and starts its idle-bucket reaper.
// A nil config gets a permissive 1000/min default.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
		stop:    make(chan struct{}),
	}

	if config.Enabled && config.CleanupInterval > 0 {
		go l.reapLoop(config.CleanupInterval)
	}

	return l
}

// Allow decides whether a request from clientID (normally the remote
// IP) against the given path and method may proceed. The returned Info
// is meaningful in both outcomes.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	if l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false, RetryAfter: 24 * time.Hour}
	}

	limit := l.config.DefaultLimit
	window := l.config.DefaultWindow
	burst := limit
	if ec := MatchEndpoint(path, method, l.config.EndpointConfigs); ec != nil {
		limit = ec.Limit
		window = ec.Window
		burst = ec.Burst
		if burst == 0 {
			burst = limit
		}
	}

	// Limit 0 means the endpoint is unmetered (health checks).
	if limit <= 0 {
		return true, Info{Allowed: true}
	}

	key := clientID + ":" + path + ":" + method
	now := time.Now()

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{
			tokens:    float64(burst),
			burst:     burst,
			perSecond: float64(limit) / window.Seconds(),
			refilled:  now,
			lastSeen:  now,
		}
		l.buckets[key] = b
	}
	allowed := b.take(now)
	remaining := int(b.tokens)
	reset := now.Add(b.untilFull())
	retry := time.Duration(0)
	if !allowed {
		retry = b.untilNextToken()
	}
	l.mu.Unlock()

	return allowed, Info{
		Allowed:    allowed,
		Limit:      limit,
		Remaining:  remaining,
		ResetTime:  reset,
		RetryAfter: retry,
	}
}

// Stop shuts down the reaper goroutine.
func (l *Limiter) Stop() {
	close(l.stop)
}

func (l *Limiter) reapLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.reapIdle(time.Now().Add(-time.Hour))
		case <-l.stop:
			return
		}
	}
}

// reapIdle drops buckets not touched since the cutoff. An evicted
// client simply gets a fresh full bucket on its next request.
func (l *Limiter) reapIdle(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}
