// Package ratelimit implements a keyed token-bucket admission limiter.
//
// Each rate-limit key (method + route + client identity) owns one bucket.
// Buckets are created full on first use, refill lazily on access, and can
// be pruned once idle. Allow never blocks and performs no I/O: it is a
// purely local admission decision.
package ratelimit

import (
	"sync"
	"time"
)

// Config holds the token bucket parameters. All values must be positive.
type Config struct {
	// Capacity is the maximum token count and the burst allowance of a
	// fresh bucket.
	Capacity int
	// RefillRate is the number of tokens added per elapsed RefillInterval.
	RefillRate int
	// RefillInterval is the period between refills.
	RefillInterval time.Duration
}

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastSeen   time.Time
}

// Limiter owns the key → bucket mapping. It is safe for concurrent use;
// token consumption for a key is atomic across callers.
type Limiter struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

func New(cfg Config) *Limiter {
	return NewWithClock(cfg, time.Now)
}

// NewWithClock injects the time source for deterministic tests.
func NewWithClock(cfg Config, now func() time.Time) *Limiter {
	return &Limiter{
		cfg:     cfg,
		now:     now,
		buckets: make(map[string]*bucket),
	}
}

// Allow consumes one token from the key's bucket if available and reports
// whether the request may proceed. A key seen for the first time gets a
// full bucket, so a burst of Capacity requests is admitted immediately.
func (l *Limiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.cfg.Capacity, lastRefill: now}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.refill(b, now)

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// Tokens returns the current token count for a key after refill. A key
// with no bucket reports a full one.
func (l *Limiter) Tokens(key string) int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		return l.cfg.Capacity
	}
	l.refill(b, now)
	return b.tokens
}

// refill applies the whole refill intervals elapsed since lastRefill and
// advances lastRefill by exactly the consumed intervals, so fractional
// progress toward the next refill is never discarded.
func (l *Limiter) refill(b *bucket, now time.Time) {
	elapsed := now.Sub(b.lastRefill)
	if elapsed < l.cfg.RefillInterval {
		return
	}
	intervals := int64(elapsed / l.cfg.RefillInterval)

	tokens := b.tokens + int(intervals)*l.cfg.RefillRate
	if tokens > l.cfg.Capacity || tokens < 0 {
		tokens = l.cfg.Capacity
	}
	b.tokens = tokens
	b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * l.cfg.RefillInterval)
}

// PruneStale drops buckets not touched within maxIdle and returns how many
// were removed. Intended to be called periodically when keys carry real
// client identity (per-IP cardinality is unbounded).
func (l *Limiter) PruneStale(maxIdle time.Duration) int {
	cutoff := l.now().Add(-maxIdle)

	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			n++
		}
	}
	return n
}
