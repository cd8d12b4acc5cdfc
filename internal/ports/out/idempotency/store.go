package idempotency

import (
	"context"
	"time"
)

// Key identifies a logical write operation for idempotency purposes.
//
// Value is the caller-provided Idempotency-Key header. Method and Route
// scope the key to one endpoint so a key reused against a different
// endpoint is treated as a new operation rather than replayed.
type Key struct {
	Value  string
	Method string
	Route  string
}

// Record is the stored response replayed verbatim for a duplicate request.
type Record struct {
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// Store persists idempotency records for replaying responses on retries.
// Records expire after the TTL passed to Put; an expired record behaves as
// absent.
type Store interface {
	Get(ctx context.Context, key Key) (Record, bool, error)
	Put(ctx context.Context, key Key, rec Record, ttl time.Duration) error
	Delete(ctx context.Context, key Key) error
}
