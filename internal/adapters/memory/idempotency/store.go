package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/hrs-cloud/hotel-booking-api/internal/ports/out/clock"
	"github.com/hrs-cloud/hotel-booking-api/internal/ports/out/idempotency"
)

type entry struct {
	rec       idempotency.Record
	expiresAt time.Time
}

// Store is an in-memory implementation of idempotency.Store with TTL
// expiry. It is safe for concurrent use.
type Store struct {
	clk clock.Clock

	mu sync.Mutex
	m  map[idempotency.Key]entry
}

func NewStore(clk clock.Clock) *Store {
	return &Store{
		clk: clk,
		m:   make(map[idempotency.Key]entry),
	}
}

func (s *Store) Get(ctx context.Context, key idempotency.Key) (idempotency.Record, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[key]
	if !ok {
		return idempotency.Record{}, false, nil
	}
	if !s.clk.Now().Before(e.expiresAt) {
		delete(s.m, key)
		return idempotency.Record{}, false, nil
	}
	return e.rec, true, nil
}

func (s *Store) Put(ctx context.Context, key idempotency.Key, rec idempotency.Record, ttl time.Duration) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = entry{rec: rec, expiresAt: s.clk.Now().Add(ttl)}
	return nil
}

func (s *Store) Delete(ctx context.Context, key idempotency.Key) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}
