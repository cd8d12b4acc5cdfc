package hotelcache

import (
	"context"
	"sync"
	"time"

	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
	"github.com/hrs-cloud/hotel-booking-api/internal/ports/out/clock"
)

type entry struct {
	hotel     domain.Hotel
	expiresAt time.Time
}

// Cache is an in-memory implementation of hotelcache.Cache with TTL
// expiry. It is safe for concurrent use.
type Cache struct {
	clk clock.Clock

	mu sync.Mutex
	m  map[domain.HotelID]entry
}

func NewCache(clk clock.Clock) *Cache {
	return &Cache{
		clk: clk,
		m:   make(map[domain.HotelID]entry),
	}
}

func (c *Cache) Get(ctx context.Context, id domain.HotelID) (domain.Hotel, bool, error) {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[id]
	if !ok {
		return domain.Hotel{}, false, nil
	}
	if !c.clk.Now().Before(e.expiresAt) {
		delete(c.m, id)
		return domain.Hotel{}, false, nil
	}
	return e.hotel, true, nil
}

func (c *Cache) Set(ctx context.Context, h domain.Hotel, ttl time.Duration) error {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[h.ID] = entry{hotel: h, expiresAt: c.clk.Now().Add(ttl)}
	return nil
}

func (c *Cache) Delete(ctx context.Context, id domain.HotelID) error {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, id)
	return nil
}
