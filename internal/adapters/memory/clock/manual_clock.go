package clock

import (
	"sync"
	"time"
)

// ManualClock is a clock that only moves when a test advances it. TTL
// expiry (idempotency records, hotel cache) and limiter refill tests
// depend on exact control over elapsed time.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
