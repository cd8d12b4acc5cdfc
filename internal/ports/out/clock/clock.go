package clock

import "time"

// Clock is the time source for booking timestamps, TTL expiry and the
// capacity lock wait. Tests substitute a manual implementation.
type Clock interface {
	Now() time.Time
}
