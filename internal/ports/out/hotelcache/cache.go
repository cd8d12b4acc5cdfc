package hotelcache

import (
	"context"
	"time"

	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
)

// Cache is a read-through cache for hotel-by-id lookups.
//
// It is strictly an accelerator: a miss or an error must make the caller
// fall back to the repository, never fail the request.
type Cache interface {
	Get(ctx context.Context, id domain.HotelID) (domain.Hotel, bool, error)
	Set(ctx context.Context, h domain.Hotel, ttl time.Duration) error
	Delete(ctx context.Context, id domain.HotelID) error
}
