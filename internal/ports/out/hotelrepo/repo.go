package hotelrepo

import (
	"context"

	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
)

// Repository provides access to persisted hotels.
//
// Reads through this interface are shared (non-locking). The exclusive
// capacity lock lives on bookingrepo.Tx, because it must be held together
// with the occupancy query and the booking write.
type Repository interface {
	Create(ctx context.Context, h domain.Hotel) (domain.Hotel, error)
	Save(ctx context.Context, h domain.Hotel) error
	GetByID(ctx context.Context, id domain.HotelID) (domain.Hotel, error)
	Delete(ctx context.Context, id domain.HotelID) error
	List(ctx context.Context) ([]domain.Hotel, error)
}
