package bookingrepo

import (
	"context"

	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
)

// Tx is the view available inside a hotel-locked unit of work.
//
// Everything called on a Tx happens under the exclusive capacity lock of
// the hotel passed to WithHotelLock, and commits or rolls back atomically
// with the unit of work.
type Tx interface {
	// HotelCapacityForUpdate returns the hotel's capacity while holding the
	// exclusive lock on its capacity state. Returns hotelrepo-equivalent
	// not-found via ErrHotelNotFound.
	HotelCapacityForUpdate(ctx context.Context, id domain.HotelID) (int, error)

	// SumGuestsOverlapping returns the total NumberOfGuests over bookings
	// for the hotel whose status equals status and whose stay interval
	// overlaps the given half-open range.
	SumGuestsOverlapping(ctx context.Context, id domain.HotelID, stay domain.StayRange, status domain.BookingStatus) (int, error)

	// CreateBooking persists a new booking row and returns it with its
	// assigned ID.
	CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// SaveBooking updates an existing booking row.
	SaveBooking(ctx context.Context, b domain.Booking) error
}

// Repository provides access to persisted bookings.
//
// WithHotelLock is the serialization point for capacity reservations: no
// two invocations for the same hotel interleave, while invocations for
// different hotels proceed in parallel. Lock acquisition honors ctx
// cancellation/deadline.
type Repository interface {
	WithHotelLock(ctx context.Context, id domain.HotelID, fn func(tx Tx) error) error

	GetByID(ctx context.Context, id domain.BookingID) (domain.Booking, error)
	ListByUserID(ctx context.Context, id domain.UserID) ([]domain.Booking, error)
	ListByHotelID(ctx context.Context, id domain.HotelID) ([]domain.Booking, error)

	// Save updates a booking outside any capacity lock (status-only
	// transitions such as cancellation).
	Save(ctx context.Context, b domain.Booking) error
}
