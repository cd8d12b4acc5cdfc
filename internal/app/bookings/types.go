package bookings

import (
	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
)

// CreateBookingInput carries a fully specified booking request.
type CreateBookingInput struct {
	HotelID domain.HotelID
	UserID  domain.UserID

	Stay           domain.StayRange
	NumberOfGuests int
	TotalPrice     int64
}

// UpdateBookingInput replaces the mutable fields of an existing booking.
// Updates re-run the capacity guard against the new stay and guest count.
type UpdateBookingInput struct {
	HotelID domain.HotelID
	UserID  domain.UserID

	Stay           domain.StayRange
	NumberOfGuests int
	TotalPrice     int64
}
