package domain

import "time"

// BookingStatus is the lifecycle state of a booking.
//
// Occupancy accounting counts PENDING only: CANCELLED bookings never hold
// capacity, and no further states exist in v1.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking is the domain representation of a booking row.
type Booking struct {
	ID      BookingID
	HotelID HotelID
	UserID  UserID

	Stay           StayRange
	NumberOfGuests int
	TotalPrice     int64

	Status BookingStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StayRange is a half-open interval [Checkin, Checkout).
type StayRange struct {
	Checkin  time.Time
	Checkout time.Time
}

// Overlaps reports whether two half-open stay intervals share at least one
// instant. A checkout exactly equal to another stay's checkin does not
// overlap.
func (s StayRange) Overlaps(other StayRange) bool {
	return s.Checkin.Before(other.Checkout) && other.Checkin.Before(s.Checkout)
}

// IsValid reports whether the range is well-formed (checkin strictly before
// checkout).
func (s StayRange) IsValid() bool {
	return s.Checkin.Before(s.Checkout)
}
