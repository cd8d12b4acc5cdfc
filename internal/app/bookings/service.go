package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
	"github.com/hrs-cloud/hotel-booking-api/internal/ports/out/bookingrepo"
	"github.com/hrs-cloud/hotel-booking-api/internal/ports/out/clock"
	"github.com/hrs-cloud/hotel-booking-api/internal/ports/out/hotelrepo"
	"github.com/hrs-cloud/hotel-booking-api/internal/ports/out/userrepo"
)

// Service implements the booking lifecycle and the capacity guard.
//
// Every capacity-changing write (create, update) runs its occupancy check
// and its booking write inside a single hotel-locked unit of work, so two
// concurrent requests for the same hotel can never both pass the check.
type Service struct {
	bookings bookingrepo.Repository
	hotels   hotelrepo.Repository
	users    userrepo.Repository
	clk      clock.Clock

	// lockWait bounds how long a write may queue on the hotel lock.
	lockWait time.Duration
}

func NewService(bookingsRepo bookingrepo.Repository, hotelsRepo hotelrepo.Repository, usersRepo userrepo.Repository, clk clock.Clock, lockWait time.Duration) *Service {
	return &Service{
		bookings: bookingsRepo,
		hotels:   hotelsRepo,
		users:    usersRepo,
		clk:      clk,
		lockWait: lockWait,
	}
}

func (s *Service) CreateBooking(ctx context.Context, in CreateBookingInput) (domain.Booking, error) {
	if err := validateBookingInput(in.Stay, in.NumberOfGuests, in.TotalPrice); err != nil {
		return domain.Booking{}, err
	}
	if err := s.checkHotelAndUser(ctx, in.HotelID, in.UserID); err != nil {
		return domain.Booking{}, err
	}

	now := s.clk.Now()
	b := domain.Booking{
		HotelID:        in.HotelID,
		UserID:         in.UserID,
		Stay:           in.Stay,
		NumberOfGuests: in.NumberOfGuests,
		TotalPrice:     in.TotalPrice,
		Status:         domain.BookingStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var created domain.Booking
	err := s.withCapacityGuard(ctx, in.HotelID, in.Stay, in.NumberOfGuests, func(tx bookingrepo.Tx, guardCtx context.Context) error {
		var err error
		created, err = tx.CreateBooking(guardCtx, b)
		return err
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return created, nil
}

func (s *Service) UpdateBooking(ctx context.Context, id domain.BookingID, in UpdateBookingInput) (domain.Booking, error) {
	if err := validateBookingInput(in.Stay, in.NumberOfGuests, in.TotalPrice); err != nil {
		return domain.Booking{}, err
	}

	existing, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingrepo.ErrNotFound) {
			return domain.Booking{}, &Error{Status: 404, Code: "BOOKING_NOT_FOUND", Message: "booking not found"}
		}
		return domain.Booking{}, err
	}
	if err := s.checkHotelAndUser(ctx, in.HotelID, in.UserID); err != nil {
		return domain.Booking{}, err
	}

	existing.HotelID = in.HotelID
	existing.UserID = in.UserID
	existing.Stay = in.Stay
	existing.NumberOfGuests = in.NumberOfGuests
	existing.TotalPrice = in.TotalPrice
	existing.UpdatedAt = s.clk.Now()

	err = s.withCapacityGuard(ctx, in.HotelID, in.Stay, in.NumberOfGuests, func(tx bookingrepo.Tx, guardCtx context.Context) error {
		return tx.SaveBooking(guardCtx, existing)
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return existing, nil
}

func (s *Service) GetBooking(ctx context.Context, id domain.BookingID) (domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingrepo.ErrNotFound) {
			return domain.Booking{}, &Error{Status: 404, Code: "BOOKING_NOT_FOUND", Message: "booking not found"}
		}
		return domain.Booking{}, err
	}
	return b, nil
}

func (s *Service) ListBookingsByUser(ctx context.Context, id domain.UserID) ([]domain.Booking, error) {
	return s.bookings.ListByUserID(ctx, id)
}

func (s *Service) ListBookingsByHotel(ctx context.Context, id domain.HotelID) ([]domain.Booking, error) {
	return s.bookings.ListByHotelID(ctx, id)
}

// CancelBooking is a soft delete: the row stays, its status flips to
// CANCELLED and it stops counting toward occupancy.
func (s *Service) CancelBooking(ctx context.Context, id domain.BookingID) error {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingrepo.ErrNotFound) {
			return &Error{Status: 404, Code: "BOOKING_NOT_FOUND", Message: "booking not found"}
		}
		return err
	}
	if b.Status == domain.BookingStatusCancelled {
		// Idempotent no-op.
		return nil
	}
	b.Status = domain.BookingStatusCancelled
	b.UpdatedAt = s.clk.Now()
	return s.bookings.Save(ctx, b)
}

// withCapacityGuard acquires the hotel's exclusive capacity lock, verifies
// that the requested guests fit alongside the committed occupancy for the
// stay, and runs write within the same unit of work. The lock wait is
// bounded; a timeout surfaces as a retryable error with nothing committed.
func (s *Service) withCapacityGuard(ctx context.Context, hotelID domain.HotelID, stay domain.StayRange, requestedGuests int, write func(tx bookingrepo.Tx, ctx context.Context) error) error {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()

	err := s.bookings.WithHotelLock(lockCtx, hotelID, func(tx bookingrepo.Tx) error {
		capacity, err := tx.HotelCapacityForUpdate(lockCtx, hotelID)
		if err != nil {
			if errors.Is(err, bookingrepo.ErrHotelNotFound) {
				return &Error{Status: 404, Code: "HOTEL_NOT_FOUND", Message: "hotel not found"}
			}
			return err
		}

		booked, err := tx.SumGuestsOverlapping(lockCtx, hotelID, stay, domain.BookingStatusPending)
		if err != nil {
			return err
		}

		if booked+requestedGuests > capacity {
			return &Error{
				Status:  409,
				Code:    "INSUFFICIENT_CAPACITY",
				Message: "hotel has insufficient capacity for the requested number of guests",
				Details: map[string]any{
					"requestedGuests":   requestedGuests,
					"availableCapacity": capacity - booked,
				},
			}
		}

		return write(tx, lockCtx)
	})
	if err != nil {
		if lockCtx.Err() != nil && ctx.Err() == nil {
			// The bounded lock wait expired, not the caller's deadline.
			return &Error{Status: 503, Code: "CAPACITY_LOCK_TIMEOUT", Message: "timed out waiting for hotel capacity lock; retry later"}
		}
		return err
	}
	return nil
}

func (s *Service) checkHotelAndUser(ctx context.Context, hotelID domain.HotelID, userID domain.UserID) error {
	if _, err := s.hotels.GetByID(ctx, hotelID); err != nil {
		if errors.Is(err, hotelrepo.ErrNotFound) {
			return &Error{Status: 404, Code: "HOTEL_NOT_FOUND", Message: "hotel not found"}
		}
		return err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return &Error{Status: 404, Code: "USER_NOT_FOUND", Message: "user not found"}
		}
		return err
	}
	return nil
}

func validateBookingInput(stay domain.StayRange, guests int, totalPrice int64) error {
	if !stay.IsValid() {
		return &Error{Status: 400, Code: "INVALID_DATE_RANGE", Message: "checkin date must be before checkout date"}
	}
	if guests < 1 {
		return &Error{Status: 400, Code: "INVALID_GUESTS", Message: "number of guests must be at least 1"}
	}
	if totalPrice < 0 {
		return &Error{Status: 400, Code: "INVALID_PRICE", Message: "total price must not be negative"}
	}
	return nil
}
