package httpapi

import (
	"fmt"
	"time"

	"github.com/oapi-codegen/nullable"

	"github.com/hrs-cloud/hotel-booking-api/internal/app/hotels"
	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
)

// Booking dates accept a plain calendar date or a full RFC 3339 timestamp.
const dateOnly = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateOnly, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
}

type bookingRequest struct {
	HotelID        int64  `json:"hotelId"`
	UserID         int64  `json:"userId"`
	CheckinDate    string `json:"checkinDate"`
	CheckoutDate   string `json:"checkoutDate"`
	NumberOfGuests int    `json:"numberOfGuests"`
	TotalPrice     int64  `json:"totalPrice"`
}

type bookingResponse struct {
	ID             int64     `json:"id"`
	HotelID        int64     `json:"hotelId"`
	UserID         int64     `json:"userId"`
	CheckinDate    string    `json:"checkinDate"`
	CheckoutDate   string    `json:"checkoutDate"`
	NumberOfGuests int       `json:"numberOfGuests"`
	TotalPrice     int64     `json:"totalPrice"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:             int64(b.ID),
		HotelID:        int64(b.HotelID),
		UserID:         int64(b.UserID),
		CheckinDate:    b.Stay.Checkin.Format(time.RFC3339),
		CheckoutDate:   b.Stay.Checkout.Format(time.RFC3339),
		NumberOfGuests: b.NumberOfGuests,
		TotalPrice:     b.TotalPrice,
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toBookingResponses(bs []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBookingResponse(b))
	}
	return out
}

type createHotelRequest struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	Address  string `json:"address"`
	Capacity int    `json:"capacity"`
}

// updateHotelRequest is a partial update: omitted fields keep their value,
// an explicit null is a validation error because all fields are required
// at rest.
type updateHotelRequest struct {
	Name     nullable.Nullable[string] `json:"name"`
	City     nullable.Nullable[string] `json:"city"`
	Address  nullable.Nullable[string] `json:"address"`
	Capacity nullable.Nullable[int]    `json:"capacity"`
}

func toOptional[T any](n nullable.Nullable[T]) hotels.Optional[T] {
	if !n.IsSpecified() {
		return hotels.Unspecified[T]()
	}
	if n.IsNull() {
		return hotels.Null[T]()
	}
	v, err := n.Get()
	if err != nil {
		return hotels.Null[T]()
	}
	return hotels.Some(v)
}

type hotelResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Address  string `json:"address"`
	Capacity int    `json:"capacity"`
}

func toHotelResponse(h domain.Hotel) hotelResponse {
	return hotelResponse{
		ID:       int64(h.ID),
		Name:     h.Name,
		City:     h.City,
		Address:  h.Address,
		Capacity: h.Capacity,
	}
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{ID: int64(u.ID), Name: u.Name, Email: u.Email}
}
