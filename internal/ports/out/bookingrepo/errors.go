package bookingrepo

import "errors"

var (
	ErrNotFound      = errors.New("booking not found")
	ErrHotelNotFound = errors.New("hotel not found")
)
