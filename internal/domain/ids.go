package domain

// HotelID is the internal identifier for a hotel record.
type HotelID int64

// UserID is the internal identifier for a user record.
type UserID int64

// BookingID is the internal identifier for a booking record.
type BookingID int64
