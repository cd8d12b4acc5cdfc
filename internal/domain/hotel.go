package domain

// Hotel is the domain representation of a hotel.
// Capacity is the maximum number of guests the hotel can host at any instant.
type Hotel struct {
	ID       HotelID
	Name     string
	City     string
	Address  string
	Capacity int
}

// User is the minimal user representation the booking path needs.
type User struct {
	ID    UserID
	Name  string
	Email string
}
