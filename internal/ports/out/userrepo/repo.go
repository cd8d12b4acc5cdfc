package userrepo

import (
	"context"

	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
)

// Repository provides access to persisted users. The booking path only
// needs existence lookups; Create exists for provisioning and tests.
type Repository interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	GetByID(ctx context.Context, id domain.UserID) (domain.User, error)
}
