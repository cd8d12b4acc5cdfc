// Package users implements guest provisioning. Bookings reference users
// by ID, so a user must exist before their first booking.
package users

import (
	"context"
	"errors"
	"strings"

	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
	"github.com/hrs-cloud/hotel-booking-api/internal/ports/out/userrepo"
)

type CreateUserInput struct {
	Name  string
	Email string
}

type Service struct {
	users userrepo.Repository
}

func NewService(usersRepo userrepo.Repository) *Service {
	return &Service{users: usersRepo}
}

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (domain.User, error) {
	u := domain.User{
		Name:  domain.NormalizeText(in.Name),
		Email: strings.TrimSpace(in.Email),
	}
	if u.Name == "" {
		return domain.User{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid name", Details: map[string]any{"name": "must be non-empty"}}
	}
	if domain.ContainsMarkup(u.Name) {
		return domain.User{}, &Error{Status: 400, Code: "UNSAFE_INPUT", Message: "invalid input: potential markup detected", Details: map[string]any{"field": "name"}}
	}
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return domain.User{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid email", Details: map[string]any{"email": "must be a valid address"}}
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, userrepo.ErrAlreadyExists) {
			return domain.User{}, &Error{Status: 409, Code: "USER_ALREADY_EXISTS", Message: "a user with this email already exists"}
		}
		return domain.User{}, err
	}
	return created, nil
}

func (s *Service) GetUser(ctx context.Context, id domain.UserID) (domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, &Error{Status: 404, Code: "USER_NOT_FOUND", Message: "user not found"}
		}
		return domain.User{}, err
	}
	return u, nil
}
