// Package userrepo is the postgres implementation of the user
// repository port.
package userrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrs-cloud/hotel-booking-api/internal/adapters/postgres"
	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
	"github.com/hrs-cloud/hotel-booking-api/internal/ports/out/userrepo"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ userrepo.Repository = (*Repo)(nil)

func (r *Repo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (name, email)
		VALUES ($1, $2)
		RETURNING id`

	if err := r.pool.QueryRow(ctx, q, u.Name, u.Email).Scan(&u.ID); err != nil {
		// users.email carries a UNIQUE constraint.
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return domain.User{}, userrepo.ErrAlreadyExists
		}
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	const q = `
		SELECT id, name, email
		FROM users
		WHERE id = $1`

	var u domain.User
	err := r.pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, userrepo.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("select user %d: %w", id, err)
	}
	return u, nil
}
