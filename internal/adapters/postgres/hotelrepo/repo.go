// Package hotelrepo is the postgres implementation of the hotel
// repository port.
package hotelrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
	"github.com/hrs-cloud/hotel-booking-api/internal/ports/out/hotelrepo"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ hotelrepo.Repository = (*Repo)(nil)

func (r *Repo) Create(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	const q = `
		INSERT INTO hotels (name, city, address, capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	if err := r.pool.QueryRow(ctx, q, h.Name, h.City, h.Address, h.Capacity).Scan(&h.ID); err != nil {
		return domain.Hotel{}, fmt.Errorf("insert hotel: %w", err)
	}
	return h, nil
}

func (r *Repo) Save(ctx context.Context, h domain.Hotel) error {
	const q = `
		UPDATE hotels
		SET name = $2, city = $3, address = $4, capacity = $5
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, q, h.ID, h.Name, h.City, h.Address, h.Capacity)
	if err != nil {
		return fmt.Errorf("update hotel %d: %w", h.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return hotelrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.HotelID) (domain.Hotel, error) {
	const q = `
		SELECT id, name, city, address, capacity
		FROM hotels
		WHERE id = $1`

	var h domain.Hotel
	err := r.pool.QueryRow(ctx, q, id).Scan(&h.ID, &h.Name, &h.City, &h.Address, &h.Capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Hotel{}, hotelrepo.ErrNotFound
		}
		return domain.Hotel{}, fmt.Errorf("select hotel %d: %w", id, err)
	}
	return h, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.HotelID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM hotels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete hotel %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return hotelrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Hotel, error) {
	const q = `
		SELECT id, name, city, address, capacity
		FROM hotels
		ORDER BY id`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		var h domain.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.City, &h.Address, &h.Capacity); err != nil {
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	return out, nil
}
