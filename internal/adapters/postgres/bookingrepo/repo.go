// Package bookingrepo is the postgres implementation of the booking
// repository port.
//
// WithHotelLock maps onto a database transaction holding a row lock on
// the hotel (SELECT ... FOR UPDATE). Concurrent reservations for the
// same hotel serialize on that row; reservations for different hotels
// run in parallel. The occupancy query and the booking write happen
// inside the same transaction, so the capacity check and the insert are
// atomic.
package bookingrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
	"github.com/hrs-cloud/hotel-booking-api/internal/ports/out/bookingrepo"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ bookingrepo.Repository = (*Repo)(nil)

func (r *Repo) WithHotelLock(ctx context.Context, id domain.HotelID, fn func(tx bookingrepo.Tx) error) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&pgTx{tx: tx})
	})
}

func (r *Repo) GetByID(ctx context.Context, id domain.BookingID) (domain.Booking, error) {
	const q = selectBooking + ` WHERE id = $1`

	b, err := scanBooking(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, bookingrepo.ErrNotFound
		}
		return domain.Booking{}, fmt.Errorf("select booking %d: %w", id, err)
	}
	return b, nil
}

func (r *Repo) ListByUserID(ctx context.Context, id domain.UserID) ([]domain.Booking, error) {
	return r.list(ctx, selectBooking+` WHERE user_id = $1 ORDER BY id`, int64(id))
}

func (r *Repo) ListByHotelID(ctx context.Context, id domain.HotelID) ([]domain.Booking, error) {
	return r.list(ctx, selectBooking+` WHERE hotel_id = $1 ORDER BY id`, int64(id))
}

func (r *Repo) list(ctx context.Context, q string, arg int64) ([]domain.Booking, error) {
	rows, err := r.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

func (r *Repo) Save(ctx context.Context, b domain.Booking) error {
	return saveBooking(ctx, r.pool, b)
}

// pgTx adapts a pgx transaction to the locked unit-of-work view.
type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) HotelCapacityForUpdate(ctx context.Context, id domain.HotelID) (int, error) {
	const q = `SELECT capacity FROM hotels WHERE id = $1 FOR UPDATE`

	var capacity int
	err := t.tx.QueryRow(ctx, q, id).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, bookingrepo.ErrHotelNotFound
		}
		return 0, fmt.Errorf("lock hotel %d: %w", id, err)
	}
	return capacity, nil
}

func (t *pgTx) SumGuestsOverlapping(ctx context.Context, id domain.HotelID, stay domain.StayRange, status domain.BookingStatus) (int, error) {
	// Half-open overlap: [a, b) and [c, d) intersect iff a < d and c < b.
	const q = `
		SELECT COALESCE(SUM(number_of_guests), 0)
		FROM bookings
		WHERE hotel_id = $1
		  AND booking_status = $2
		  AND check_in_date < $4
		  AND check_out_date > $3`

	var total int
	err := t.tx.QueryRow(ctx, q, id, status, stay.Checkin, stay.Checkout).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum overlapping guests for hotel %d: %w", id, err)
	}
	return total, nil
}

func (t *pgTx) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const q = `
		INSERT INTO bookings (hotel_id, user_id, check_in_date, check_out_date,
		                      number_of_guests, total_price, booking_status,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := t.tx.QueryRow(ctx, q,
		b.HotelID, b.UserID, b.Stay.Checkin, b.Stay.Checkout,
		b.NumberOfGuests, b.TotalPrice, b.Status,
		b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	return b, nil
}

func (t *pgTx) SaveBooking(ctx context.Context, b domain.Booking) error {
	return saveBooking(ctx, t.tx, b)
}

const selectBooking = `
	SELECT id, hotel_id, user_id, check_in_date, check_out_date,
	       number_of_guests, total_price, booking_status,
	       created_at, updated_at
	FROM bookings`

// queryExecer covers both the pool and a transaction for booking updates.
type queryExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func saveBooking(ctx context.Context, q queryExecer, b domain.Booking) error {
	const sql = `
		UPDATE bookings
		SET hotel_id = $2, user_id = $3, check_in_date = $4, check_out_date = $5,
		    number_of_guests = $6, total_price = $7, booking_status = $8,
		    updated_at = $9
		WHERE id = $1`

	tag, err := q.Exec(ctx, sql,
		b.ID, b.HotelID, b.UserID, b.Stay.Checkin, b.Stay.Checkout,
		b.NumberOfGuests, b.TotalPrice, b.Status, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update booking %d: %w", b.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return bookingrepo.ErrNotFound
	}
	return nil
}

func scanBooking(row pgx.Row) (domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID, &b.HotelID, &b.UserID, &b.Stay.Checkin, &b.Stay.Checkout,
		&b.NumberOfGuests, &b.TotalPrice, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}
