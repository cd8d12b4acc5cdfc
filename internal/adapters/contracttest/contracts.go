// Package contracttest holds behavioral suites that every implementation
// of an outbound port must pass. Adapter packages call the Run* functions
// from their own tests with a factory for the backend under test.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
	bookingrepoport "github.com/hrs-cloud/hotel-booking-api/internal/ports/out/bookingrepo"
	hotelcacheport "github.com/hrs-cloud/hotel-booking-api/internal/ports/out/hotelcache"
	hotelrepoport "github.com/hrs-cloud/hotel-booking-api/internal/ports/out/hotelrepo"
	idempotencyport "github.com/hrs-cloud/hotel-booking-api/internal/ports/out/idempotency"
	userrepoport "github.com/hrs-cloud/hotel-booking-api/internal/ports/out/userrepo"
)

type CleanupFunc = func()

type HotelRepoFactory func(t *testing.T) (hotelrepoport.Repository, CleanupFunc)
type UserRepoFactory func(t *testing.T) (userrepoport.Repository, CleanupFunc)
type BookingRepoFactory func(t *testing.T) (bookingrepoport.Repository, hotelrepoport.Repository, userrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)
type HotelCacheFactory func(t *testing.T) (hotelcacheport.Cache, CleanupFunc)

func RunHotelRepo(t *testing.T, newRepo HotelRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	created, err := repo.Create(ctx, domain.Hotel{
		Name: "Grand Plaza", City: "Berlin", Address: "Alexanderplatz 1", Capacity: 40,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned hotel ID")
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != created {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, created)
	}

	if _, err := repo.GetByID(ctx, created.ID+1000); !errors.Is(err, hotelrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing hotel, got %v", err)
	}

	got.Capacity = 55
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got2, err := repo.GetByID(ctx, created.ID)
	if err != nil || got2.Capacity != 55 {
		t.Fatalf("expected updated capacity 55, got %+v err=%v", got2, err)
	}

	missing := got
	missing.ID += 1000
	if err := repo.Save(ctx, missing); !errors.Is(err, hotelrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on Save of missing hotel, got %v", err)
	}

	// Deterministic list ordering by ID.
	second, err := repo.Create(ctx, domain.Hotel{
		Name: "Seaside Inn", City: "Hamburg", Address: "Hafenstr. 2", Capacity: 12,
	})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != created.ID || list[1].ID != second.ID {
		t.Fatalf("unexpected list: %+v", list)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, created.ID); !errors.Is(err, hotelrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, created.ID); !errors.Is(err, hotelrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func RunUserRepo(t *testing.T, newRepo UserRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	created, err := repo.Create(ctx, domain.User{Name: "Alice Johnson", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned user ID")
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil || got != created {
		t.Fatalf("round trip mismatch: got %+v err=%v", got, err)
	}

	if _, err := repo.GetByID(ctx, created.ID+1000); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing user, got %v", err)
	}

	// Email uniqueness.
	if _, err := repo.Create(ctx, domain.User{Name: "Alice Clone", Email: "alice@example.com"}); !errors.Is(err, userrepoport.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for duplicate email, got %v", err)
	}
	if _, err := repo.Create(ctx, domain.User{Name: "Bob Miller", Email: "bob@example.com"}); err != nil {
		t.Fatalf("Create with distinct email: %v", err)
	}
}

func RunBookingRepo(t *testing.T, newRepo BookingRepoFactory) {
	t.Helper()
	ctx := context.Background()

	bookings, hotels, users, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	hotel, err := hotels.Create(ctx, domain.Hotel{
		Name: "Grand Plaza", City: "Berlin", Address: "Alexanderplatz 1", Capacity: 10,
	})
	if err != nil {
		t.Fatalf("create hotel: %v", err)
	}
	user, err := users.Create(ctx, domain.User{Name: "Alice Johnson", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stay := domain.StayRange{
		Checkin:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Checkout: time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC),
	}

	var created domain.Booking
	err = bookings.WithHotelLock(ctx, hotel.ID, func(tx bookingrepoport.Tx) error {
		capacity, err := tx.HotelCapacityForUpdate(ctx, hotel.ID)
		if err != nil {
			return err
		}
		if capacity != 10 {
			t.Fatalf("expected capacity 10, got %d", capacity)
		}

		booked, err := tx.SumGuestsOverlapping(ctx, hotel.ID, stay, domain.BookingStatusPending)
		if err != nil {
			return err
		}
		if booked != 0 {
			t.Fatalf("expected empty occupancy, got %d", booked)
		}

		created, err = tx.CreateBooking(ctx, domain.Booking{
			HotelID:        hotel.ID,
			UserID:         user.ID,
			Stay:           stay,
			NumberOfGuests: 4,
			TotalPrice:     48000,
			Status:         domain.BookingStatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		return err
	})
	if err != nil {
		t.Fatalf("WithHotelLock create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned booking ID")
	}

	got, err := bookings.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.NumberOfGuests != 4 || got.Status != domain.BookingStatusPending {
		t.Fatalf("unexpected booking: %+v", got)
	}
	if !got.Stay.Checkin.Equal(stay.Checkin) || !got.Stay.Checkout.Equal(stay.Checkout) {
		t.Fatalf("stay range mismatch: %+v", got.Stay)
	}

	if _, err := bookings.GetByID(ctx, created.ID+1000); !errors.Is(err, bookingrepoport.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing booking, got %v", err)
	}

	// Occupancy sees the committed booking; an adjacent stay does not.
	err = bookings.WithHotelLock(ctx, hotel.ID, func(tx bookingrepoport.Tx) error {
		booked, err := tx.SumGuestsOverlapping(ctx, hotel.ID, stay, domain.BookingStatusPending)
		if err != nil {
			return err
		}
		if booked != 4 {
			t.Fatalf("expected 4 overlapping guests, got %d", booked)
		}

		adjacent := domain.StayRange{Checkin: stay.Checkout, Checkout: stay.Checkout.AddDate(0, 0, 3)}
		booked, err = tx.SumGuestsOverlapping(ctx, hotel.ID, adjacent, domain.BookingStatusPending)
		if err != nil {
			return err
		}
		if booked != 0 {
			t.Fatalf("back-to-back stay must not overlap, got %d guests", booked)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithHotelLock occupancy: %v", err)
	}

	if _, err := bookings.ListByUserID(ctx, user.ID); err != nil {
		t.Fatalf("ListByUserID: %v", err)
	}
	byHotel, err := bookings.ListByHotelID(ctx, hotel.ID)
	if err != nil || len(byHotel) != 1 {
		t.Fatalf("ListByHotelID: got %d bookings, err=%v", len(byHotel), err)
	}

	// Cancellation drops the booking out of occupancy.
	got.Status = domain.BookingStatusCancelled
	got.UpdatedAt = now.Add(time.Hour)
	if err := bookings.Save(ctx, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	err = bookings.WithHotelLock(ctx, hotel.ID, func(tx bookingrepoport.Tx) error {
		booked, err := tx.SumGuestsOverlapping(ctx, hotel.ID, stay, domain.BookingStatusPending)
		if err != nil {
			return err
		}
		if booked != 0 {
			t.Fatalf("cancelled booking still counted: %d guests", booked)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithHotelLock after cancel: %v", err)
	}

	// Locking a missing hotel surfaces ErrHotelNotFound from inside fn.
	err = bookings.WithHotelLock(ctx, hotel.ID+1000, func(tx bookingrepoport.Tx) error {
		_, err := tx.HotelCapacityForUpdate(ctx, hotel.ID+1000)
		return err
	})
	if !errors.Is(err, bookingrepoport.ErrHotelNotFound) {
		t.Fatalf("expected ErrHotelNotFound, got %v", err)
	}
}

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	key := idempotencyport.Key{
		Value:  uuid.NewString(),
		Method: "POST",
		Route:  "/api/v1/bookings",
	}
	rec := idempotencyport.Record{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"id":1}`),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}

	if _, ok, err := store.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected miss before Put, ok=%v err=%v", ok, err)
	}

	if err := store.Put(ctx, key, rec, time.Minute); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if got.StatusCode != 201 || got.ContentType != "application/json" || string(got.Body) != `{"id":1}` {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Same key value under a different method or route is a distinct entry.
	otherRoute := key
	otherRoute.Route = "/api/v1/bookings/1"
	if _, ok, err := store.Get(ctx, otherRoute); err != nil || ok {
		t.Fatalf("key must be scoped to method and route, ok=%v err=%v", ok, err)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.StatusCode = 409
	rec2.Body = []byte(`{"error":"conflict"}`)
	if err := store.Put(ctx, key, rec2, time.Minute); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, key)
	if err != nil || !ok || got.StatusCode != 409 {
		t.Fatalf("expected overwritten record, got ok=%v err=%v rec=%+v", ok, err, got)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, err := store.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected miss after Delete, ok=%v err=%v", ok, err)
	}
}

func RunHotelCache(t *testing.T, newCache HotelCacheFactory) {
	t.Helper()
	ctx := context.Background()

	cache, cleanup := newCache(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	h := domain.Hotel{ID: 7, Name: "Grand Plaza", City: "Berlin", Address: "Alexanderplatz 1", Capacity: 40}

	if _, ok, err := cache.Get(ctx, h.ID); err != nil || ok {
		t.Fatalf("expected miss before Set, ok=%v err=%v", ok, err)
	}

	if err := cache.Set(ctx, h, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := cache.Get(ctx, h.ID)
	if err != nil || !ok || got != h {
		t.Fatalf("expected cached hotel, ok=%v err=%v got=%+v", ok, err, got)
	}

	if err := cache.Delete(ctx, h.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, err := cache.Get(ctx, h.ID); err != nil || ok {
		t.Fatalf("expected miss after Delete, ok=%v err=%v", ok, err)
	}
}
