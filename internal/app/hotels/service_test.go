package hotels

import (
	"context"
	"errors"
	"testing"
	"time"

	memclock "github.com/hrs-cloud/hotel-booking-api/internal/adapters/memory/clock"
	memhotelcache "github.com/hrs-cloud/hotel-booking-api/internal/adapters/memory/hotelcache"
	memhotelrepo "github.com/hrs-cloud/hotel-booking-api/internal/adapters/memory/hotelrepo"
	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
)

func newTestService(t *testing.T) (*Service, *memhotelrepo.Repo, *memhotelcache.Cache) {
	t.Helper()
	repo := memhotelrepo.NewRepo()
	cache := memhotelcache.NewCache(memclock.NewManualClock(time.Unix(1000, 0).UTC()))
	return NewService(repo, cache, time.Hour, nil), repo, cache
}

func hotelsAppError(t *testing.T, err error) *Error {
	t.Helper()
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected app error, got %v", err)
	}
	return ae
}

func TestCreateHotel_NormalizesWhitespace(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)

	h, err := svc.CreateHotel(context.Background(), CreateHotelInput{
		Name:     "  Grand   Plaza ",
		City:     " Berlin",
		Address:  "Alexanderplatz  1",
		Capacity: 40,
	})
	if err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}
	if h.Name != "Grand Plaza" || h.City != "Berlin" || h.Address != "Alexanderplatz 1" {
		t.Fatalf("fields not normalized: %+v", h)
	}
}

func TestCreateHotel_RejectsMarkup(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)

	_, err := svc.CreateHotel(context.Background(), CreateHotelInput{
		Name:     "<script>alert(1)</script>",
		City:     "Berlin",
		Address:  "Alexanderplatz 1",
		Capacity: 40,
	})
	ae := hotelsAppError(t, err)
	if ae.Status != 400 || ae.Code != "UNSAFE_INPUT" {
		t.Fatalf("unexpected error: %+v", ae)
	}
}

func TestCreateHotel_Validation(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateHotel(ctx, CreateHotelInput{Name: "", City: "Berlin", Address: "A 1", Capacity: 10}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	_, err := svc.CreateHotel(ctx, CreateHotelInput{Name: "X", City: "Berlin", Address: "A 1", Capacity: 0})
	ae := hotelsAppError(t, err)
	if ae.Status != 400 || ae.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected error: %+v", ae)
	}
}

func TestGetHotel_ReadsThroughCache(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateHotel(ctx, CreateHotelInput{Name: "Grand Plaza", City: "Berlin", Address: "Alexanderplatz 1", Capacity: 40})
	if err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}

	// First read populates the cache from the repository.
	if _, err := svc.GetHotel(ctx, created.ID); err != nil {
		t.Fatalf("GetHotel: %v", err)
	}

	// With the row gone, a cached read still serves the hotel.
	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	h, err := svc.GetHotel(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetHotel from cache: %v", err)
	}
	if h != created {
		t.Fatalf("cached hotel mismatch: got %+v want %+v", h, created)
	}
}

func TestGetHotel_NotFound(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)

	_, err := svc.GetHotel(context.Background(), 999)
	ae := hotelsAppError(t, err)
	if ae.Status != 404 || ae.Code != "HOTEL_NOT_FOUND" {
		t.Fatalf("unexpected error: %+v", ae)
	}
}

func TestUpdateHotel_PartialAndInvalidation(t *testing.T) {
	t.Parallel()
	svc, _, cache := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateHotel(ctx, CreateHotelInput{Name: "Grand Plaza", City: "Berlin", Address: "Alexanderplatz 1", Capacity: 40})
	if err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}
	if _, err := svc.GetHotel(ctx, created.ID); err != nil {
		t.Fatalf("GetHotel: %v", err)
	}

	updated, err := svc.UpdateHotel(ctx, created.ID, UpdateHotelInput{Capacity: Some(55)})
	if err != nil {
		t.Fatalf("UpdateHotel: %v", err)
	}
	if updated.Capacity != 55 || updated.Name != "Grand Plaza" {
		t.Fatalf("partial update wrong: %+v", updated)
	}

	// The stale cache entry must have been invalidated.
	if _, ok, err := cache.Get(ctx, created.ID); err != nil || ok {
		t.Fatalf("expected cache invalidation, ok=%v err=%v", ok, err)
	}
}

func TestUpdateHotel_NullFieldRejected(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateHotel(ctx, CreateHotelInput{Name: "Grand Plaza", City: "Berlin", Address: "Alexanderplatz 1", Capacity: 40})
	if err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}

	_, err = svc.UpdateHotel(ctx, created.ID, UpdateHotelInput{Capacity: Null[int]()})
	ae := hotelsAppError(t, err)
	if ae.Status != 400 || ae.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected error: %+v", ae)
	}

	_, err = svc.UpdateHotel(ctx, created.ID, UpdateHotelInput{Name: Null[string]()})
	ae = hotelsAppError(t, err)
	if ae.Status != 400 {
		t.Fatalf("unexpected error: %+v", ae)
	}
}

func TestDeleteHotel_InvalidatesCache(t *testing.T) {
	t.Parallel()
	svc, _, cache := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateHotel(ctx, CreateHotelInput{Name: "Grand Plaza", City: "Berlin", Address: "Alexanderplatz 1", Capacity: 40})
	if err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}
	if _, err := svc.GetHotel(ctx, created.ID); err != nil {
		t.Fatalf("GetHotel: %v", err)
	}

	if err := svc.DeleteHotel(ctx, created.ID); err != nil {
		t.Fatalf("DeleteHotel: %v", err)
	}
	if _, ok, err := cache.Get(ctx, created.ID); err != nil || ok {
		t.Fatalf("expected cache invalidation, ok=%v err=%v", ok, err)
	}
	ae := hotelsAppError(t, svc.DeleteHotel(ctx, created.ID))
	if ae.Status != 404 {
		t.Fatalf("unexpected error: %+v", ae)
	}
}

// failingCache errors on every operation to prove the cache is best-effort.
type failingCache struct{}

func (failingCache) Get(context.Context, domain.HotelID) (domain.Hotel, bool, error) {
	return domain.Hotel{}, false, errors.New("cache down")
}
func (failingCache) Set(context.Context, domain.Hotel, time.Duration) error {
	return errors.New("cache down")
}
func (failingCache) Delete(context.Context, domain.HotelID) error {
	return errors.New("cache down")
}

func TestGetHotel_DegradedCacheIsNotFatal(t *testing.T) {
	t.Parallel()
	svc := NewService(memhotelrepo.NewRepo(), failingCache{}, time.Hour, nil)
	ctx := context.Background()

	created, err := svc.CreateHotel(ctx, CreateHotelInput{Name: "Grand Plaza", City: "Berlin", Address: "Alexanderplatz 1", Capacity: 40})
	if err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}
	if _, err := svc.GetHotel(ctx, created.ID); err != nil {
		t.Fatalf("GetHotel with failing cache: %v", err)
	}
	if _, err := svc.UpdateHotel(ctx, created.ID, UpdateHotelInput{Capacity: Some(50)}); err != nil {
		t.Fatalf("UpdateHotel with failing cache: %v", err)
	}
}
