package bookingrepo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
	"github.com/hrs-cloud/hotel-booking-api/internal/ports/out/bookingrepo"
	"github.com/hrs-cloud/hotel-booking-api/internal/ports/out/hotelrepo"
)

// HotelGetter is the slice of the hotel repository the booking adapter
// needs for capacity lookups under the hotel lock.
type HotelGetter interface {
	GetByID(ctx context.Context, id domain.HotelID) (domain.Hotel, error)
}

// Repo is an in-memory implementation of bookingrepo.Repository.
//
// The hotel capacity lock is a per-hotel buffered channel so acquisition
// can honor ctx cancellation/deadline: locks for different hotels never
// contend, and the check-then-write sequence for one hotel is strictly
// serialized.
type Repo struct {
	hotels HotelGetter

	mu     sync.RWMutex
	byID   map[domain.BookingID]domain.Booking
	nextID domain.BookingID

	lockMu sync.Mutex
	locks  map[domain.HotelID]chan struct{}
}

func NewRepo(hotels HotelGetter) *Repo {
	return &Repo{
		hotels: hotels,
		byID:   make(map[domain.BookingID]domain.Booking),
		nextID: 1,
		locks:  make(map[domain.HotelID]chan struct{}),
	}
}

func (r *Repo) WithHotelLock(ctx context.Context, id domain.HotelID, fn func(tx bookingrepo.Tx) error) error {
	l := r.lockFor(id)
	select {
	case l <- struct{}{}:
		defer func() { <-l }()
	case <-ctx.Done():
		return ctx.Err()
	}
	return fn(&memTx{repo: r})
}

func (r *Repo) lockFor(id domain.HotelID) chan struct{} {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()
	l, ok := r.locks[id]
	if !ok {
		l = make(chan struct{}, 1)
		r.locks[id] = l
	}
	return l
}

func (r *Repo) GetByID(ctx context.Context, id domain.BookingID) (domain.Booking, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byID[id]
	if !ok {
		return domain.Booking{}, bookingrepo.ErrNotFound
	}
	return b, nil
}

func (r *Repo) ListByUserID(ctx context.Context, id domain.UserID) ([]domain.Booking, error) {
	_ = ctx
	return r.list(func(b domain.Booking) bool { return b.UserID == id }), nil
}

func (r *Repo) ListByHotelID(ctx context.Context, id domain.HotelID) ([]domain.Booking, error) {
	_ = ctx
	return r.list(func(b domain.Booking) bool { return b.HotelID == id }), nil
}

func (r *Repo) Save(ctx context.Context, b domain.Booking) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[b.ID]; !ok {
		return bookingrepo.ErrNotFound
	}
	r.byID[b.ID] = b
	return nil
}

func (r *Repo) list(keep func(domain.Booking) bool) []domain.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Booking, 0)
	for _, b := range r.byID {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// memTx performs the in-memory unit of work. Writes apply immediately:
// the service orders its writes after all checks, so there is nothing to
// roll back on a guard rejection.
type memTx struct {
	repo *Repo
}

func (t *memTx) HotelCapacityForUpdate(ctx context.Context, id domain.HotelID) (int, error) {
	h, err := t.repo.hotels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, hotelrepo.ErrNotFound) {
			return 0, bookingrepo.ErrHotelNotFound
		}
		return 0, err
	}
	return h.Capacity, nil
}

func (t *memTx) SumGuestsOverlapping(ctx context.Context, id domain.HotelID, stay domain.StayRange, status domain.BookingStatus) (int, error) {
	_ = ctx
	t.repo.mu.RLock()
	defer t.repo.mu.RUnlock()
	sum := 0
	for _, b := range t.repo.byID {
		if b.HotelID == id && b.Status == status && b.Stay.Overlaps(stay) {
			sum += b.NumberOfGuests
		}
	}
	return sum, nil
}

func (t *memTx) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	_ = ctx
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	if b.ID == 0 {
		b.ID = t.repo.nextID
		t.repo.nextID++
	} else if b.ID >= t.repo.nextID {
		t.repo.nextID = b.ID + 1
	}
	t.repo.byID[b.ID] = b
	return b, nil
}

func (t *memTx) SaveBooking(ctx context.Context, b domain.Booking) error {
	return t.repo.Save(ctx, b)
}
