package hotelrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
	"github.com/hrs-cloud/hotel-booking-api/internal/ports/out/hotelrepo"
)

// Repo is an in-memory implementation of hotelrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu     sync.RWMutex
	byID   map[domain.HotelID]domain.Hotel
	nextID domain.HotelID
}

func NewRepo() *Repo {
	return &Repo{
		byID:   make(map[domain.HotelID]domain.Hotel),
		nextID: 1,
	}
}

func (r *Repo) Create(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if h.ID == 0 {
		h.ID = r.nextID
		r.nextID++
	} else if h.ID >= r.nextID {
		r.nextID = h.ID + 1
	}
	r.byID[h.ID] = h
	return h, nil
}

func (r *Repo) Save(ctx context.Context, h domain.Hotel) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[h.ID]; !ok {
		return hotelrepo.ErrNotFound
	}
	r.byID[h.ID] = h
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.HotelID) (domain.Hotel, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byID[id]
	if !ok {
		return domain.Hotel{}, hotelrepo.ErrNotFound
	}
	return h, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.HotelID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return hotelrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Hotel, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Hotel, 0, len(r.byID))
	for _, h := range r.byID {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
