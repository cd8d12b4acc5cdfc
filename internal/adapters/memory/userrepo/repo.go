package userrepo

import (
	"context"
	"sync"

	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
	"github.com/hrs-cloud/hotel-booking-api/internal/ports/out/userrepo"
)

// Repo is an in-memory implementation of userrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu      sync.RWMutex
	byID    map[domain.UserID]domain.User
	byEmail map[string]domain.UserID
	nextID  domain.UserID
}

func NewRepo() *Repo {
	return &Repo{
		byID:    make(map[domain.UserID]domain.User),
		byEmail: make(map[string]domain.UserID),
		nextID:  1,
	}
}

func (r *Repo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	// Email uniqueness, mirroring the UNIQUE constraint on users.email.
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.User{}, userrepo.ErrAlreadyExists
	}
	if u.ID == 0 {
		u.ID = r.nextID
		r.nextID++
	} else if u.ID >= r.nextID {
		r.nextID = u.ID + 1
	}
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return u, nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, userrepo.ErrNotFound
	}
	return u, nil
}
