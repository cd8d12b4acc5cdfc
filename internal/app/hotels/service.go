package hotels

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
	"github.com/hrs-cloud/hotel-booking-api/internal/ports/out/hotelcache"
	"github.com/hrs-cloud/hotel-booking-api/internal/ports/out/hotelrepo"
)

// Service implements hotel CRUD with a read-through hotel-by-id cache.
//
// Cache failures are logged and swallowed: the repository is always the
// source of truth and a degraded cache must never fail a request.
type Service struct {
	hotels   hotelrepo.Repository
	cache    hotelcache.Cache
	cacheTTL time.Duration
	log      *slog.Logger
}

func NewService(hotelsRepo hotelrepo.Repository, cache hotelcache.Cache, cacheTTL time.Duration, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		hotels:   hotelsRepo,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func (s *Service) CreateHotel(ctx context.Context, in CreateHotelInput) (domain.Hotel, error) {
	h := domain.Hotel{
		Name:     domain.NormalizeText(in.Name),
		City:     domain.NormalizeText(in.City),
		Address:  domain.NormalizeText(in.Address),
		Capacity: in.Capacity,
	}
	if err := validateHotel(h); err != nil {
		return domain.Hotel{}, err
	}
	return s.hotels.Create(ctx, h)
}

func (s *Service) GetHotel(ctx context.Context, id domain.HotelID) (domain.Hotel, error) {
	if s.cache != nil {
		if h, ok, err := s.cache.Get(ctx, id); err != nil {
			s.log.Warn("hotel cache get failed", "hotelId", int64(id), "err", err)
		} else if ok {
			return h, nil
		}
	}

	h, err := s.hotels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, hotelrepo.ErrNotFound) {
			return domain.Hotel{}, &Error{Status: 404, Code: "HOTEL_NOT_FOUND", Message: "hotel not found"}
		}
		return domain.Hotel{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, h, s.cacheTTL); err != nil {
			s.log.Warn("hotel cache set failed", "hotelId", int64(id), "err", err)
		}
	}
	return h, nil
}

func (s *Service) UpdateHotel(ctx context.Context, id domain.HotelID, in UpdateHotelInput) (domain.Hotel, error) {
	h, err := s.hotels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, hotelrepo.ErrNotFound) {
			return domain.Hotel{}, &Error{Status: 404, Code: "HOTEL_NOT_FOUND", Message: "hotel not found"}
		}
		return domain.Hotel{}, err
	}

	applyText := func(dst *string, o Optional[string], field string) error {
		if !o.IsSpecified() {
			return nil
		}
		if o.IsNull() {
			return &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid " + field, Details: map[string]any{field: "cannot be null"}}
		}
		*dst = domain.NormalizeText(o.Value())
		return nil
	}
	if err := applyText(&h.Name, in.Name, "name"); err != nil {
		return domain.Hotel{}, err
	}
	if err := applyText(&h.City, in.City, "city"); err != nil {
		return domain.Hotel{}, err
	}
	if err := applyText(&h.Address, in.Address, "address"); err != nil {
		return domain.Hotel{}, err
	}
	if in.Capacity.IsSpecified() {
		if in.Capacity.IsNull() {
			return domain.Hotel{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid capacity", Details: map[string]any{"capacity": "cannot be null"}}
		}
		h.Capacity = in.Capacity.Value()
	}

	if err := validateHotel(h); err != nil {
		return domain.Hotel{}, err
	}
	if err := s.hotels.Save(ctx, h); err != nil {
		return domain.Hotel{}, err
	}
	s.invalidate(ctx, id)
	return h, nil
}

func (s *Service) DeleteHotel(ctx context.Context, id domain.HotelID) error {
	if err := s.hotels.Delete(ctx, id); err != nil {
		if errors.Is(err, hotelrepo.ErrNotFound) {
			return &Error{Status: 404, Code: "HOTEL_NOT_FOUND", Message: "hotel not found"}
		}
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	return s.hotels.List(ctx)
}

func (s *Service) invalidate(ctx context.Context, id domain.HotelID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.Warn("hotel cache delete failed", "hotelId", int64(id), "err", err)
	}
}

func validateHotel(h domain.Hotel) error {
	for field, v := range map[string]string{"name": h.Name, "city": h.City, "address": h.Address} {
		if v == "" {
			return &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid " + field, Details: map[string]any{field: "must be non-empty"}}
		}
		if domain.ContainsMarkup(v) {
			return &Error{Status: 400, Code: "UNSAFE_INPUT", Message: "invalid input: potential markup detected", Details: map[string]any{"field": field}}
		}
	}
	if h.Capacity < 1 {
		return &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid capacity", Details: map[string]any{"capacity": "must be >= 1"}}
	}
	return nil
}
