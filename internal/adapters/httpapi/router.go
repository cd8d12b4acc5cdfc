// Package httpapi is the HTTP adapter: routing, request decoding and the
// admission middleware (rate limiting, idempotency) in front of the app
// services.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the API HTTP router.
//
// Every POST/PUT route sits behind the idempotency middleware; GETs and
// DELETEs (cancellation is already idempotent) do not. Ordering on the
// booking create path is deliberate: the rate limiter runs before the
// idempotency layer, so a throttled retry never consumes a replay slot.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health endpoint for infra checks.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/bookings", func(r chi.Router) {
			r.With(s.rateLimit, s.idempotent).Post("/", s.handleCreateBooking)
			r.With(s.idempotent).Put("/{id}", s.handleUpdateBooking)
			r.Get("/{id}", s.handleGetBooking)
			r.Delete("/{id}", s.handleCancelBooking)
			r.Get("/user/{userId}", s.handleListBookingsByUser)
			r.Get("/hotel/{hotelId}", s.handleListBookingsByHotel)
		})

		r.Route("/hotels", func(r chi.Router) {
			r.With(s.idempotent).Post("/", s.handleCreateHotel)
			r.Get("/", s.handleListHotels)
			r.Get("/{id}", s.handleGetHotel)
			r.With(s.idempotent).Put("/{id}", s.handleUpdateHotel)
			r.Delete("/{id}", s.handleDeleteHotel)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(s.idempotent).Post("/", s.handleCreateUser)
			r.Get("/{id}", s.handleGetUser)
		})
	})

	return r
}
