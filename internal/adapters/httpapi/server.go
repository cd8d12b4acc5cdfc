package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hrs-cloud/hotel-booking-api/internal/app/bookings"
	"github.com/hrs-cloud/hotel-booking-api/internal/app/hotels"
	"github.com/hrs-cloud/hotel-booking-api/internal/app/users"
	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
	"github.com/hrs-cloud/hotel-booking-api/internal/platform/ratelimit"
	clockport "github.com/hrs-cloud/hotel-booking-api/internal/ports/out/clock"
	idempotencyport "github.com/hrs-cloud/hotel-booking-api/internal/ports/out/idempotency"
)

// Server is the HTTP adapter. It decodes requests, delegates to the app
// services and maps their errors onto the wire.
type Server struct {
	Bookings *bookings.Service
	Hotels   *hotels.Service
	Users    *users.Service

	Idem    idempotencyport.Store
	IdemTTL time.Duration
	Limiter *ratelimit.Limiter
	Clk     clockport.Clock
	Log     *slog.Logger
}

func NewServer(
	bookingsSvc *bookings.Service,
	hotelsSvc *hotels.Service,
	usersSvc *users.Service,
	idem idempotencyport.Store,
	idemTTL time.Duration,
	limiter *ratelimit.Limiter,
	clk clockport.Clock,
	log *slog.Logger,
) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		Bookings: bookingsSvc,
		Hotels:   hotelsSvc,
		Users:    usersSvc,
		Idem:     idem,
		IdemTTL:  idemTTL,
		Limiter:  limiter,
		Clk:      clk,
		Log:      log,
	}
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeBookingInput(w, r)
	if !ok {
		return
	}

	b, err := s.Bookings.CreateBooking(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingResponse(b))
}

func (s *Server) handleUpdateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	in, ok := s.decodeBookingInput(w, r)
	if !ok {
		return
	}

	b, err := s.Bookings.UpdateBooking(r.Context(), domain.BookingID(id), bookings.UpdateBookingInput(in))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(b))
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b, err := s.Bookings.GetBooking(r.Context(), domain.BookingID(id))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(b))
}

func (s *Server) handleListBookingsByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	bs, err := s.Bookings.ListBookingsByUser(r.Context(), domain.UserID(id))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponses(bs))
}

func (s *Server) handleListBookingsByHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "hotelId")
	if !ok {
		return
	}
	bs, err := s.Bookings.ListBookingsByHotel(r.Context(), domain.HotelID(id))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponses(bs))
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.Bookings.CancelBooking(r.Context(), domain.BookingID(id)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateHotel(w http.ResponseWriter, r *http.Request) {
	var req createHotelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h, err := s.Hotels.CreateHotel(r.Context(), hotels.CreateHotelInput{
		Name:     req.Name,
		City:     req.City,
		Address:  req.Address,
		Capacity: req.Capacity,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHotelResponse(h))
}

func (s *Server) handleGetHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h, err := s.Hotels.GetHotel(r.Context(), domain.HotelID(id))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toHotelResponse(h))
}

func (s *Server) handleUpdateHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateHotelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h, err := s.Hotels.UpdateHotel(r.Context(), domain.HotelID(id), hotels.UpdateHotelInput{
		Name:     toOptional(req.Name),
		City:     toOptional(req.City),
		Address:  toOptional(req.Address),
		Capacity: toOptional(req.Capacity),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toHotelResponse(h))
}

func (s *Server) handleDeleteHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.Hotels.DeleteHotel(r.Context(), domain.HotelID(id)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListHotels(w http.ResponseWriter, r *http.Request) {
	hs, err := s.Hotels.ListHotels(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]hotelResponse, 0, len(hs))
	for _, h := range hs {
		out = append(out, toHotelResponse(h))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := s.Users.CreateUser(r.Context(), users.CreateUserInput{Name: req.Name, Email: req.Email})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	u, err := s.Users.GetUser(r.Context(), domain.UserID(id))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// decodeBookingInput decodes and date-parses a booking payload, writing
// the 400 itself on failure.
func (s *Server) decodeBookingInput(w http.ResponseWriter, r *http.Request) (bookings.CreateBookingInput, bool) {
	var req bookingRequest
	if !decodeJSON(w, r, &req) {
		return bookings.CreateBookingInput{}, false
	}

	checkin, err := parseDate(req.CheckinDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_DATE", err.Error(), map[string]any{"field": "checkinDate"})
		return bookings.CreateBookingInput{}, false
	}
	checkout, err := parseDate(req.CheckoutDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_DATE", err.Error(), map[string]any{"field": "checkoutDate"})
		return bookings.CreateBookingInput{}, false
	}

	return bookings.CreateBookingInput{
		HotelID:        domain.HotelID(req.HotelID),
		UserID:         domain.UserID(req.UserID),
		Stay:           domain.StayRange{Checkin: checkin, Checkout: checkout},
		NumberOfGuests: req.NumberOfGuests,
		TotalPrice:     req.TotalPrice,
	}, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "MALFORMED_BODY", "request body is not valid JSON", nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id < 1 {
		writeError(w, r, http.StatusBadRequest, "INVALID_ID", "path parameter "+param+" must be a positive integer", nil)
		return 0, false
	}
	return id, true
}
