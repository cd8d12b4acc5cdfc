package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/hrs-cloud/hotel-booking-api/internal/app/bookings"
	"github.com/hrs-cloud/hotel-booking-api/internal/app/hotels"
	"github.com/hrs-cloud/hotel-booking-api/internal/app/users"
)

type errorBody struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	body := errorResponse{Error: errorBody{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: middleware.GetReqID(r.Context()),
	}}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeServiceError maps app-layer errors to their HTTP shape. Anything
// that is not an app error is a 500 and its cause stays server-side.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if be := (*bookings.Error)(nil); errors.As(err, &be) {
		writeError(w, r, be.Status, be.Code, be.Message, be.Details)
		return
	}
	if he := (*hotels.Error)(nil); errors.As(err, &he) {
		writeError(w, r, he.Status, he.Code, he.Message, he.Details)
		return
	}
	if ue := (*users.Error)(nil); errors.As(err, &ue) {
		writeError(w, r, ue.Status, ue.Code, ue.Message, ue.Details)
		return
	}
	s.Log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
}
