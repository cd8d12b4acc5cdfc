package httpapi

import (
	"bytes"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	idempotencyport "github.com/hrs-cloud/hotel-booking-api/internal/ports/out/idempotency"
)

const idempotencyHeader = "Idempotency-Key"

// rateLimit rejects requests once the client's token bucket for this
// route is empty. The bucket key is METHOD:route:clientIP, so clients
// and routes throttle independently.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + ":" + routePattern(r) + ":" + clientIP(r)
		if !s.Limiter.Allow(key) {
			writeError(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests; retry later", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// idempotent enforces the Idempotency-Key protocol on write routes. A
// stored response, success or failure, replays verbatim without running
// the handler again. Store failures degrade to pass-through: losing
// replay protection is better than failing the request.
func (s *Server) idempotent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value := strings.TrimSpace(r.Header.Get(idempotencyHeader))
		if value == "" {
			writeError(w, r, http.StatusBadRequest, "IDEMPOTENCY_KEY_REQUIRED", "Idempotency-Key header is required", nil)
			return
		}

		key := idempotencyport.Key{
			Value:  value,
			Method: r.Method,
			Route:  routePattern(r),
		}

		rec, ok, err := s.Idem.Get(r.Context(), key)
		if err != nil {
			s.Log.Warn("idempotency lookup failed", "route", key.Route, "err", err)
		} else if ok {
			if rec.ContentType != "" {
				w.Header().Set("Content-Type", rec.ContentType)
			}
			w.WriteHeader(rec.StatusCode)
			_, _ = w.Write(rec.Body)
			return
		}

		rw := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		stored := idempotencyport.Record{
			StatusCode:  rw.status,
			ContentType: rw.Header().Get("Content-Type"),
			Body:        rw.body.Bytes(),
			CreatedAt:   s.Clk.Now(),
		}
		if err := s.Idem.Put(r.Context(), key, stored, s.IdemTTL); err != nil {
			s.Log.Warn("idempotency store failed", "route", key.Route, "err", err)
		}
	})
}

// responseRecorder tees the response so the idempotency middleware can
// store what the handler wrote.
type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// routePattern is the chi pattern of the matched route ("/api/v1/bookings/{id}"),
// stable across path parameter values.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// clientIP relies on middleware.RealIP having already folded any
// forwarding headers into RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
