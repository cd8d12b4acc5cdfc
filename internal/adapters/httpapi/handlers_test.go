package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	membookingrepo "github.com/hrs-cloud/hotel-booking-api/internal/adapters/memory/bookingrepo"
	memclock "github.com/hrs-cloud/hotel-booking-api/internal/adapters/memory/clock"
	memhotelcache "github.com/hrs-cloud/hotel-booking-api/internal/adapters/memory/hotelcache"
	memhotelrepo "github.com/hrs-cloud/hotel-booking-api/internal/adapters/memory/hotelrepo"
	memidempotency "github.com/hrs-cloud/hotel-booking-api/internal/adapters/memory/idempotency"
	memuserrepo "github.com/hrs-cloud/hotel-booking-api/internal/adapters/memory/userrepo"
	"github.com/hrs-cloud/hotel-booking-api/internal/app/bookings"
	"github.com/hrs-cloud/hotel-booking-api/internal/app/hotels"
	"github.com/hrs-cloud/hotel-booking-api/internal/app/users"
	"github.com/hrs-cloud/hotel-booking-api/internal/domain"
	"github.com/hrs-cloud/hotel-booking-api/internal/platform/ratelimit"
	idempotencyport "github.com/hrs-cloud/hotel-booking-api/internal/ports/out/idempotency"
)

type testEnv struct {
	handler http.Handler
	clk     *memclock.ManualClock
	hotel   domain.Hotel
	user    domain.User
}

func newTestEnv(t *testing.T, rlCfg ratelimit.Config) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, rlCfg, nil)
}

// newTestEnvWithStore lets a test swap in a misbehaving idempotency store.
func newTestEnvWithStore(t *testing.T, rlCfg ratelimit.Config, idem idempotencyport.Store) *testEnv {
	t.Helper()
	ctx := context.Background()

	clk := memclock.NewManualClock(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	hotelRepo := memhotelrepo.NewRepo()
	userRepo := memuserrepo.NewRepo()
	bookingRepo := membookingrepo.NewRepo(hotelRepo)
	if idem == nil {
		idem = memidempotency.NewStore(clk)
	}
	cache := memhotelcache.NewCache(clk)

	h, err := hotelRepo.Create(ctx, domain.Hotel{Name: "Grand Plaza", City: "Berlin", Address: "Alexanderplatz 1", Capacity: 20})
	if err != nil {
		t.Fatalf("create hotel: %v", err)
	}
	u, err := userRepo.Create(ctx, domain.User{Name: "Alice Johnson", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	limiter := ratelimit.NewWithClock(rlCfg, clk.Now)
	api := NewServer(
		bookings.NewService(bookingRepo, hotelRepo, userRepo, clk, time.Second),
		hotels.NewService(hotelRepo, cache, time.Hour, nil),
		users.NewService(userRepo),
		idem,
		10*time.Minute,
		limiter,
		clk,
		nil,
	)

	return &testEnv{handler: NewRouter(api), clk: clk, hotel: h, user: u}
}

func defaultRateLimit() ratelimit.Config {
	return ratelimit.Config{Capacity: 100, RefillRate: 10, RefillInterval: time.Second}
}

func (e *testEnv) do(t *testing.T, method, path, idemKey string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) bookingBody(guests int) map[string]any {
	return map[string]any{
		"hotelId":        int64(e.hotel.ID),
		"userId":         int64(e.user.ID),
		"checkinDate":    "2026-06-01",
		"checkoutDate":   "2026-06-05",
		"numberOfGuests": guests,
		"totalPrice":     int64(guests) * 10000,
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Error.Code
}

func TestCreateBooking_Created(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, defaultRateLimit())

	rec := e.do(t, http.MethodPost, "/api/v1/bookings", "key-1", e.bookingBody(4))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp bookingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == 0 || resp.Status != "PENDING" || resp.NumberOfGuests != 4 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCreateBooking_MissingIdempotencyKeyIs400(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, defaultRateLimit())

	rec := e.do(t, http.MethodPost, "/api/v1/bookings", "", e.bookingBody(4))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "IDEMPOTENCY_KEY_REQUIRED" {
		t.Fatalf("code = %q", code)
	}
}

func TestCreateBooking_ReplaysStoredResponse(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, defaultRateLimit())

	first := e.do(t, http.MethodPost, "/api/v1/bookings", "key-replay", e.bookingBody(4))
	if first.Code != http.StatusCreated {
		t.Fatalf("first status = %d", first.Code)
	}

	second := e.do(t, http.MethodPost, "/api/v1/bookings", "key-replay", e.bookingBody(4))
	if second.Code != http.StatusCreated {
		t.Fatalf("replay status = %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replay body differs:\nfirst:  %s\nsecond: %s", first.Body.String(), second.Body.String())
	}

	// The handler must not have run twice: only one booking exists.
	list := e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/bookings/hotel/%d", e.hotel.ID), "", nil)
	var bs []bookingResponse
	if err := json.Unmarshal(list.Body.Bytes(), &bs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(bs) != 1 {
		t.Fatalf("expected 1 booking after replay, got %d", len(bs))
	}
}

func TestCreateBooking_FailureIsCachedAgainstKey(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, defaultRateLimit())

	// 25 guests against capacity 20: a 409, stored under the key.
	first := e.do(t, http.MethodPost, "/api/v1/bookings", "key-conflict", e.bookingBody(25))
	if first.Code != http.StatusConflict {
		t.Fatalf("first status = %d, body = %s", first.Code, first.Body.String())
	}

	second := e.do(t, http.MethodPost, "/api/v1/bookings", "key-conflict", e.bookingBody(25))
	if second.Code != http.StatusConflict || second.Body.String() != first.Body.String() {
		t.Fatalf("replayed failure differs: %d %s", second.Code, second.Body.String())
	}
}

func TestCreateBooking_RateLimited(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, ratelimit.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Second})

	for i := 0; i < 2; i++ {
		rec := e.do(t, http.MethodPost, "/api/v1/bookings", fmt.Sprintf("key-%d", i), e.bookingBody(1))
		if rec.Code != http.StatusCreated {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}

	rec := e.do(t, http.MethodPost, "/api/v1/bookings", "key-3", e.bookingBody(1))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if code := errorCode(t, rec); code != "RATE_LIMITED" {
		t.Fatalf("code = %q", code)
	}

	// One refill interval restores one admission.
	e.clk.Advance(time.Second)
	rec = e.do(t, http.MethodPost, "/api/v1/bookings", "key-4", e.bookingBody(1))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status after refill = %d", rec.Code)
	}
}

func TestCreateBooking_MalformedDateIs400(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, defaultRateLimit())

	body := e.bookingBody(2)
	body["checkinDate"] = "06/01/2026"
	rec := e.do(t, http.MethodPost, "/api/v1/bookings", "key-bad-date", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "INVALID_DATE" {
		t.Fatalf("code = %q", code)
	}
}

func TestUpdateBooking_RequiresIdempotencyKey(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, defaultRateLimit())

	created := e.do(t, http.MethodPost, "/api/v1/bookings", "key-1", e.bookingBody(4))
	var b bookingResponse
	if err := json.Unmarshal(created.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec := e.do(t, http.MethodPut, fmt.Sprintf("/api/v1/bookings/%d", b.ID), "", e.bookingBody(5))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = e.do(t, http.MethodPut, fmt.Sprintf("/api/v1/bookings/%d", b.ID), "key-2", e.bookingBody(5))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteBooking_SoftCancels(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, defaultRateLimit())

	created := e.do(t, http.MethodPost, "/api/v1/bookings", "key-1", e.bookingBody(4))
	var b bookingResponse
	if err := json.Unmarshal(created.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec := e.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/bookings/%d", b.ID), "", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	// The row survives with CANCELLED status.
	rec = e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d", b.ID), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got bookingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != "CANCELLED" {
		t.Fatalf("status = %q, want CANCELLED", got.Status)
	}
}

func TestGetBooking_NotFound(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, defaultRateLimit())

	rec := e.do(t, http.MethodGet, "/api/v1/bookings/999", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "BOOKING_NOT_FOUND" {
		t.Fatalf("code = %q", code)
	}
}

func TestHotels_CRUD(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, defaultRateLimit())

	created := e.do(t, http.MethodPost, "/api/v1/hotels", "hotel-key-1", map[string]any{
		"name": "Seaside Inn", "city": "Hamburg", "address": "Hafenstr. 2", "capacity": 12,
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", created.Code, created.Body.String())
	}
	var h hotelResponse
	if err := json.Unmarshal(created.Body.Bytes(), &h); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec := e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/hotels/%d", h.ID), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	// Partial update: only capacity changes; name stays.
	rec = e.do(t, http.MethodPut, fmt.Sprintf("/api/v1/hotels/%d", h.ID), "hotel-key-2", map[string]any{"capacity": 15})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var updated hotelResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Capacity != 15 || updated.Name != "Seaside Inn" {
		t.Fatalf("unexpected update: %+v", updated)
	}

	// Explicit null is rejected, omission is not.
	rec = e.do(t, http.MethodPut, fmt.Sprintf("/api/v1/hotels/%d", h.ID), "hotel-key-3", map[string]any{"capacity": nil})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("null capacity status = %d", rec.Code)
	}

	rec = e.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/hotels/%d", h.ID), "", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/hotels/%d", h.ID), "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", rec.Code)
	}
}

func TestHotels_MarkupRejected(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, defaultRateLimit())

	rec := e.do(t, http.MethodPost, "/api/v1/hotels", "hotel-key-markup", map[string]any{
		"name": "<b>Shiny</b>", "city": "Berlin", "address": "A 1", "capacity": 5,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "UNSAFE_INPUT" {
		t.Fatalf("code = %q", code)
	}
}

func TestUsers_CreateAndGet(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, defaultRateLimit())

	created := e.do(t, http.MethodPost, "/api/v1/users", "user-key-1", map[string]any{
		"name": "Bob Miller", "email": "bob@example.com",
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", created.Code, created.Body.String())
	}
	var u userResponse
	if err := json.Unmarshal(created.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec := e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", u.ID), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = e.do(t, http.MethodPost, "/api/v1/users", "user-key-2", map[string]any{"name": "X", "email": "not-an-email"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid email status = %d", rec.Code)
	}
}

func TestUsers_DuplicateEmailIs409(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, defaultRateLimit())

	// The fixture user already holds alice@example.com.
	rec := e.do(t, http.MethodPost, "/api/v1/users", "user-key-dup", map[string]any{
		"name": "Alice Clone", "email": "alice@example.com",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "USER_ALREADY_EXISTS" {
		t.Fatalf("code = %q", code)
	}
}

func TestWriteRoutesRequireIdempotencyKey(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, defaultRateLimit())

	hotelBody := map[string]any{"name": "Seaside Inn", "city": "Hamburg", "address": "Hafenstr. 2", "capacity": 12}
	cases := []struct {
		name, method, path string
		body               map[string]any
	}{
		{"create hotel", http.MethodPost, "/api/v1/hotels", hotelBody},
		{"update hotel", http.MethodPut, fmt.Sprintf("/api/v1/hotels/%d", e.hotel.ID), map[string]any{"capacity": 15}},
		{"create user", http.MethodPost, "/api/v1/users", map[string]any{"name": "Bob Miller", "email": "bob@example.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := e.do(t, tc.method, tc.path, "", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if code := errorCode(t, rec); code != "IDEMPOTENCY_KEY_REQUIRED" {
				t.Fatalf("code = %q", code)
			}
		})
	}
}

func TestCreateHotel_ReplaysStoredResponse(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, defaultRateLimit())

	body := map[string]any{"name": "Seaside Inn", "city": "Hamburg", "address": "Hafenstr. 2", "capacity": 12}
	first := e.do(t, http.MethodPost, "/api/v1/hotels", "hotel-key-replay", body)
	if first.Code != http.StatusCreated {
		t.Fatalf("first status = %d", first.Code)
	}
	second := e.do(t, http.MethodPost, "/api/v1/hotels", "hotel-key-replay", body)
	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Fatalf("replay differs: %d %s", second.Code, second.Body.String())
	}

	// Only one hotel was created besides the fixture one.
	list := e.do(t, http.MethodGet, "/api/v1/hotels", "", nil)
	var hs []hotelResponse
	if err := json.Unmarshal(list.Body.Bytes(), &hs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(hs) != 2 {
		t.Fatalf("expected 2 hotels after replay, got %d", len(hs))
	}
}

// failingIdemStore errors on every operation to prove idempotency storage
// is best-effort and never masks a successful commit.
type failingIdemStore struct{}

func (failingIdemStore) Get(context.Context, idempotencyport.Key) (idempotencyport.Record, bool, error) {
	return idempotencyport.Record{}, false, errors.New("store down")
}
func (failingIdemStore) Put(context.Context, idempotencyport.Key, idempotencyport.Record, time.Duration) error {
	return errors.New("store down")
}
func (failingIdemStore) Delete(context.Context, idempotencyport.Key) error {
	return errors.New("store down")
}

func TestCreateBooking_DegradedIdempotencyStoreIsNotFatal(t *testing.T) {
	t.Parallel()
	e := newTestEnvWithStore(t, defaultRateLimit(), failingIdemStore{})

	rec := e.do(t, http.MethodPost, "/api/v1/bookings", "key-1", e.bookingBody(4))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// The booking was committed despite both the lookup and the store
	// write failing.
	list := e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/bookings/hotel/%d", e.hotel.ID), "", nil)
	var bs []bookingResponse
	if err := json.Unmarshal(list.Body.Bytes(), &bs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(bs) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(bs))
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t, defaultRateLimit())

	rec := e.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
