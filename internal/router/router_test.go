package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/apiclient"
	"github.com/iliyamo/cinema-booking-web/internal/auth"
	"github.com/iliyamo/cinema-booking-web/internal/booking"
	"github.com/iliyamo/cinema-booking-web/internal/bookingtemp"
	"github.com/iliyamo/cinema-booking-web/internal/cache"
	"github.com/iliyamo/cinema-booking-web/internal/handler"
	"github.com/iliyamo/cinema-booking-web/internal/logging"
	"github.com/iliyamo/cinema-booking-web/internal/middleware"
	"github.com/iliyamo/cinema-booking-web/internal/payment"
	"github.com/iliyamo/cinema-booking-web/internal/queue"
	"github.com/iliyamo/cinema-booking-web/internal/store"
	"github.com/iliyamo/cinema-booking-web/internal/validation"
)

func backendToken(role string) string {
	s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 8, "role": role, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("backend"))
	return s
}

// fakeCinema answers the handful of backend routes the flow touches and
// records the last Authorization header and hold body.
type fakeCinema struct {
	role     string
	lastAuth string
	holdBody string
}

func (f *fakeCinema) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.lastAuth = r.Header.Get("Authorization")
	w.Header().Set("Content-Type", "application/json")
	switch r.Method + " " + r.URL.Path {
	case "POST /auth/login":
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"access_token": backendToken(f.role),
			"user":         map[string]any{"id": 8, "email": "an@example.vn", "full_name": "An", "role": f.role},
		}})
	case "GET /auth/me":
		_, _ = io.WriteString(w, `{"data":{"id":8,"email":"an@example.vn","full_name":"An"}}`)
	case "POST /seat-reservations":
		b, _ := io.ReadAll(r.Body)
		f.holdBody = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"data":{"id":1,"showtime_id":3,"seat_codes":["C4"]}}`)
	case "GET /payments/vnpay/return":
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"data":{"status":"failed","booking_id":5},"message":"transaction cancelled"}`)
	case "GET /movies":
		_, _ = io.WriteString(w, `{"data":[{"id":1,"title":"Mai","duration":131}]}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"no route"}`)
	}
}

type client struct {
	t      *testing.T
	e      *echo.Echo
	cookie *http.Cookie
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "sid" {
			c.cookie = ck
		}
	}
	return rec
}

func newGateway(t *testing.T, role string) (*client, *fakeCinema) {
	t.Helper()
	fake := &fakeCinema{role: role}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	logger := logging.Discard()
	st := store.NewMemoryStore()
	selections := booking.NewManager(st, time.Hour, logger)
	sessions := auth.NewManager(st, time.Hour, "", logger)
	tc := cache.New(cache.NewMemoryBackend(), cache.Options{TTL: time.Minute}, logger)
	api := apiclient.NewAPI(apiclient.New(srv.URL, time.Second, tc, logger))

	e := echo.New()
	e.Logger = logger
	e.Validator = validation.New()
	e.Use(middleware.Session(middleware.SessionConfig{CookieName: "sid", TTL: time.Hour}))
	Register(e, Handlers{
		API:           api,
		Auth:          handler.NewAuthHandler(api, sessions),
		Catalog:       handler.NewCatalogHandler(api),
		Session:       handler.NewBookingSessionHandler(selections),
		BookingTemp:   handler.NewBookingTempHandler(bookingtemp.New(time.Minute, logger)),
		Reservation:   handler.NewReservationHandler(api, selections),
		Payment:       handler.NewPaymentHandler(api, payment.NewReconciler(api, selections, queue.NopPublisher{}, logger), ""),
		Invalidations: handler.NewInvalidationHandler(tc),
	}, sessions)
	return &client{t: t, e: e}, fake
}

func TestCustomerFlow(t *testing.T) {
	c, fake := newGateway(t, "CUSTOMER")

	if rec := c.do(http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz: %d", rec.Code)
	}
	if rec := c.do(http.MethodGet, "/api/auth/me", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("me before login: %d", rec.Code)
	}
	if rec := c.do(http.MethodPost, "/api/auth/login", `{"email":"bad","password":""}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid login body: %d", rec.Code)
	}
	if rec := c.do(http.MethodPost, "/api/auth/login", `{"email":"An@Example.vn","password":"pw"}`); rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body)
	}

	if rec := c.do(http.MethodGet, "/api/auth/me", ""); rec.Code != http.StatusOK {
		t.Fatalf("me after login: %d %s", rec.Code, rec.Body)
	}
	if !strings.HasPrefix(fake.lastAuth, "Bearer ") {
		t.Errorf("backend saw Authorization %q", fake.lastAuth)
	}

	c.do(http.MethodPatch, "/api/booking-session", `{"movie_id":"1","theater_id":"2","showtime_id":"3","room_id":"4"}`)
	c.do(http.MethodPost, "/api/booking-session/seats/C4", "")
	rec := c.do(http.MethodPost, "/api/reservations", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("hold: %d %s", rec.Code, rec.Body)
	}
	var hold map[string]any
	_ = json.Unmarshal([]byte(fake.holdBody), &hold)
	if hold["showtime_id"] != "3" || hold["seat_codes"].([]any)[0] != "C4" {
		t.Errorf("hold body = %s", fake.holdBody)
	}

	if rec := c.do(http.MethodGet, "/api/admin/movies", ""); rec.Code != http.StatusForbidden {
		t.Errorf("customer on admin route: %d", rec.Code)
	}

	c.do(http.MethodPost, "/api/auth/logout", "")
	if rec := c.do(http.MethodGet, "/api/auth/me", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("me after logout: %d", rec.Code)
	}
}

func TestAdminFlow(t *testing.T) {
	c, _ := newGateway(t, "ADMIN")
	c.do(http.MethodPost, "/api/auth/login", `{"email":"admin@example.vn","password":"pw"}`)
	rec := c.do(http.MethodGet, "/api/admin/movies", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list: %d %s", rec.Code, rec.Body)
	}
	if rec := c.do(http.MethodPost, "/api/admin/combos", `{"name":"","price":-5}`); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid combo: %d", rec.Code)
	}
}

func TestPublicCatalogWithoutSession(t *testing.T) {
	c, _ := newGateway(t, "CUSTOMER")
	rec := c.do(http.MethodGet, "/api/movies", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"title":"Mai"`) {
		t.Errorf("movies: %d %s", rec.Code, rec.Body)
	}
	if rec := c.do(http.MethodGet, "/api/movies/99", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing movie: %d", rec.Code)
	}
}

func TestStaleBearerFallsBackToAnonymous(t *testing.T) {
	c, fake := newGateway(t, "CUSTOMER")
	stale := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer expired-or-garbage")
		rec := httptest.NewRecorder()
		c.e.ServeHTTP(rec, req)
		return rec
	}

	if rec := stale("/api/movies"); rec.Code != http.StatusOK {
		t.Errorf("public catalog with stale bearer: %d %s", rec.Code, rec.Body)
	}
	if fake.lastAuth != "" {
		t.Errorf("stale token forwarded to backend: %q", fake.lastAuth)
	}

	rec := stale("/api/payments/vnpay-return?vnp_ResponseCode=24&vnp_TxnRef=BK5")
	if rec.Code != http.StatusOK {
		t.Fatalf("payment return with stale bearer: %d %s", rec.Code, rec.Body)
	}
	var out struct {
		Data payment.Outcome `json:"data"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if out.Data.State != payment.Failed || out.Data.Message != "Giao dịch bị hủy" || out.Data.BookingID != "5" {
		t.Errorf("outcome = %+v", out.Data)
	}

	rec = stale("/api/auth/me")
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "invalid token") {
		t.Errorf("protected route with stale bearer: %d %s", rec.Code, rec.Body)
	}
}

func TestInvalidationFeedIsMounted(t *testing.T) {
	c, _ := newGateway(t, "CUSTOMER")
	if rec := c.do(http.MethodGet, "/api/cache/events", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("feed without tags: %d %s", rec.Code, rec.Body)
	}
}
