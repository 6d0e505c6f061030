package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/iliyamo/cinema-booking-web/internal/cache"
	"github.com/iliyamo/cinema-booking-web/internal/model"
)

// Resource type names used as cache tag types.
const (
	Movies           = "movies"
	Theaters         = "theaters"
	Rooms            = "rooms"
	Showtimes        = "showtimes"
	SeatLayouts      = "seat-layouts"
	SeatReservations = "seat-reservations"
	Bookings         = "bookings"
	Tickets          = "tickets"
	Combos           = "combos"
	Promotions       = "promotions"
	Ranks            = "ranks"
	Users            = "users"
	Payments         = "payments"
)

// Specialised endpoints outside the CRUD groups.
var (
	ShowtimesByMovie = Endpoint{
		Name: "showtimes.by_movie", Method: http.MethodGet, Path: "/movies/{id}/showtimes",
		Provides: union(listOf(Showtimes), itemOf(Movies)), Shared: true,
	}
	RoomsByTheater = Endpoint{
		Name: "rooms.by_theater", Method: http.MethodGet, Path: "/theaters/{id}/rooms",
		Provides: union(listOf(Rooms), itemOf(Theaters)), Shared: true,
	}
	SeatLayoutByRoom = Endpoint{
		Name: "seat-layouts.by_room", Method: http.MethodGet, Path: "/rooms/{id}/seat-layout",
		Provides: union(listOf(SeatLayouts), itemOf(Rooms)), Shared: true,
	}
	// Seat availability changes under other customers' holds.
	ShowtimeSeats = Endpoint{
		Name: "seat-reservations.by_showtime", Method: http.MethodGet, Path: "/showtimes/{id}/seats",
		NoCache: true,
	}
	HoldSeats = Endpoint{
		Name: "seat-reservations.hold", Method: http.MethodPost, Path: "/seat-reservations",
		Invalidates: mutationOf(SeatReservations),
	}
	ReleaseSeats = Endpoint{
		Name: "seat-reservations.release", Method: http.MethodPost, Path: "/seat-reservations/release",
		Invalidates: mutationOf(SeatReservations),
	}
	CreateBooking = Endpoint{
		Name: "bookings.create", Method: http.MethodPost, Path: "/bookings",
		Invalidates: union(listOf(Bookings), listOf(SeatReservations)),
	}
	MyBookings = Endpoint{
		Name: "bookings.mine", Method: http.MethodGet, Path: "/bookings/me",
		Provides: listOf(Bookings),
	}
	MyTickets = Endpoint{
		Name: "tickets.mine", Method: http.MethodGet, Path: "/tickets/me",
		Provides: listOf(Tickets),
	}
	CreateVNPay = Endpoint{
		Name: "payments.vnpay_create", Method: http.MethodPost, Path: "/payments/vnpay/create",
		Invalidates: listOf(Payments),
	}
	VNPayReturn = Endpoint{
		Name: "payments.vnpay_return", Method: http.MethodGet, Path: "/payments/vnpay/return",
		NoCache:     true,
		Invalidates: union(listOf(Bookings), listOf(Tickets), listOf(Payments)),
	}
	PaymentStatusOf = Endpoint{
		Name: "payments.status", Method: http.MethodGet, Path: "/payments/{id}/status",
		NoCache: true,
	}
	Login = Endpoint{
		Name: "auth.login", Method: http.MethodPost, Path: "/auth/login",
	}
	Register = Endpoint{
		Name: "auth.register", Method: http.MethodPost, Path: "/auth/register",
		Invalidates: listOf(Users),
	}
	Me = Endpoint{
		Name: "auth.me", Method: http.MethodGet, Path: "/auth/me",
		Provides: func(Params) []cache.Tag { return []cache.Tag{cache.IDTag(Users, "me")} },
	}
)

// API groups every backend resource the gateway talks to.
type API struct {
	c *Client

	Movies      Resource[model.Movie]
	Theaters    Resource[model.Theater]
	Rooms       Resource[model.Room]
	Showtimes   Resource[model.Showtime]
	SeatLayouts Resource[model.SeatLayout]
	Bookings    Resource[model.Booking]
	Tickets     Resource[model.Ticket]
	Combos      Resource[model.Combo]
	Promotions  Resource[model.Promotion]
	Ranks       Resource[model.Rank]
	Users       Resource[model.User]
}

// NewAPI binds every resource group to c.
func NewAPI(c *Client) *API {
	return &API{
		c:           c,
		Movies:      NewResource[model.Movie](c, Movies, "/movies", true),
		Theaters:    NewResource[model.Theater](c, Theaters, "/theaters", true),
		Rooms:       NewResource[model.Room](c, Rooms, "/rooms", true),
		Showtimes:   NewResource[model.Showtime](c, Showtimes, "/showtimes", true),
		SeatLayouts: NewResource[model.SeatLayout](c, SeatLayouts, "/seat-layouts", true),
		Bookings:    NewResource[model.Booking](c, Bookings, "/bookings", false),
		Tickets:     NewResource[model.Ticket](c, Tickets, "/tickets", false),
		Combos:      NewResource[model.Combo](c, Combos, "/combos", true),
		Promotions:  NewResource[model.Promotion](c, Promotions, "/promotions", true),
		Ranks:       NewResource[model.Rank](c, Ranks, "/ranks", true),
		Users:       NewResource[model.User](c, Users, "/users", false),
	}
}

// Client returns the underlying client.
func (a *API) Client() *Client { return a.c }

func (a *API) ShowtimesByMovie(ctx context.Context, movieID string, q url.Values) ([]model.Showtime, error) {
	var out []model.Showtime
	err := a.c.Do(ctx, ShowtimesByMovie, Call{Params: Params{"id": movieID}, Query: q, Out: &out})
	return out, err
}

func (a *API) RoomsByTheater(ctx context.Context, theaterID string) ([]model.Room, error) {
	var out []model.Room
	err := a.c.Do(ctx, RoomsByTheater, Call{Params: Params{"id": theaterID}, Out: &out})
	return out, err
}

func (a *API) SeatLayoutByRoom(ctx context.Context, roomID string) (model.SeatLayout, error) {
	var out model.SeatLayout
	err := a.c.Do(ctx, SeatLayoutByRoom, Call{Params: Params{"id": roomID}, Out: &out})
	return out, err
}

func (a *API) ShowtimeSeats(ctx context.Context, showtimeID string) ([]model.SeatStatus, error) {
	var out []model.SeatStatus
	err := a.c.Do(ctx, ShowtimeSeats, Call{Params: Params{"id": showtimeID}, Out: &out})
	return out, err
}

// HoldSeats asks the backend to lock seats for the caller.
func (a *API) HoldSeats(ctx context.Context, r model.SeatReservation) (model.SeatReservation, error) {
	var out model.SeatReservation
	err := a.c.Do(ctx, HoldSeats, Call{Params: Params{"id": r.ShowtimeID.String()}, Body: r, Out: &out})
	return out, err
}

// ReleaseSeats drops the caller's hold on seats.
func (a *API) ReleaseSeats(ctx context.Context, r model.SeatReservation) error {
	return a.c.Do(ctx, ReleaseSeats, Call{Params: Params{"id": r.ShowtimeID.String()}, Body: r})
}

func (a *API) CreateBooking(ctx context.Context, r model.BookingRequest) (model.Booking, error) {
	var out model.Booking
	err := a.c.Do(ctx, CreateBooking, Call{Body: r, Out: &out})
	return out, err
}

func (a *API) MyBookings(ctx context.Context) ([]model.Booking, error) {
	var out []model.Booking
	err := a.c.Do(ctx, MyBookings, Call{Out: &out})
	return out, err
}

func (a *API) MyTickets(ctx context.Context) ([]model.Ticket, error) {
	var out []model.Ticket
	err := a.c.Do(ctx, MyTickets, Call{Out: &out})
	return out, err
}

func (a *API) CreateVNPay(ctx context.Context, r model.PaymentRequest) (model.PaymentURL, error) {
	var out model.PaymentURL
	err := a.c.Do(ctx, CreateVNPay, Call{Body: r, Out: &out})
	return out, err
}

// VNPayReturn forwards the gateway's raw return query verbatim.
func (a *API) VNPayReturn(ctx context.Context, rawQuery string) (model.PaymentReturn, error) {
	var out model.PaymentReturn
	err := a.c.Do(ctx, VNPayReturn, Call{RawQuery: rawQuery, Out: &out})
	return out, err
}

func (a *API) PaymentStatus(ctx context.Context, bookingID string) (model.PaymentStatus, error) {
	var out model.PaymentStatus
	err := a.c.Do(ctx, PaymentStatusOf, Call{Params: Params{"id": bookingID}, Out: &out})
	return out, err
}

func (a *API) Login(ctx context.Context, cred model.Credentials) (model.AuthResult, error) {
	var out model.AuthResult
	err := a.c.Do(ctx, Login, Call{Body: cred, Out: &out})
	return out, err
}

func (a *API) Register(ctx context.Context, r model.Registration) (model.AuthResult, error) {
	var out model.AuthResult
	err := a.c.Do(ctx, Register, Call{Body: r, Out: &out})
	return out, err
}

func (a *API) Me(ctx context.Context) (model.User, error) {
	var out model.User
	err := a.c.Do(ctx, Me, Call{Out: &out})
	return out, err
}
