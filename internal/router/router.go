// Package router registers the gateway's HTTP routes.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/apiclient"
	"github.com/iliyamo/cinema-booking-web/internal/auth"
	"github.com/iliyamo/cinema-booking-web/internal/handler"
	"github.com/iliyamo/cinema-booking-web/internal/middleware"
)

// Handlers bundles everything the routes dispatch to.
type Handlers struct {
	API         *apiclient.API
	Auth        *handler.AuthHandler
	Catalog     *handler.CatalogHandler
	Session     *handler.BookingSessionHandler
	BookingTemp *handler.BookingTempHandler
	Reservation *handler.ReservationHandler
	Payment     *handler.PaymentHandler
	// Invalidations is nil when the response cache is disabled.
	Invalidations *handler.InvalidationHandler
}

// Register mounts every route on e.  Authenticate runs on all /api routes
// so public handlers still forward the caller's token when there is one.
func Register(e *echo.Echo, h Handlers, sessions *auth.Manager) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api", middleware.Authenticate(sessions))
	RegisterPublic(api, h)
	RegisterCustomer(api, h)
	RegisterAdmin(api, h)
}

// RegisterPublic mounts browsing, auth, booking-session, booking-temp, the
// payment return and the cache invalidation feed.
func RegisterPublic(g *echo.Group, h Handlers) {
	g.GET("/movies", h.Catalog.ListMovies)
	g.GET("/movies/:id", h.Catalog.GetMovie)
	g.GET("/movies/:id/showtimes", h.Catalog.MovieShowtimes)
	g.GET("/theaters", h.Catalog.ListTheaters)
	g.GET("/theaters/:id/rooms", h.Catalog.TheaterRooms)
	g.GET("/rooms/:id/seat-layout", h.Catalog.RoomSeatLayout)
	g.GET("/showtimes/:id/seats", h.Catalog.ShowtimeSeats)
	g.GET("/combos", h.Catalog.ListCombos)
	g.GET("/promotions", h.Catalog.ListPromotions)

	g.POST("/auth/login", h.Auth.Login)
	g.POST("/auth/register", h.Auth.Register)
	g.POST("/auth/logout", h.Auth.Logout)

	g.POST("/booking-temp", h.BookingTemp.Create)
	g.GET("/booking-temp", h.BookingTemp.Get)

	g.GET("/booking-session", h.Session.Get)
	g.PATCH("/booking-session", h.Session.Patch)
	g.DELETE("/booking-session", h.Session.Delete)
	g.POST("/booking-session/seats/:code", h.Session.ToggleSeat)

	g.GET("/payments/vnpay-return", h.Payment.VNPayReturn)

	if h.Invalidations != nil {
		g.GET("/cache/events", h.Invalidations.Stream)
	}
}
