package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/middleware"
)

// RegisterCustomer mounts the routes that need a signed-in user.  The
// guard is attached per route because these paths share the /api prefix
// with public ones.
func RegisterCustomer(g *echo.Group, h Handlers) {
	signedIn := middleware.RequireAuth()

	g.GET("/auth/me", h.Auth.Me, signedIn)

	g.POST("/reservations", h.Reservation.Hold, signedIn)
	g.DELETE("/reservations", h.Reservation.Release, signedIn)

	g.POST("/bookings", h.Reservation.CreateBooking, signedIn)
	g.GET("/bookings/mine", h.Reservation.MyBookings, signedIn)
	g.GET("/tickets/mine", h.Reservation.MyTickets, signedIn)

	g.POST("/payments/vnpay", h.Payment.CreateVNPay, signedIn)
	g.GET("/payments/:id/status", h.Payment.Status, signedIn)
}
