package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/handler"
	"github.com/iliyamo/cinema-booking-web/internal/middleware"
)

// RegisterAdmin mounts the back-office CRUD routes under /admin.
func RegisterAdmin(g *echo.Group, h Handlers) {
	a := g.Group("/admin", middleware.RequireAuth(), middleware.RequireRole("ADMIN"))
	handler.RegisterAdmin(a, h.API)
}
