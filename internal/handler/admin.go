package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/apiclient"
)

// crud serves list/get/create/update/delete for one backend resource.
type crud[T any] struct {
	res apiclient.Resource[T]
}

// RegisterCRUD mounts the five admin routes of res under g at path.
func RegisterCRUD[T any](g *echo.Group, path string, res apiclient.Resource[T]) {
	h := crud[T]{res: res}
	g.GET(path, h.list)
	g.GET(path+"/:id", h.get)
	g.POST(path, h.create)
	g.PUT(path+"/:id", h.update)
	g.DELETE(path+"/:id", h.delete)
}

func (h crud[T]) list(c echo.Context) error {
	out, err := h.res.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		return backendError(c, err)
	}
	return data(c, http.StatusOK, out)
}

func (h crud[T]) get(c echo.Context) error {
	out, err := h.res.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return backendError(c, err)
	}
	return data(c, http.StatusOK, out)
}

func (h crud[T]) create(c echo.Context) error {
	var v T
	if err := bind(c, &v); err != nil {
		return done(err)
	}
	out, err := h.res.Create(c.Request().Context(), v)
	if err != nil {
		return backendError(c, err)
	}
	return data(c, http.StatusCreated, out)
}

func (h crud[T]) update(c echo.Context) error {
	var v T
	if err := bind(c, &v); err != nil {
		return done(err)
	}
	out, err := h.res.Update(c.Request().Context(), c.Param("id"), v)
	if err != nil {
		return backendError(c, err)
	}
	return data(c, http.StatusOK, out)
}

func (h crud[T]) delete(c echo.Context) error {
	if err := h.res.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return backendError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RegisterAdmin mounts every back-office resource group under g.
func RegisterAdmin(g *echo.Group, api *apiclient.API) {
	RegisterCRUD(g, "/movies", api.Movies)
	RegisterCRUD(g, "/theaters", api.Theaters)
	RegisterCRUD(g, "/rooms", api.Rooms)
	RegisterCRUD(g, "/seat-layouts", api.SeatLayouts)
	RegisterCRUD(g, "/showtimes", api.Showtimes)
	RegisterCRUD(g, "/combos", api.Combos)
	RegisterCRUD(g, "/promotions", api.Promotions)
	RegisterCRUD(g, "/ranks", api.Ranks)
	RegisterCRUD(g, "/users", api.Users)
	RegisterCRUD(g, "/bookings", api.Bookings)
}
