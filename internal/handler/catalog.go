package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/apiclient"
)

// CatalogHandler serves the public browsing endpoints.  Query strings are
// passed to the backend unchanged (filters, paging, dates).
type CatalogHandler struct {
	API *apiclient.API
}

func NewCatalogHandler(api *apiclient.API) *CatalogHandler {
	if api == nil {
		panic("nil api passed to NewCatalogHandler")
	}
	return &CatalogHandler{API: api}
}

func (h *CatalogHandler) ListMovies(c echo.Context) error {
	out, err := h.API.Movies.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		return backendError(c, err)
	}
	return data(c, http.StatusOK, out)
}

func (h *CatalogHandler) GetMovie(c echo.Context) error {
	out, err := h.API.Movies.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return backendError(c, err)
	}
	return data(c, http.StatusOK, out)
}

func (h *CatalogHandler) MovieShowtimes(c echo.Context) error {
	out, err := h.API.ShowtimesByMovie(c.Request().Context(), c.Param("id"), c.QueryParams())
	if err != nil {
		return backendError(c, err)
	}
	return data(c, http.StatusOK, out)
}

func (h *CatalogHandler) ListTheaters(c echo.Context) error {
	out, err := h.API.Theaters.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		return backendError(c, err)
	}
	return data(c, http.StatusOK, out)
}

func (h *CatalogHandler) TheaterRooms(c echo.Context) error {
	out, err := h.API.RoomsByTheater(c.Request().Context(), c.Param("id"))
	if err != nil {
		return backendError(c, err)
	}
	return data(c, http.StatusOK, out)
}

func (h *CatalogHandler) RoomSeatLayout(c echo.Context) error {
	out, err := h.API.SeatLayoutByRoom(c.Request().Context(), c.Param("id"))
	if err != nil {
		return backendError(c, err)
	}
	return data(c, http.StatusOK, out)
}

// ShowtimeSeats is never cached: availability moves with other customers'
// holds.
func (h *CatalogHandler) ShowtimeSeats(c echo.Context) error {
	out, err := h.API.ShowtimeSeats(c.Request().Context(), c.Param("id"))
	if err != nil {
		return backendError(c, err)
	}
	return data(c, http.StatusOK, out)
}

func (h *CatalogHandler) ListCombos(c echo.Context) error {
	out, err := h.API.Combos.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		return backendError(c, err)
	}
	return data(c, http.StatusOK, out)
}

func (h *CatalogHandler) ListPromotions(c echo.Context) error {
	out, err := h.API.Promotions.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		return backendError(c, err)
	}
	return data(c, http.StatusOK, out)
}
