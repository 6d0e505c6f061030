package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/bookingtemp"
)

const maxTempPayload = 64 << 10

// BookingTempHandler is the /api/booking-temp handoff buffer.
type BookingTempHandler struct {
	Store *bookingtemp.Store
}

func NewBookingTempHandler(s *bookingtemp.Store) *BookingTempHandler {
	if s == nil {
		panic("nil store passed to NewBookingTempHandler")
	}
	return &BookingTempHandler{Store: s}
}

// Create stores any JSON payload and answers {"id": ...}.
func (h *BookingTempHandler) Create(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxTempPayload+1))
	if err != nil || len(body) > maxTempPayload || !json.Valid(body) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": h.Store.Put(body)})
}

// Get answers {"data": payload} for a live id.
func (h *BookingTempHandler) Get(c echo.Context) error {
	payload, ok := h.Store.Get(c.QueryParam("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found or expired"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": payload})
}
