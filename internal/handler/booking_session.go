package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/booking"
)

// BookingSessionHandler exposes the in-progress booking selection of the
// browsing session.
type BookingSessionHandler struct {
	Selections *booking.Manager
}

func NewBookingSessionHandler(m *booking.Manager) *BookingSessionHandler {
	if m == nil {
		panic("nil manager passed to NewBookingSessionHandler")
	}
	return &BookingSessionHandler{Selections: m}
}

type selectionResp struct {
	booking.Selection
	Active bool  `json:"active"`
	Total  int64 `json:"total"`
}

func respondSelection(c echo.Context, sel booking.Selection) error {
	return data(c, http.StatusOK, selectionResp{Selection: sel, Active: sel.Active(), Total: sel.Total()})
}

func (h *BookingSessionHandler) Get(c echo.Context) error {
	return respondSelection(c, h.Selections.Read(c.Request().Context(), sessionID(c)))
}

// Patch merges the provided fields into the selection.
func (h *BookingSessionHandler) Patch(c echo.Context) error {
	var p booking.Patch
	if err := bind(c, &p); err != nil {
		return done(err)
	}
	if p.Seats != nil {
		for i, code := range *p.Seats {
			(*p.Seats)[i] = strings.ToUpper(strings.TrimSpace(code))
		}
		if err := validate(c, &seatCodes{Codes: *p.Seats}); err != nil {
			return done(err)
		}
	}
	return respondSelection(c, h.Selections.Set(c.Request().Context(), sessionID(c), p))
}

func (h *BookingSessionHandler) Delete(c echo.Context) error {
	h.Selections.Clear(c.Request().Context(), sessionID(c))
	return c.NoContent(http.StatusNoContent)
}

type seatCodes struct {
	Codes []string `json:"seats" validate:"max=10,dive,seatcode"` // booking.MaxSeats
}

type seatParam struct {
	Code string `json:"code" validate:"required,seatcode"`
}

// ToggleSeat adds the seat when absent and removes it when present.  The
// booking must be active.
func (h *BookingSessionHandler) ToggleSeat(c echo.Context) error {
	p := seatParam{Code: strings.ToUpper(strings.TrimSpace(c.Param("code")))}
	if err := validate(c, &p); err != nil {
		return done(err)
	}
	sel, err := h.Selections.ToggleSeat(c.Request().Context(), sessionID(c), p.Code, booking.MaxSeats)
	switch {
	case errors.Is(err, booking.ErrInactive):
		return c.JSON(http.StatusConflict, echo.Map{"error": "no active booking"})
	case errors.Is(err, booking.ErrSeatLimit):
		return c.JSON(http.StatusConflict, echo.Map{"error": fmt.Sprintf("at most %d seats per booking", booking.MaxSeats)})
	}
	return respondSelection(c, sel)
}
