package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/apiclient"
	"github.com/iliyamo/cinema-booking-web/internal/booking"
	"github.com/iliyamo/cinema-booking-web/internal/model"
)

// ReservationHandler holds seats and creates bookings for the
// authenticated customer.  Request bodies may omit the showtime and seats,
// in which case the active booking selection supplies them.
type ReservationHandler struct {
	API        *apiclient.API
	Selections *booking.Manager
}

func NewReservationHandler(api *apiclient.API, m *booking.Manager) *ReservationHandler {
	if api == nil || m == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{API: api, Selections: m}
}

// bindOptional binds a JSON body when one was sent.
func bindOptional(c echo.Context, v any) error {
	if c.Request().ContentLength == 0 {
		return nil
	}
	if err := c.Bind(v); err != nil && !errors.Is(err, io.EOF) {
		return badRequest(c, echo.Map{"error": "invalid body"})
	}
	return nil
}

// fromSelection fills showtime and seats from the active selection.
func (h *ReservationHandler) fromSelection(c echo.Context, showtime *model.ID, seats *[]string) error {
	if *showtime != "" && len(*seats) > 0 {
		return nil
	}
	sel := h.Selections.Read(c.Request().Context(), sessionID(c))
	if !sel.Active() {
		return badRequest(c, echo.Map{"error": "no active booking"})
	}
	if *showtime == "" {
		*showtime = model.ID(sel.ShowtimeID)
	}
	if len(*seats) == 0 {
		*seats = append([]string(nil), sel.Seats...)
	}
	return nil
}

func (h *ReservationHandler) Hold(c echo.Context) error {
	var req model.SeatReservation
	if err := bindOptional(c, &req); err != nil {
		return done(err)
	}
	if err := h.fromSelection(c, &req.ShowtimeID, &req.SeatCodes); err != nil {
		return done(err)
	}
	if err := validate(c, &req); err != nil {
		return done(err)
	}
	out, err := h.API.HoldSeats(c.Request().Context(), req)
	if err != nil {
		return backendError(c, err)
	}
	return data(c, http.StatusCreated, out)
}

func (h *ReservationHandler) Release(c echo.Context) error {
	var req model.SeatReservation
	if err := bindOptional(c, &req); err != nil {
		return done(err)
	}
	if err := h.fromSelection(c, &req.ShowtimeID, &req.SeatCodes); err != nil {
		return done(err)
	}
	if err := validate(c, &req); err != nil {
		return done(err)
	}
	if err := h.API.ReleaseSeats(c.Request().Context(), req); err != nil {
		return backendError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ReservationHandler) CreateBooking(c echo.Context) error {
	var req model.BookingRequest
	if err := bindOptional(c, &req); err != nil {
		return done(err)
	}
	if err := h.fromSelection(c, &req.ShowtimeID, &req.SeatCodes); err != nil {
		return done(err)
	}
	if err := validate(c, &req); err != nil {
		return done(err)
	}
	out, err := h.API.CreateBooking(c.Request().Context(), req)
	if err != nil {
		return backendError(c, err)
	}
	return data(c, http.StatusCreated, out)
}

func (h *ReservationHandler) MyBookings(c echo.Context) error {
	out, err := h.API.MyBookings(c.Request().Context())
	if err != nil {
		return backendError(c, err)
	}
	return data(c, http.StatusOK, out)
}

func (h *ReservationHandler) MyTickets(c echo.Context) error {
	out, err := h.API.MyTickets(c.Request().Context())
	if err != nil {
		return backendError(c, err)
	}
	return data(c, http.StatusOK, out)
}
