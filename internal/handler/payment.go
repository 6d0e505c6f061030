package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/apiclient"
	"github.com/iliyamo/cinema-booking-web/internal/model"
	"github.com/iliyamo/cinema-booking-web/internal/payment"
)

// PaymentHandler creates VNPay payments and reconciles gateway returns.
type PaymentHandler struct {
	API        *apiclient.API
	Reconciler *payment.Reconciler
	// ReturnURL is sent to the backend when the client does not name one.
	ReturnURL string
}

func NewPaymentHandler(api *apiclient.API, r *payment.Reconciler, returnURL string) *PaymentHandler {
	if api == nil || r == nil {
		panic("nil dependency passed to NewPaymentHandler")
	}
	return &PaymentHandler{API: api, Reconciler: r, ReturnURL: returnURL}
}

func (h *PaymentHandler) CreateVNPay(c echo.Context) error {
	var req model.PaymentRequest
	if err := bind(c, &req); err != nil {
		return done(err)
	}
	if req.ReturnURL == "" {
		req.ReturnURL = h.ReturnURL
	}
	out, err := h.API.CreateVNPay(c.Request().Context(), req)
	if err != nil {
		return backendError(c, err)
	}
	return data(c, http.StatusOK, out)
}

// VNPayReturn forwards the gateway query verbatim and answers with the
// settled outcome.  Business failures are a 200 with status "failed" or
// "error"; the page renders them.
func (h *PaymentHandler) VNPayReturn(c echo.Context) error {
	out := h.Reconciler.Reconcile(c.Request().Context(), sessionID(c), c.QueryString())
	return data(c, http.StatusOK, out)
}

func (h *PaymentHandler) Status(c echo.Context) error {
	out, err := h.API.PaymentStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return backendError(c, err)
	}
	return data(c, http.StatusOK, out)
}
