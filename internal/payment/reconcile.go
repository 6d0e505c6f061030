package payment

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/apiclient"
	"github.com/iliyamo/cinema-booking-web/internal/booking"
	"github.com/iliyamo/cinema-booking-web/internal/model"
	"github.com/iliyamo/cinema-booking-web/internal/queue"
)

// Backend verifies a gateway return.  The raw query is forwarded verbatim.
type Backend interface {
	VNPayReturn(ctx context.Context, rawQuery string) (model.PaymentReturn, error)
}

// Selections is the slice of booking.Manager the reconciler needs.
type Selections interface {
	Read(ctx context.Context, sid string) booking.Selection
	Clear(ctx context.Context, sid string)
}

// Reconciler turns one gateway return into one settled Outcome.
type Reconciler struct {
	backend    Backend
	selections Selections
	publisher  queue.Publisher
	logger     echo.Logger
	now        func() time.Time
}

// NewReconciler panics on nil dependencies.  Pass queue.NopPublisher to
// disable events.
func NewReconciler(b Backend, s Selections, p queue.Publisher, logger echo.Logger) *Reconciler {
	if b == nil || s == nil || p == nil || logger == nil {
		panic("nil dependency passed to payment.NewReconciler")
	}
	return &Reconciler{backend: b, selections: s, publisher: p, logger: logger, now: time.Now}
}

// Reconcile makes exactly one backend call for rawQuery and settles the
// outcome.  On success the session's booking selection is cleared and a
// payment.confirmed event is published; publish failures are logged only.
func (r *Reconciler) Reconcile(ctx context.Context, sid, rawQuery string) Outcome {
	tr := NewTracker()
	params, _ := url.ParseQuery(rawQuery)
	code := params.Get("vnp_ResponseCode")

	res, err := r.backend.VNPayReturn(ctx, rawQuery)
	var next Outcome
	switch {
	case err != nil:
		if refused, ok := refusal(err); ok {
			r.logger.Infof("payment: backend refused return txn=%s: %v", params.Get("vnp_TxnRef"), err)
			next = Outcome{State: Failed, BookingID: refused.BookingID.String(), ResponseCode: code, Message: MessageFor(code)}
			break
		}
		r.logger.Warnf("payment: verify return txn=%s: %v", params.Get("vnp_TxnRef"), err)
		next = Outcome{State: Error, ResponseCode: code, Message: MessageError}
	case res.Status == string(Success):
		next = Outcome{
			State:        Success,
			BookingCode:  res.BookingCode,
			BookingID:    res.BookingID.String(),
			Amount:       res.Amount,
			ResponseCode: code,
			Message:      MessageFor("00"),
		}
	default:
		next = Outcome{State: Failed, BookingID: res.BookingID.String(), ResponseCode: code, Message: MessageFor(code)}
	}
	if err := tr.Transition(next); err != nil {
		// unreachable with a fresh tracker
		r.logger.Errorf("payment: %v", err)
	}

	out := tr.Outcome()
	if out.State == Success {
		r.settle(ctx, sid, out, params)
	}
	return out
}

// refusal reports whether err is a backend answer rather than a broken
// call: a non-2xx reply whose body decoded as JSON.  The data member of
// that body is returned when present.
func refusal(err error) (model.PaymentReturn, bool) {
	ae, ok := apiclient.AsAPIError(err)
	if !ok || ae.Network() || !ae.Decoded || ae.Status < 300 {
		return model.PaymentReturn{}, false
	}
	var env struct {
		Data *model.PaymentReturn `json:"data"`
	}
	if json.Unmarshal(ae.Body, &env) == nil && env.Data != nil {
		return *env.Data, true
	}
	return model.PaymentReturn{}, true
}

func (r *Reconciler) settle(ctx context.Context, sid string, out Outcome, params url.Values) {
	sel := r.selections.Read(ctx, sid)
	r.selections.Clear(ctx, sid)

	ev := queue.PaymentConfirmedEvent{
		BookingCode: out.BookingCode,
		BookingID:   out.BookingID,
		TxnRef:      params.Get("vnp_TxnRef"),
		Amount:      out.Amount,
		BankCode:    params.Get("vnp_BankCode"),
		MovieTitle:  sel.MovieTitle,
		TheaterName: sel.TheaterName,
		ShowDate:    sel.ShowDate,
		ShowTime:    sel.ShowTime,
		Seats:       sel.Seats,
		ConfirmedAt: r.now().UTC().Format(time.RFC3339),
	}
	if err := r.publisher.PublishPaymentConfirmed(ctx, ev); err != nil {
		r.logger.Warnf("payment: publish confirmation for %s: %v", out.BookingCode, err)
	}
}
