// Package queue carries domain events over RabbitMQ.
package queue

// PaymentConfirmedQueue is the durable queue confirmed payments are
// published to.
const PaymentConfirmedQueue = "payment.confirmed"

// PaymentConfirmedEvent is published when a VNPay return reconciles to
// success.  It holds what the backend reported back, so consumers can log
// or notify without calling the backend again.
type PaymentConfirmedEvent struct {
	BookingCode string   `json:"booking_code"`
	BookingID   string   `json:"booking_id,omitempty"`
	TxnRef      string   `json:"txn_ref,omitempty"`
	Amount      int64    `json:"amount,omitempty"` // VND
	BankCode    string   `json:"bank_code,omitempty"`
	MovieTitle  string   `json:"movie_title,omitempty"`
	TheaterName string   `json:"theater_name,omitempty"`
	ShowDate    string   `json:"show_date,omitempty"`
	ShowTime    string   `json:"show_time,omitempty"`
	Seats       []string `json:"seats,omitempty"`
	ConfirmedAt string   `json:"confirmed_at"`
}
