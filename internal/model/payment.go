package model

// PaymentRequest asks the backend to create a VNPay payment for a booking.
type PaymentRequest struct {
	BookingID ID     `json:"booking_id" validate:"required"`
	BankCode  string `json:"bank_code,omitempty" validate:"omitempty,alphanum"`
	ReturnURL string `json:"return_url,omitempty" validate:"omitempty,url"`
}

// PaymentURL is the gateway redirect returned by the backend.
type PaymentURL struct {
	PaymentURL string `json:"payment_url"`
	TxnRef     string `json:"txn_ref,omitempty"`
}

// PaymentReturn is the backend verdict on a VNPay return.
type PaymentReturn struct {
	Status      string `json:"status"`
	BookingCode string `json:"booking_code,omitempty"`
	BookingID   ID     `json:"booking_id,omitempty"`
	Amount      int64  `json:"amount,omitempty"`
	Message     string `json:"message,omitempty"`
}

// PaymentStatus is the current state of a payment.
type PaymentStatus struct {
	BookingID ID     `json:"booking_id"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount,omitempty"`
	PaidAt    string `json:"paid_at,omitempty"`
}
