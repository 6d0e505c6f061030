package model

// SeatReservation is a backend-owned, time-limited hold on seats for a
// showtime.
type SeatReservation struct {
	ID         ID       `json:"id,omitempty"`
	ShowtimeID ID       `json:"showtime_id" validate:"required"`
	SeatCodes  []string `json:"seat_codes" validate:"required,min=1,max=10,dive,seatcode"`
	ExpiresAt  string   `json:"expires_at,omitempty"`
}

// ComboItem is a combo line of a booking.
type ComboItem struct {
	ComboID  ID  `json:"combo_id" validate:"required"`
	Quantity int `json:"quantity" validate:"gte=1,lte=20"`
}

// BookingRequest creates a pending booking from a completed selection.
type BookingRequest struct {
	ShowtimeID    ID          `json:"showtime_id" validate:"required"`
	SeatCodes     []string    `json:"seat_codes" validate:"required,min=1,max=10,dive,seatcode"`
	Combos        []ComboItem `json:"combos,omitempty" validate:"dive"`
	PromotionCode string      `json:"promotion_code,omitempty" validate:"omitempty,alphanum,max=32"`
}

// Booking mirrors the backend booking resource.
type Booking struct {
	ID          ID          `json:"id"`
	BookingCode string      `json:"booking_code,omitempty"`
	UserID      ID          `json:"user_id,omitempty"`
	ShowtimeID  ID          `json:"showtime_id"`
	SeatCodes   []string    `json:"seat_codes"`
	Combos      []ComboItem `json:"combos,omitempty"`
	TotalAmount int64       `json:"total_amount"`
	Status      string      `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED CANCELLED"`
	CreatedAt   string      `json:"created_at,omitempty"`
}

// Ticket is one issued seat of a confirmed booking.
type Ticket struct {
	ID          ID     `json:"id"`
	BookingID   ID     `json:"booking_id"`
	TicketCode  string `json:"ticket_code"`
	SeatCode    string `json:"seat_code"`
	MovieTitle  string `json:"movie_title,omitempty"`
	TheaterName string `json:"theater_name,omitempty"`
	ShowDate    string `json:"show_date,omitempty"`
	ShowTime    string `json:"show_time,omitempty"`
	Status      string `json:"status,omitempty"`
}
