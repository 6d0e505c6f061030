package model

// Theater is a cinema location.
type Theater struct {
	ID      ID     `json:"id"`
	Name    string `json:"name" validate:"required,max=255"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city,omitempty"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,vnphone"`
}

// Room is a screening room of a theater.
type Room struct {
	ID        ID     `json:"id"`
	TheaterID ID     `json:"theater_id" validate:"required"`
	Name      string `json:"name" validate:"required,max=100"`
	RoomType  string `json:"room_type,omitempty" validate:"omitempty,oneof=2D 3D IMAX 4DX"`
	Capacity  int    `json:"capacity,omitempty" validate:"omitempty,gte=1,lte=1000"`
}

// Seat is one cell of a seat layout.  Code is the row label followed by
// the seat number ("A1", "K12").
type Seat struct {
	ID       ID     `json:"id,omitempty"`
	Code     string `json:"code" validate:"required,seatcode"`
	Row      string `json:"row" validate:"required,alpha"`
	Number   int    `json:"number" validate:"gte=1"`
	SeatType string `json:"seat_type,omitempty" validate:"omitempty,oneof=STANDARD VIP COUPLE"`
	Active   bool   `json:"is_active"`
}

// SeatLayout is the seat grid of a room.
type SeatLayout struct {
	ID     ID     `json:"id,omitempty"`
	RoomID ID     `json:"room_id" validate:"required"`
	Rows   int    `json:"rows" validate:"gte=1,lte=26"`
	Cols   int    `json:"cols" validate:"gte=1,lte=40"`
	Seats  []Seat `json:"seats" validate:"dive"`
}

// SeatStatus is the availability of one seat for a showtime, as reported
// by the backend seat-reservation endpoints.
type SeatStatus struct {
	Code      string `json:"code"`
	SeatType  string `json:"seat_type,omitempty"`
	Status    string `json:"status"` // AVAILABLE | HELD | BOOKED
	HeldByYou bool   `json:"held_by_you,omitempty"`
}
