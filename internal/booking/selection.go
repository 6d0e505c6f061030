// Package booking holds the in-progress booking selection of a browsing
// session: which movie, theater, showtime and room the customer picked and
// which seats they are toggling on the seat map.  The selection is a
// mirror for display and hand-off; seat holds are owned by the backend.
package booking

import (
	"slices"
	"strings"
)

// Selection is the client-held record of an in-progress booking.  It is
// either empty or complete; screens gate on IsComplete and treat a partial
// selection exactly like no booking at all.
//
// Seats keeps the selected seat codes in first-toggle order.  Toggled records
// every seat code ever toggled in this selection, in first-toggle order, so
// a seat deselected and picked again returns to its original position.
type Selection struct {
	MovieID        string `json:"movie_id,omitempty"`
	MovieTitle     string `json:"movie_title,omitempty"`
	MoviePoster    string `json:"movie_poster,omitempty"`
	TheaterID      string `json:"theater_id,omitempty"`
	TheaterName    string `json:"theater_name,omitempty"`
	TheaterAddress string `json:"theater_address,omitempty"`
	ShowtimeID     string `json:"showtime_id,omitempty"`
	ShowDate       string `json:"show_date,omitempty"`
	ShowTime       string `json:"show_time,omitempty"`
	Format         string `json:"format,omitempty"`
	RoomID         string `json:"room_id,omitempty"`
	// TicketPrice is the unit price in VND snapshotted when the showtime was picked.
	TicketPrice int64    `json:"ticket_price,omitempty"`
	Seats       []string `json:"seats,omitempty"`
	Toggled     []string `json:"toggled,omitempty"`
}

// Patch carries the fields of a partial Set.  Nil fields are left untouched.
// A non-nil Seats replaces the seat list wholesale.
type Patch struct {
	MovieID        *string   `json:"movie_id"`
	MovieTitle     *string   `json:"movie_title"`
	MoviePoster    *string   `json:"movie_poster"`
	TheaterID      *string   `json:"theater_id"`
	TheaterName    *string   `json:"theater_name"`
	TheaterAddress *string   `json:"theater_address"`
	ShowtimeID     *string   `json:"showtime_id"`
	ShowDate       *string   `json:"show_date"`
	ShowTime       *string   `json:"show_time"`
	Format         *string   `json:"format"`
	RoomID         *string   `json:"room_id"`
	TicketPrice    *int64    `json:"ticket_price" validate:"omitempty,gte=0"`
	Seats          *[]string `json:"seats"`
}

// IsComplete reports whether movie, theater, showtime and room are all set.
func (s Selection) IsComplete() bool {
	return s.MovieID != "" && s.TheaterID != "" && s.ShowtimeID != "" && s.RoomID != ""
}

// Active is the gate used by the seat map, booking-info and payment screens.
func (s Selection) Active() bool { return s.IsComplete() }

// IsEmpty reports whether no field of the selection is set.
func (s Selection) IsEmpty() bool {
	return s.MovieID == "" && s.MovieTitle == "" && s.MoviePoster == "" &&
		s.TheaterID == "" && s.TheaterName == "" && s.TheaterAddress == "" &&
		s.ShowtimeID == "" && s.ShowDate == "" && s.ShowTime == "" && s.Format == "" &&
		s.RoomID == "" && s.TicketPrice == 0 && len(s.Seats) == 0 && len(s.Toggled) == 0
}

// Total is the unit price multiplied by the number of selected seats.
func (s Selection) Total() int64 { return s.TicketPrice * int64(len(s.Seats)) }

// Clone returns a deep copy.
func (s Selection) Clone() Selection {
	s.Seats = slices.Clone(s.Seats)
	s.Toggled = slices.Clone(s.Toggled)
	return s
}

// Apply merges p into s.  Fields absent from p keep their current values.
func (s *Selection) Apply(p Patch) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&s.MovieID, p.MovieID)
	set(&s.MovieTitle, p.MovieTitle)
	set(&s.MoviePoster, p.MoviePoster)
	set(&s.TheaterID, p.TheaterID)
	set(&s.TheaterName, p.TheaterName)
	set(&s.TheaterAddress, p.TheaterAddress)
	set(&s.ShowtimeID, p.ShowtimeID)
	set(&s.ShowDate, p.ShowDate)
	set(&s.ShowTime, p.ShowTime)
	set(&s.Format, p.Format)
	set(&s.RoomID, p.RoomID)
	if p.TicketPrice != nil {
		s.TicketPrice = *p.TicketPrice
	}
	if p.Seats != nil {
		s.Seats = uniqueCodes(*p.Seats)
		s.Toggled = slices.Clone(s.Seats)
	}
}

// ToggleSeat selects code when it is not selected and deselects it otherwise.
// Blank codes are ignored.
func (s *Selection) ToggleSeat(code string) {
	code = strings.TrimSpace(code)
	if code == "" {
		return
	}
	if i := slices.Index(s.Seats, code); i >= 0 {
		s.Seats = slices.Delete(s.Seats, i, i+1)
		if len(s.Seats) == 0 {
			s.Seats = nil
		}
		return
	}
	if !slices.Contains(s.Toggled, code) {
		s.Toggled = append(s.Toggled, code)
	}
	selected := make(map[string]struct{}, len(s.Seats)+1)
	for _, c := range s.Seats {
		selected[c] = struct{}{}
	}
	selected[code] = struct{}{}
	seats := make([]string, 0, len(selected))
	for _, c := range s.Toggled {
		if _, ok := selected[c]; ok {
			seats = append(seats, c)
		}
	}
	s.Seats = seats
}

// HasSeat reports whether code is currently selected.
func (s Selection) HasSeat(code string) bool { return slices.Contains(s.Seats, code) }

func uniqueCodes(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
