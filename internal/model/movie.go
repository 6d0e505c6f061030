package model

// Movie mirrors the backend movie resource.
type Movie struct {
	ID          ID       `json:"id"`
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description,omitempty"`
	Director    string   `json:"director,omitempty"`
	Cast        string   `json:"cast,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Duration    int      `json:"duration" validate:"required,gte=1,lte=600"` // minutes
	ReleaseDate string   `json:"release_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AgeRating   string   `json:"age_rating,omitempty" validate:"omitempty,oneof=P K T13 T16 T18"`
	Language    string   `json:"language,omitempty"`
	PosterURL   string   `json:"poster_url,omitempty" validate:"omitempty,url"`
	TrailerURL  string   `json:"trailer_url,omitempty" validate:"omitempty,url"`
	Status      string   `json:"status,omitempty" validate:"omitempty,oneof=NOW_SHOWING COMING_SOON ENDED"`
}

// Showtime is one screening of a movie in a room.
type Showtime struct {
	ID        ID     `json:"id"`
	MovieID   ID     `json:"movie_id" validate:"required"`
	RoomID    ID     `json:"room_id" validate:"required"`
	TheaterID ID     `json:"theater_id,omitempty"`
	ShowDate  string `json:"show_date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time,omitempty" validate:"omitempty,datetime=15:04"`
	Format    string `json:"format,omitempty" validate:"omitempty,oneof=2D 3D IMAX 4DX"`
	Price     int64  `json:"price" validate:"gte=0"` // VND
	Status    string `json:"status,omitempty"`
}
