package model

// MovieInfo is what the external movie database returns for a title lookup.
type MovieInfo struct {
	Name     string
	Director string
	Year     int
	Rating   float64
	Poster   string
}

type Movie struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Director string  `json:"director"`
	Year     int     `json:"year"`
	Rating   float64 `json:"rating"`
	Poster   string  `json:"poster"`
}

// MovieDetails is a movie as seen from one user's list, with that user's
// review attached when there is one.
type MovieDetails struct {
	Movie
	Review   *string  `json:"review"`
	MyRating *float64 `json:"my_rating"`
}

// MovieUpdate carries the editable movie fields. Nil fields are left as they are.
type MovieUpdate struct {
	Name     *string  `json:"name,omitempty"`
	Director *string  `json:"director,omitempty"`
	Year     *int     `json:"year,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	Poster   *string  `json:"poster,omitempty"`
}

// Apply copies the set fields of u onto m.
func (u MovieUpdate) Apply(m *Movie) {
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.Director != nil {
		m.Director = *u.Director
	}
	if u.Year != nil {
		m.Year = *u.Year
	}
	if u.Rating != nil {
		m.Rating = *u.Rating
	}
	if u.Poster != nil {
		m.Poster = *u.Poster
	}
}

type AddMovieRequest struct {
	Title string `json:"title" validate:"required"`
}
