package domain

import "time"

// Comment is a free-form user comment attached to a movie. The rating field
// here is informational only; it does not feed the aggregate average.
type Comment struct {
	ID        string    `json:"id"`
	MovieID   int64     `json:"movie_id"`
	Username  string    `json:"username"`
	Title     string    `json:"title"`
	Comment   string    `json:"comment"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}
