package domain

import "time"

// RatingEvent is one user's rating of one movie. Events are append-only:
// once written they are never edited or deleted, which is what makes
// recompute-from-scratch aggregation correct regardless of write ordering.
type RatingEvent struct {
	ID         string    `json:"id"`
	MovieID    int64     `json:"movie_id"`
	RaterEmail string    `json:"email"`
	Score      int       `json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
}
