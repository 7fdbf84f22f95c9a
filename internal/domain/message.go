package domain

import "time"

// Message is a user-to-service message tied to the session user.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserEmail string    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}
