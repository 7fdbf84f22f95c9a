package domain

import "time"

// User is an account keyed by email. PasswordHash is a bcrypt hash; the
// plaintext never leaves the HTTP layer.
type User struct {
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Address is the postal address captured at registration.
type Address struct {
	Email   string
	Country string
	Street  *string
	City    *string
}
