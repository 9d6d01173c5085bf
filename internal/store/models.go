package store

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Do not expose this in JSON responses
	CreatedAt    time.Time `json:"created_at"`
}

// ChatRecord is one completed exchange persisted for an authenticated user.
// Records are append-only; the API never updates or deletes them.
type ChatRecord struct {
	ID        string    `json:"id"` // Using UUID for external ID
	UserID    int64     `json:"-"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}
