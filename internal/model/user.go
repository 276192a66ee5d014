// Package model defines the data structures shared across layers.
package model

import "time"

// User is a registered account. PasswordHash is tagged json:"-" so it can
// never appear in a response body, whichever handler serializes the struct.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the snapshot of a user echoed alongside ownership-bearing
// responses and registrant listings.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Identity returns the user's public snapshot.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Name: u.Name}
}
