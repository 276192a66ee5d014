package model

import "time"

// Event is a scheduled event owned by exactly one user. UserID is set at
// creation to the authenticated caller and never reassigned; deleting the
// owner cascades to the event at the storage layer.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Date        time.Time `json:"date"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	UserID      int64     `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}
