package model

import "time"

// Registration records one user's intent to attend one event. The
// (event, user) pair is unique; rows cascade-delete with either side.
type Registration struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"eventId"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Registrant is one row of an event's attendee list: who registered, and
// when. Only the event owner may see these.
type Registrant struct {
	User         Identity  `json:"user"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// RegisteredEvent is one row of "events I am registered for": the event
// plus a snapshot of its owner and when the caller registered.
type RegisteredEvent struct {
	Event        Event     `json:"event"`
	Owner        Identity  `json:"owner"`
	RegisteredAt time.Time `json:"registeredAt"`
}
