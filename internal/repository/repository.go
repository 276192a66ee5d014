// Package repository declares the storage interfaces the business layer
// depends on. The sqlite subpackage implements them; service tests swap in
// in-memory mocks.
package repository

import (
	"context"
	"time"

	"github.com/sakif/eventbook/internal/model"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// CreateUser inserts the user and fills ID and CreatedAt. A duplicate
	// email surfaces as an apperror conflict.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// EventRepository persists events. List methods return events ordered by
// date ascending.
type EventRepository interface {
	CreateEvent(ctx context.Context, event *model.Event) error
	GetEventByID(ctx context.Context, id int64) (*model.Event, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
	ListEventsByOwner(ctx context.Context, ownerID int64) ([]model.Event, error)
	UpdateEvent(ctx context.Context, event *model.Event) error
	DeleteEvent(ctx context.Context, id int64) error
	// ExistsDuplicateEvent reports whether the owner already has an event
	// with the same case-insensitive title at the exact same timestamp.
	ExistsDuplicateEvent(ctx context.Context, ownerID int64, title string, date time.Time) (bool, error)
}

// RegistrationRepository persists event registrations.
type RegistrationRepository interface {
	// CreateRegistration inserts the registration and fills ID and
	// CreatedAt. A violation of the (event, user) uniqueness constraint
	// surfaces as apperror.ErrAlreadyRegistered; the constraint is the
	// authoritative race detector for concurrent double-submits.
	CreateRegistration(ctx context.Context, reg *model.Registration) error
	RegistrationExists(ctx context.Context, eventID, userID int64) (bool, error)
	// DeleteRegistration removes the registration for the pair, returning
	// apperror.ErrNotRegistered if none exists.
	DeleteRegistration(ctx context.Context, eventID, userID int64) error
	// ListRegistrantsByEvent returns registrant snapshots ordered by
	// registration time ascending.
	ListRegistrantsByEvent(ctx context.Context, eventID int64) ([]model.Registrant, error)
	CountRegistrationsByEvent(ctx context.Context, eventID int64) (int, error)
	// ListRegisteredEvents returns every event the user is registered for,
	// with the event owner's snapshot, ordered by event date ascending.
	ListRegisteredEvents(ctx context.Context, userID int64) ([]model.RegisteredEvent, error)
}
