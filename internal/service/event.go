package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/eventbook/internal/apperror"
	"github.com/sakif/eventbook/internal/model"
	"github.com/sakif/eventbook/internal/repository"
)

// EventService owns event CRUD, validation, and the ownership rules.
//
// The authorization contract: existence is always checked before ownership,
// so "doesn't exist" (not found) and "exists but not yours" (forbidden) stay
// distinguishable outcomes.
type EventService struct {
	events repository.EventRepository
	users  repository.UserRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewEventService creates an EventService. The clock defaults to time.Now;
// tests override it via WithClock for deterministic date checks.
func NewEventService(events repository.EventRepository, users repository.UserRepository, logger *slog.Logger) *EventService {
	return &EventService{
		events: events,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the service's notion of "now". Test hook.
func (s *EventService) WithClock(now func() time.Time) *EventService {
	s.now = now
	return s
}

// Create validates the input, rejects duplicates (same owner,
// case-insensitive title, exact timestamp), and persists the event with the
// caller as owner. Returns the persisted row plus the owner snapshot for the
// response body.
func (s *EventService) Create(ctx context.Context, ownerID int64, in EventInput) (*model.Event, model.Identity, error) {
	event := &model.Event{UserID: ownerID}
	if err := validateEventInput(in, s.now(), event); err != nil {
		return nil, model.Identity{}, err
	}

	owner, err := s.users.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, model.Identity{}, fmt.Errorf("loading event owner: %w", err)
	}

	dup, err := s.events.ExistsDuplicateEvent(ctx, ownerID, event.Title, event.Date)
	if err != nil {
		return nil, model.Identity{}, fmt.Errorf("checking duplicate event: %w", err)
	}
	if dup {
		return nil, model.Identity{}, apperror.Conflict("an identical event already exists for this user")
	}

	if err := s.events.CreateEvent(ctx, event); err != nil {
		return nil, model.Identity{}, fmt.Errorf("creating event: %w", err)
	}

	s.logger.Info("event created",
		slog.Int64("eventID", event.ID),
		slog.Int64("ownerID", ownerID),
		slog.String("title", event.Title),
	)

	return event, owner.Identity(), nil
}

// Get retrieves a single event. Not-found is a distinct outcome from error.
func (s *EventService) Get(ctx context.Context, id int64) (*model.Event, error) {
	return s.events.GetEventByID(ctx, id)
}

// List returns all events ordered by date ascending.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	events, err := s.events.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

// ListOwned returns the caller's events ordered by date ascending.
func (s *EventService) ListOwned(ctx context.Context, ownerID int64) ([]model.Event, error) {
	events, err := s.events.ListEventsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing owned events: %w", err)
	}
	return events, nil
}

// Update applies the validated fields present in patch to the event. Only
// the owner may update; the existence check runs first so a non-owner probing
// a missing id still sees not-found.
func (s *EventService) Update(ctx context.Context, callerID, eventID int64, patch EventPatch) (*model.Event, model.Identity, error) {
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, model.Identity{}, err
	}

	if event.UserID != callerID {
		return nil, model.Identity{}, apperror.Forbidden("not authorized to update this event")
	}

	if err := applyEventPatch(event, patch, s.now()); err != nil {
		return nil, model.Identity{}, err
	}

	if err := s.events.UpdateEvent(ctx, event); err != nil {
		return nil, model.Identity{}, fmt.Errorf("updating event %d: %w", eventID, err)
	}

	owner, err := s.users.GetUserByID(ctx, event.UserID)
	if err != nil {
		return nil, model.Identity{}, fmt.Errorf("loading event owner: %w", err)
	}

	s.logger.Info("event updated",
		slog.Int64("eventID", event.ID),
		slog.Int64("ownerID", event.UserID),
	)

	return event, owner.Identity(), nil
}

// Delete removes the event; dependent registrations cascade at the storage
// layer. Same not-found/forbidden precedence as Update.
func (s *EventService) Delete(ctx context.Context, callerID, eventID int64) error {
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return err
	}

	if event.UserID != callerID {
		return apperror.Forbidden("not authorized to delete this event")
	}

	if err := s.events.DeleteEvent(ctx, eventID); err != nil {
		return fmt.Errorf("deleting event %d: %w", eventID, err)
	}

	s.logger.Info("event deleted",
		slog.Int64("eventID", eventID),
		slog.Int64("ownerID", callerID),
	)

	return nil
}
