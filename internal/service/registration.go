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

// RegistrationService manages the registration lifecycle for (event, user)
// pairs: unregistered → registered and back. No other states exist.
type RegistrationService struct {
	regs   repository.RegistrationRepository
	events repository.EventRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewRegistrationService creates a RegistrationService. The clock defaults
// to time.Now; tests override it via WithClock.
func NewRegistrationService(regs repository.RegistrationRepository, events repository.EventRepository, logger *slog.Logger) *RegistrationService {
	return &RegistrationService{
		regs:   regs,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the service's notion of "now". Test hook.
func (s *RegistrationService) WithClock(now func() time.Time) *RegistrationService {
	s.now = now
	return s
}

// Register registers the caller for an event. Checks run in a fixed order:
//
//  1. the event exists
//  2. the caller is not the owner
//  3. no registration exists for the pair
//  4. the event's date is strictly in the future
//
// The pre-check in step 3 is advisory; the storage uniqueness constraint is
// authoritative, and a violation from a concurrent double-submit surfaces as
// the same already-registered outcome.
func (s *RegistrationService) Register(ctx context.Context, eventID, userID int64) (*model.Registration, error) {
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.UserID == userID {
		return nil, apperror.SelfRegistration(eventID)
	}

	registered, err := s.regs.RegistrationExists(ctx, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("checking registration: %w", err)
	}
	if registered {
		return nil, apperror.AlreadyRegistered(eventID)
	}

	if !event.Date.After(s.now()) {
		return nil, apperror.EventPast(eventID)
	}

	reg := &model.Registration{EventID: eventID, UserID: userID}
	if err := s.regs.CreateRegistration(ctx, reg); err != nil {
		return nil, err
	}

	s.logger.Info("user registered for event",
		slog.Int64("eventID", eventID),
		slog.Int64("userID", userID),
	)

	return reg, nil
}

// Unregister removes the caller's registration. The event must exist and the
// pair must be registered.
func (s *RegistrationService) Unregister(ctx context.Context, eventID, userID int64) error {
	if _, err := s.events.GetEventByID(ctx, eventID); err != nil {
		return err
	}

	if err := s.regs.DeleteRegistration(ctx, eventID, userID); err != nil {
		return err
	}

	s.logger.Info("user unregistered from event",
		slog.Int64("eventID", eventID),
		slog.Int64("userID", userID),
	)

	return nil
}

// Registrants returns an event's attendee list plus count, ordered by
// registration time ascending. Only the event owner may call it; existence
// is checked before ownership.
func (s *RegistrationService) Registrants(ctx context.Context, callerID, eventID int64) (int, []model.Registrant, error) {
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return 0, nil, err
	}

	if event.UserID != callerID {
		return 0, nil, apperror.Forbidden("not authorized to view registrations for this event")
	}

	registrants, err := s.regs.ListRegistrantsByEvent(ctx, eventID)
	if err != nil {
		return 0, nil, fmt.Errorf("listing registrants: %w", err)
	}

	count, err := s.regs.CountRegistrationsByEvent(ctx, eventID)
	if err != nil {
		return 0, nil, fmt.Errorf("counting registrants: %w", err)
	}

	return count, registrants, nil
}

// Mine returns every event the caller is registered for (with each event
// owner's snapshot), ordered by event date ascending.
func (s *RegistrationService) Mine(ctx context.Context, userID int64) ([]model.RegisteredEvent, error) {
	regs, err := s.regs.ListRegisteredEvents(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing registrations for user %d: %w", userID, err)
	}
	return regs, nil
}
