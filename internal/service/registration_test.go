package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/eventbook/internal/apperror"
	"github.com/sakif/eventbook/internal/model"
)

type regFixture struct {
	users  *mockUserRepo
	events *mockEventRepo
	regs   *mockRegistrationRepo
	svc    *RegistrationService

	owner    *model.User
	attendee *model.User
	event    *model.Event
}

// newRegFixture seeds an owner, an attendee, and one upcoming event owned by
// the owner.
func newRegFixture(t *testing.T) *regFixture {
	t.Helper()
	users := newMockUserRepo()
	events := newMockEventRepo()
	regs := newMockRegistrationRepo(users, events)
	svc := NewRegistrationService(regs, events, discardLogger()).
		WithClock(func() time.Time { return testNow })

	f := &regFixture{users: users, events: events, regs: regs, svc: svc}

	f.owner = &model.User{Email: "owner@example.com", Name: "Owner"}
	f.attendee = &model.User{Email: "attendee@example.com", Name: "Attendee"}
	for _, u := range []*model.User{f.owner, f.attendee} {
		if err := users.CreateUser(context.Background(), u); err != nil {
			t.Fatalf("seeding user: %v", err)
		}
	}

	f.event = &model.Event{
		Title:  "Go Meetup",
		Date:   testNow.AddDate(0, 0, 7),
		UserID: f.owner.ID,
	}
	if err := events.CreateEvent(context.Background(), f.event); err != nil {
		t.Fatalf("seeding event: %v", err)
	}
	return f
}

func TestRegisterLifecycle(t *testing.T) {
	f := newRegFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, f.event.ID, f.attendee.ID)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if reg.ID == 0 || reg.EventID != f.event.ID || reg.UserID != f.attendee.ID {
		t.Errorf("registration = %+v", reg)
	}

	if _, err := f.svc.Register(ctx, f.event.ID, f.attendee.ID); !errors.Is(err, apperror.ErrAlreadyRegistered) {
		t.Fatalf("second Register() error = %v, want ErrAlreadyRegistered", err)
	}

	if err := f.svc.Unregister(ctx, f.event.ID, f.attendee.ID); err != nil {
		t.Fatalf("Unregister() error = %v", err)
	}

	if err := f.svc.Unregister(ctx, f.event.ID, f.attendee.ID); !errors.Is(err, apperror.ErrNotRegistered) {
		t.Fatalf("second Unregister() error = %v, want ErrNotRegistered", err)
	}

	// The pair may register again after unregistering.
	if _, err := f.svc.Register(ctx, f.event.ID, f.attendee.ID); err != nil {
		t.Fatalf("re-Register() error = %v", err)
	}
}

func TestRegisterOwnEvent(t *testing.T) {
	f := newRegFixture(t)

	_, err := f.svc.Register(context.Background(), f.event.ID, f.owner.ID)
	if !errors.Is(err, apperror.ErrSelfRegistration) {
		t.Fatalf("error = %v, want ErrSelfRegistration", err)
	}
}

func TestRegisterMissingEvent(t *testing.T) {
	f := newRegFixture(t)

	if _, err := f.svc.Register(context.Background(), 999, f.attendee.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Register() error = %v, want ErrNotFound", err)
	}
	if err := f.svc.Unregister(context.Background(), 999, f.attendee.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Unregister() error = %v, want ErrNotFound", err)
	}
}

func TestRegisterPastEvent(t *testing.T) {
	f := newRegFixture(t)

	// Advance the clock past the event's date. The pre-existing row stays;
	// only new registrations are refused.
	f.svc.WithClock(func() time.Time { return f.event.Date.Add(time.Hour) })

	_, err := f.svc.Register(context.Background(), f.event.ID, f.attendee.ID)
	if !errors.Is(err, apperror.ErrEventPast) {
		t.Fatalf("error = %v, want ErrEventPast", err)
	}
}

func TestRegisterAtExactEventTime(t *testing.T) {
	f := newRegFixture(t)

	// "Strictly in the future": registering at the event's exact timestamp
	// is already too late.
	f.svc.WithClock(func() time.Time { return f.event.Date })

	_, err := f.svc.Register(context.Background(), f.event.ID, f.attendee.ID)
	if !errors.Is(err, apperror.ErrEventPast) {
		t.Fatalf("error = %v, want ErrEventPast", err)
	}
}

func TestRegisterConcurrentDoubleSubmit(t *testing.T) {
	f := newRegFixture(t)

	// Simulate losing the race: the advisory pre-check saw no row, but the
	// storage uniqueness constraint fired at insert.
	f.regs.createErr = apperror.AlreadyRegistered(f.event.ID)

	_, err := f.svc.Register(context.Background(), f.event.ID, f.attendee.ID)
	if !errors.Is(err, apperror.ErrAlreadyRegistered) {
		t.Fatalf("error = %v, want ErrAlreadyRegistered from the constraint", err)
	}
}

func TestRegistrants(t *testing.T) {
	f := newRegFixture(t)
	ctx := context.Background()

	second := &model.User{Email: "second@example.com", Name: "Second"}
	if err := f.users.CreateUser(ctx, second); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	for _, id := range []int64{f.attendee.ID, second.ID} {
		if _, err := f.svc.Register(ctx, f.event.ID, id); err != nil {
			t.Fatalf("Register(%d) error = %v", id, err)
		}
	}

	count, registrants, err := f.svc.Registrants(ctx, f.owner.ID, f.event.ID)
	if err != nil {
		t.Fatalf("Registrants() error = %v", err)
	}
	if count != 2 || len(registrants) != 2 {
		t.Fatalf("count = %d, len = %d, want 2 and 2", count, len(registrants))
	}
	if registrants[0].User.Email == "" {
		t.Error("registrant rows should carry the user snapshot")
	}

	// Attendees see forbidden; probing a missing event sees not-found.
	if _, _, err := f.svc.Registrants(ctx, f.attendee.ID, f.event.ID); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("non-owner Registrants() error = %v, want ErrForbidden", err)
	}
	if _, _, err := f.svc.Registrants(ctx, f.attendee.ID, 999); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("missing-event Registrants() error = %v, want ErrNotFound", err)
	}
}

func TestRegistrationsMine(t *testing.T) {
	f := newRegFixture(t)
	ctx := context.Background()

	later := &model.Event{
		Title:  "Later Conf",
		Date:   testNow.AddDate(0, 2, 0),
		UserID: f.owner.ID,
	}
	if err := f.events.CreateEvent(ctx, later); err != nil {
		t.Fatalf("seeding event: %v", err)
	}

	if _, err := f.svc.Register(ctx, later.ID, f.attendee.ID); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := f.svc.Register(ctx, f.event.ID, f.attendee.ID); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	mine, err := f.svc.Mine(ctx, f.attendee.ID)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("Mine() returned %d rows, want 2", len(mine))
	}
	if mine[0].Event.ID != f.event.ID || mine[1].Event.ID != later.ID {
		t.Errorf("rows not ordered by event date ascending: %d, %d", mine[0].Event.ID, mine[1].Event.ID)
	}
	if mine[0].Owner.ID != f.owner.ID {
		t.Errorf("Owner.ID = %d, want %d", mine[0].Owner.ID, f.owner.ID)
	}

	empty, err := f.svc.Mine(ctx, f.owner.ID)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Mine() for unregistered user returned %d rows, want 0", len(empty))
	}
}
