package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sakif/eventbook/internal/apperror"
	"github.com/sakif/eventbook/internal/model"
	"github.com/sakif/eventbook/internal/repository"
)

// In-memory repository fakes. They reproduce the storage-layer contracts
// (conflict on duplicate email, already-registered on a duplicate pair,
// not-found on missing rows) so service tests exercise the real error paths.

type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return apperror.Conflict("a user with this email already exists")
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now().UTC()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "user not found"}
}

type mockEventRepo struct {
	events map[int64]*model.Event
	nextID int64
}

var _ repository.EventRepository = (*mockEventRepo)(nil)

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[int64]*model.Event)}
}

func (m *mockEventRepo) CreateEvent(_ context.Context, event *model.Event) error {
	m.nextID++
	event.ID = m.nextID
	event.CreatedAt = time.Now().UTC()
	cp := *event
	m.events[event.ID] = &cp
	return nil
}

func (m *mockEventRepo) GetEventByID(_ context.Context, id int64) (*model.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, apperror.NotFound("event", id)
	}
	cp := *e
	return &cp, nil
}

func (m *mockEventRepo) ListEvents(_ context.Context) ([]model.Event, error) {
	out := make([]model.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *mockEventRepo) ListEventsByOwner(_ context.Context, ownerID int64) ([]model.Event, error) {
	var out []model.Event
	for _, e := range m.events {
		if e.UserID == ownerID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *mockEventRepo) UpdateEvent(_ context.Context, event *model.Event) error {
	if _, ok := m.events[event.ID]; !ok {
		return apperror.NotFound("event", event.ID)
	}
	cp := *event
	m.events[event.ID] = &cp
	return nil
}

func (m *mockEventRepo) DeleteEvent(_ context.Context, id int64) error {
	if _, ok := m.events[id]; !ok {
		return apperror.NotFound("event", id)
	}
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) ExistsDuplicateEvent(_ context.Context, ownerID int64, title string, date time.Time) (bool, error) {
	for _, e := range m.events {
		if e.UserID == ownerID && strings.EqualFold(e.Title, title) && e.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

type regKey struct {
	eventID, userID int64
}

type mockRegistrationRepo struct {
	regs   map[regKey]*model.Registration
	users  *mockUserRepo
	events *mockEventRepo
	nextID int64

	// createErr, when set, is returned by CreateRegistration regardless of
	// state. Used to simulate a concurrent double-submit losing the race at
	// the uniqueness constraint.
	createErr error
}

var _ repository.RegistrationRepository = (*mockRegistrationRepo)(nil)

func newMockRegistrationRepo(users *mockUserRepo, events *mockEventRepo) *mockRegistrationRepo {
	return &mockRegistrationRepo{
		regs:   make(map[regKey]*model.Registration),
		users:  users,
		events: events,
	}
}

func (m *mockRegistrationRepo) CreateRegistration(_ context.Context, reg *model.Registration) error {
	if m.createErr != nil {
		return m.createErr
	}
	key := regKey{reg.EventID, reg.UserID}
	if _, ok := m.regs[key]; ok {
		return apperror.AlreadyRegistered(reg.EventID)
	}
	if _, ok := m.events.events[reg.EventID]; !ok {
		return apperror.NotFound("event", reg.EventID)
	}
	m.nextID++
	reg.ID = m.nextID
	reg.CreatedAt = time.Now().UTC()
	cp := *reg
	m.regs[key] = &cp
	return nil
}

func (m *mockRegistrationRepo) RegistrationExists(_ context.Context, eventID, userID int64) (bool, error) {
	_, ok := m.regs[regKey{eventID, userID}]
	return ok, nil
}

func (m *mockRegistrationRepo) DeleteRegistration(_ context.Context, eventID, userID int64) error {
	key := regKey{eventID, userID}
	if _, ok := m.regs[key]; !ok {
		return apperror.NotRegistered(eventID)
	}
	delete(m.regs, key)
	return nil
}

func (m *mockRegistrationRepo) ListRegistrantsByEvent(_ context.Context, eventID int64) ([]model.Registrant, error) {
	var out []model.Registrant
	for key, reg := range m.regs {
		if key.eventID != eventID {
			continue
		}
		u := m.users.users[key.userID]
		out = append(out, model.Registrant{
			User:         u.Identity(),
			RegisteredAt: reg.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User.ID < out[j].User.ID })
	return out, nil
}

func (m *mockRegistrationRepo) CountRegistrationsByEvent(_ context.Context, eventID int64) (int, error) {
	n := 0
	for key := range m.regs {
		if key.eventID == eventID {
			n++
		}
	}
	return n, nil
}

func (m *mockRegistrationRepo) ListRegisteredEvents(_ context.Context, userID int64) ([]model.RegisteredEvent, error) {
	var out []model.RegisteredEvent
	for key, reg := range m.regs {
		if key.userID != userID {
			continue
		}
		e := m.events.events[key.eventID]
		owner := m.users.users[e.UserID]
		out = append(out, model.RegisteredEvent{
			Event:        *e,
			Owner:        owner.Identity(),
			RegisteredAt: reg.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Event.Date.Before(out[j].Event.Date) })
	return out, nil
}
