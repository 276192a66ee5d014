package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/eventbook/internal/auth"
	"github.com/sakif/eventbook/internal/model"
	"github.com/sakif/eventbook/internal/repository/sqlite"
	"github.com/sakif/eventbook/internal/service"
)

// Handlers are exercised against real services over an in-memory database,
// so the tests cover the full path from request to storage constraint.

var handlerNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	db     *sqlite.DB
	events *service.EventService
	regs   *service.RegistrationService
	authn  *service.AuthService
	tokens *auth.TokenService

	eventHandler *EventHandler
	regHandler   *RegistrationHandler
	authHandler  *AuthHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := func() time.Time { return handlerNow }

	tokens, err := auth.NewTokenService("test-secret-0123456789abcdef")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(bcrypt.MinCost)

	events := service.NewEventService(db, db, logger).WithClock(clock)
	regs := service.NewRegistrationService(db, db, logger).WithClock(clock)
	authn := service.NewAuthService(db, tokens, passwords, logger)

	return &testEnv{
		db:           db,
		events:       events,
		regs:         regs,
		authn:        authn,
		tokens:       tokens,
		eventHandler: NewEventHandler(events, logger),
		regHandler:   NewRegistrationHandler(regs, logger),
		authHandler:  NewAuthHandler(authn, nil, logger),
	}
}

func (env *testEnv) addUser(t *testing.T, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "hash", Name: "Test User"}
	if err := env.db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seeding user %s: %v", email, err)
	}
	return user
}

func (env *testEnv) addEvent(t *testing.T, ownerID int64, title string, date time.Time) *model.Event {
	t.Helper()
	event := &model.Event{Title: title, Date: date, UserID: ownerID}
	if err := env.db.CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("seeding event %q: %v", title, err)
	}
	return event
}

// asUser attaches an authenticated identity to the request, the way the
// middleware would after validating a token.
func asUser(r *http.Request, user *model.User) *http.Request {
	identity := auth.Identity{ID: user.ID, Email: user.Email}
	return r.WithContext(auth.WithIdentity(r.Context(), identity))
}

func withEventID(r *http.Request, id string) *http.Request {
	r.SetPathValue("id", id)
	return r
}
