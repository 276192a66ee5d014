package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/sakif/eventbook/internal/model"
)

// newTestDB opens a fresh in-memory database with the schema applied.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:) error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "hash", Name: "Test User"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seeding user %s: %v", email, err)
	}
	return user
}

func seedEvent(t *testing.T, db *DB, ownerID int64, title string, date time.Time) *model.Event {
	t.Helper()
	event := &model.Event{Title: title, Date: date, UserID: ownerID}
	if err := db.CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("seeding event %q: %v", title, err)
	}
	return event
}
