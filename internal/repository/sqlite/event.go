package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/eventbook/internal/apperror"
	"github.com/sakif/eventbook/internal/model"
	"github.com/sakif/eventbook/internal/repository"
)

// compile-time check that *DB implements repository.EventRepository
var _ repository.EventRepository = (*DB)(nil)

const eventColumns = `id, title, description, address, date, image_url, user_id, created_at`

func scanEvent(row interface{ Scan(...any) error }, e *model.Event) error {
	return row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Address,
		&e.Date,
		&e.ImageURL,
		&e.UserID,
		&e.CreatedAt,
	)
}

// CreateEvent inserts a new event and fills ID and CreatedAt. A violation of
// the (owner, lower(title), date) unique index surfaces as a conflict; the
// index backs the duplicate-event rule against concurrent double-submits.
func (db *DB) CreateEvent(ctx context.Context, event *model.Event) error {
	event.CreatedAt = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO events (title, description, address, date, image_url, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.Title,
		event.Description,
		event.Address,
		event.Date,
		event.ImageURL,
		event.UserID,
		event.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("an identical event already exists for this user")
		}
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", event.UserID)
		}
		return fmt.Errorf("sqlite: inserting event: %w", err)
	}

	event.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading inserted event id: %w", err)
	}

	return nil
}

// GetEventByID retrieves a single event. Returns apperror.ErrNotFound if
// absent, a distinct outcome from storage failure.
func (db *DB) GetEventByID(ctx context.Context, id int64) (*model.Event, error) {
	var e model.Event

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	if err := scanEvent(row, &e); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("event", id)
		}
		return nil, fmt.Errorf("sqlite: getting event %d: %w", id, err)
	}

	return &e, nil
}

// ListEvents returns all events ordered by date ascending.
func (db *DB) ListEvents(ctx context.Context) ([]model.Event, error) {
	return db.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY date ASC`)
}

// ListEventsByOwner returns the owner's events ordered by date ascending.
func (db *DB) ListEventsByOwner(ctx context.Context, ownerID int64) ([]model.Event, error) {
	return db.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events WHERE user_id = ? ORDER BY date ASC`,
		ownerID)
}

func (db *DB) queryEvents(ctx context.Context, query string, args ...any) ([]model.Event, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing events: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var e model.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, fmt.Errorf("sqlite: scanning event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating events: %w", err)
	}

	return events, nil
}

// UpdateEvent writes the full row. The owner column is not part of the SET
// list; ownership is never reassignable.
func (db *DB) UpdateEvent(ctx context.Context, event *model.Event) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE events
		 SET title = ?, description = ?, address = ?, date = ?, image_url = ?
		 WHERE id = ?`,
		event.Title,
		event.Description,
		event.Address,
		event.Date,
		event.ImageURL,
		event.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("an identical event already exists for this user")
		}
		return fmt.Errorf("sqlite: updating event %d: %w", event.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("event", event.ID)
	}

	return nil
}

// DeleteEvent removes an event; dependent registrations cascade.
func (db *DB) DeleteEvent(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting event %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("event", id)
	}

	return nil
}

// ExistsDuplicateEvent reports whether the owner already has an event with
// the same case-insensitive title at the exact same timestamp.
func (db *DB) ExistsDuplicateEvent(ctx context.Context, ownerID int64, title string, date time.Time) (bool, error) {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM events
			WHERE user_id = ? AND lower(title) = lower(?) AND date = ?
		)`,
		ownerID, title, date,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking duplicate event: %w", err)
	}
	return exists, nil
}
