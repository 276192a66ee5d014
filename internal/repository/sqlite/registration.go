package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/sakif/eventbook/internal/apperror"
	"github.com/sakif/eventbook/internal/model"
	"github.com/sakif/eventbook/internal/repository"
)

// compile-time check that *DB implements repository.RegistrationRepository
var _ repository.RegistrationRepository = (*DB)(nil)

// CreateRegistration inserts a registration row. The composite
// UNIQUE(event_id, user_id) constraint is the race detector for concurrent
// double-submits: a violation maps to ErrAlreadyRegistered, not a generic
// failure.
func (db *DB) CreateRegistration(ctx context.Context, reg *model.Registration) error {
	reg.CreatedAt = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO event_registrations (event_id, user_id, created_at)
		 VALUES (?, ?, ?)`,
		reg.EventID,
		reg.UserID,
		reg.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.AlreadyRegistered(reg.EventID)
		}
		if isForeignKeyViolation(err) {
			return apperror.NotFound("event", reg.EventID)
		}
		return fmt.Errorf("sqlite: inserting registration: %w", err)
	}

	reg.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading inserted registration id: %w", err)
	}

	return nil
}

// RegistrationExists reports whether the (event, user) pair is registered.
func (db *DB) RegistrationExists(ctx context.Context, eventID, userID int64) (bool, error) {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM event_registrations WHERE event_id = ? AND user_id = ?
		)`,
		eventID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking registration: %w", err)
	}
	return exists, nil
}

// DeleteRegistration removes the registration for the pair. Zero affected
// rows means there was nothing to remove.
func (db *DB) DeleteRegistration(ctx context.Context, eventID, userID int64) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM event_registrations WHERE event_id = ? AND user_id = ?`,
		eventID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting registration: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotRegistered(eventID)
	}

	return nil
}

// ListRegistrantsByEvent returns the attendee list for an event, ordered by
// registration time ascending.
func (db *DB) ListRegistrantsByEvent(ctx context.Context, eventID int64) ([]model.Registrant, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT u.id, u.email, u.name, r.created_at
		 FROM event_registrations r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.event_id = ?
		 ORDER BY r.created_at ASC, r.id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing registrants: %w", err)
	}
	defer rows.Close()

	registrants := []model.Registrant{}
	for rows.Next() {
		var r model.Registrant
		if err := rows.Scan(&r.User.ID, &r.User.Email, &r.User.Name, &r.RegisteredAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning registrant row: %w", err)
		}
		registrants = append(registrants, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating registrants: %w", err)
	}

	return registrants, nil
}

// CountRegistrationsByEvent returns the number of registrations for an event.
func (db *DB) CountRegistrationsByEvent(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_registrations WHERE event_id = ?`,
		eventID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting registrations: %w", err)
	}
	return count, nil
}

// ListRegisteredEvents returns every event the user is registered for, with
// the event owner's identity snapshot, ordered by event date ascending.
func (db *DB) ListRegisteredEvents(ctx context.Context, userID int64) ([]model.RegisteredEvent, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT e.id, e.title, e.description, e.address, e.date, e.image_url,
		        e.user_id, e.created_at,
		        o.id, o.email, o.name,
		        r.created_at
		 FROM event_registrations r
		 JOIN events e ON e.id = r.event_id
		 JOIN users o  ON o.id = e.user_id
		 WHERE r.user_id = ?
		 ORDER BY e.date ASC, e.id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing registered events: %w", err)
	}
	defer rows.Close()

	result := []model.RegisteredEvent{}
	for rows.Next() {
		var re model.RegisteredEvent
		if err := rows.Scan(
			&re.Event.ID, &re.Event.Title, &re.Event.Description, &re.Event.Address,
			&re.Event.Date, &re.Event.ImageURL, &re.Event.UserID, &re.Event.CreatedAt,
			&re.Owner.ID, &re.Owner.Email, &re.Owner.Name,
			&re.RegisteredAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning registered event row: %w", err)
		}
		result = append(result, re)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating registered events: %w", err)
	}

	return result, nil
}
