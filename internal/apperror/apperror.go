// Package apperror defines the closed set of error kinds the business layer
// returns. Handlers translate these to HTTP status codes with errors.Is and
// errors.As; nothing outside this package invents new kinds.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, one per failure kind. Every *AppError wraps exactly one of
// these so callers can branch with errors.Is regardless of how many times the
// error was wrapped on the way up.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrSelfRegistration  = errors.New("self registration")
	ErrAlreadyRegistered = errors.New("already registered")
	ErrNotRegistered     = errors.New("not registered")
	ErrEventPast         = errors.New("event in the past")
	ErrCredentialInvalid = errors.New("invalid credentials")
	ErrInternal          = errors.New("internal error")
)

// AppError carries a kind (Err), a human-readable message, and, for
// validation failures, the ordered list of field-level messages.
type AppError struct {
	Err     error    // one of the sentinels above
	Message string   // human-readable summary
	Details []string // ordered field messages; only set for ErrValidation
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation returns an AppError wrapping ErrValidation. messages is
// preserved in order; joined, it doubles as the summary.
func Validation(messages ...string) *AppError {
	msg := "validation failed"
	if len(messages) > 0 {
		msg = strings.Join(messages, "; ")
	}
	return &AppError{
		Err:     ErrValidation,
		Message: msg,
		Details: messages,
	}
}

// NotFound reports that an entity does not exist. Absence is a normal
// outcome, kept distinct from storage failures.
func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %d", resource, id),
	}
}

// Forbidden reports that the entity exists but the caller lacks rights to it.
// HTTP handlers map this to 403.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Conflict reports a duplicate entity or a storage constraint violation.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// SelfRegistration reports an owner trying to register for their own event.
func SelfRegistration(eventID int64) *AppError {
	return &AppError{
		Err:     ErrSelfRegistration,
		Message: fmt.Sprintf("cannot register for your own event %d", eventID),
	}
}

// AlreadyRegistered reports a duplicate registration for the same
// (event, user) pair, whether caught by the pre-check or by the storage
// uniqueness constraint.
func AlreadyRegistered(eventID int64) *AppError {
	return &AppError{
		Err:     ErrAlreadyRegistered,
		Message: fmt.Sprintf("already registered for event %d", eventID),
	}
}

// NotRegistered reports an unregister attempt with no matching registration.
func NotRegistered(eventID int64) *AppError {
	return &AppError{
		Err:     ErrNotRegistered,
		Message: fmt.Sprintf("not registered for event %d", eventID),
	}
}

// EventPast reports a registration attempt after the event's date has passed.
func EventPast(eventID int64) *AppError {
	return &AppError{
		Err:     ErrEventPast,
		Message: fmt.Sprintf("event %d has already taken place", eventID),
	}
}

// CredentialInvalid reports a login failure. The message deliberately does
// not distinguish unknown email from wrong password.
func CredentialInvalid() *AppError {
	return &AppError{
		Err:     ErrCredentialInvalid,
		Message: "invalid email or password",
	}
}

// Internal wraps an unexpected storage or runtime failure. The cause stays
// in the error chain for server-side logs; the message is all a caller sees.
func Internal(cause error) *AppError {
	return &AppError{
		Err:     errors.Join(ErrInternal, cause),
		Message: "an internal error occurred",
	}
}
