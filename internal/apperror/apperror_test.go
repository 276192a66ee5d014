package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("event", 42),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "Validation wraps ErrValidation",
			err:       Validation("title is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("duplicate event"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden("not yours"),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "SelfRegistration wraps ErrSelfRegistration",
			err:       SelfRegistration(7),
			target:    ErrSelfRegistration,
			wantMatch: true,
		},
		{
			name:      "AlreadyRegistered wraps ErrAlreadyRegistered",
			err:       AlreadyRegistered(7),
			target:    ErrAlreadyRegistered,
			wantMatch: true,
		},
		{
			name:      "NotRegistered wraps ErrNotRegistered",
			err:       NotRegistered(7),
			target:    ErrNotRegistered,
			wantMatch: true,
		},
		{
			name:      "EventPast wraps ErrEventPast",
			err:       EventPast(7),
			target:    ErrEventPast,
			wantMatch: true,
		},
		{
			name:      "CredentialInvalid wraps ErrCredentialInvalid",
			err:       CredentialInvalid(),
			target:    ErrCredentialInvalid,
			wantMatch: true,
		},
		{
			name:      "Internal wraps ErrInternal",
			err:       Internal(errors.New("disk on fire")),
			target:    ErrInternal,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrForbidden",
			err:       NotFound("event", 42),
			target:    ErrForbidden,
			wantMatch: false,
		},
		{
			name:      "AlreadyRegistered does NOT match ErrConflict",
			err:       AlreadyRegistered(7),
			target:    ErrConflict,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorsIsSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("registering: %w", AlreadyRegistered(3))
	if !errors.Is(wrapped, ErrAlreadyRegistered) {
		t.Error("wrapped AlreadyRegistered should still match ErrAlreadyRegistered")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As should extract *AppError through wrapping")
	}
	if appErr.Message == "" {
		t.Error("extracted AppError has no message")
	}
}

func TestValidationDetails(t *testing.T) {
	err := Validation("first", "second", "third")

	if len(err.Details) != 3 {
		t.Fatalf("Details length = %d, want 3", len(err.Details))
	}
	for i, want := range []string{"first", "second", "third"} {
		if err.Details[i] != want {
			t.Errorf("Details[%d] = %q, want %q", i, err.Details[i], want)
		}
	}
	if err.Message != "first; second; third" {
		t.Errorf("Message = %q, want joined details", err.Message)
	}
}

func TestInternalKeepsCauseInChain(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause)

	if !errors.Is(err, cause) {
		t.Error("Internal should keep the cause in the chain for server-side logs")
	}
	if err.Message != "an internal error occurred" {
		t.Errorf("Message = %q, want the generic message", err.Message)
	}
}
