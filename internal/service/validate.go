// Package service contains the business-logic core: input validation and
// sanitization, event CRUD with ownership rules, the registration lifecycle,
// and credential handling. Services accept repository interfaces and return
// apperror-tagged outcomes; they know nothing about HTTP.
package service

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sakif/eventbook/internal/apperror"
	"github.com/sakif/eventbook/internal/model"
)

// Field limits for event input (lengths in characters, after sanitization).
const (
	MinTitleLength       = 3
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MaxAddressLength     = 200
	MinEventYear         = 1900
	MaxEventYear         = 2100
)

// EventInput is the raw create payload. Date is the unparsed ISO-8601 string
// so a malformed date becomes a validation message, not a decode failure.
type EventInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Date        string `json:"date"`
	ImageURL    string `json:"imageUrl"`
}

// EventPatch is the partial-update payload. Nil means "field absent, leave
// untouched"; only present fields are validated and applied.
type EventPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	Date        *string `json:"date"`
	ImageURL    *string `json:"imageUrl"`
}

// sanitizeText trims leading/trailing whitespace and collapses internal
// whitespace runs to single spaces. Idempotent: sanitizing an already
// sanitized string returns it unchanged.
func sanitizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// validateEventInput checks and sanitizes a full create payload against
// "now". It either fills every field of out or returns a validation error
// carrying the ordered list of messages, never a partial application.
func validateEventInput(in EventInput, now time.Time, out *model.Event) error {
	var msgs []string

	title := sanitizeText(in.Title)
	switch n := utf8.RuneCountInString(title); {
	case n < MinTitleLength:
		msgs = append(msgs, fmt.Sprintf("title must be at least %d characters", MinTitleLength))
	case n > MaxTitleLength:
		msgs = append(msgs, fmt.Sprintf("title must be %d characters or fewer", MaxTitleLength))
	}

	description := sanitizeText(in.Description)
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		msgs = append(msgs, fmt.Sprintf("description must be %d characters or fewer", MaxDescriptionLength))
	}

	address := sanitizeText(in.Address)
	if utf8.RuneCountInString(address) > MaxAddressLength {
		msgs = append(msgs, fmt.Sprintf("address must be %d characters or fewer", MaxAddressLength))
	}

	date, dateMsgs := parseEventDate(in.Date, now, true)
	msgs = append(msgs, dateMsgs...)

	if len(msgs) > 0 {
		return apperror.Validation(msgs...)
	}

	out.Title = title
	out.Description = description
	out.Address = address
	out.Date = date
	out.ImageURL = strings.TrimSpace(in.ImageURL)
	return nil
}

// applyEventPatch validates the fields present in patch and applies them to
// event. Absent fields retain their prior values. Like validateEventInput,
// it applies nothing unless everything present is valid.
func applyEventPatch(event *model.Event, patch EventPatch, now time.Time) error {
	var msgs []string

	var title string
	if patch.Title != nil {
		title = sanitizeText(*patch.Title)
		switch n := utf8.RuneCountInString(title); {
		case n < MinTitleLength:
			msgs = append(msgs, fmt.Sprintf("title must be at least %d characters", MinTitleLength))
		case n > MaxTitleLength:
			msgs = append(msgs, fmt.Sprintf("title must be %d characters or fewer", MaxTitleLength))
		}
	}

	var description string
	if patch.Description != nil {
		description = sanitizeText(*patch.Description)
		if utf8.RuneCountInString(description) > MaxDescriptionLength {
			msgs = append(msgs, fmt.Sprintf("description must be %d characters or fewer", MaxDescriptionLength))
		}
	}

	var address string
	if patch.Address != nil {
		address = sanitizeText(*patch.Address)
		if utf8.RuneCountInString(address) > MaxAddressLength {
			msgs = append(msgs, fmt.Sprintf("address must be %d characters or fewer", MaxAddressLength))
		}
	}

	var date time.Time
	if patch.Date != nil {
		// On update only "strictly later than now" is re-checked; the
		// one-year and calendar-year windows applied at creation.
		var dateMsgs []string
		date, dateMsgs = parseEventDate(*patch.Date, now, false)
		msgs = append(msgs, dateMsgs...)
	}

	if len(msgs) > 0 {
		return apperror.Validation(msgs...)
	}

	if patch.Title != nil {
		event.Title = title
	}
	if patch.Description != nil {
		event.Description = description
	}
	if patch.Address != nil {
		event.Address = address
	}
	if patch.Date != nil {
		event.Date = date
	}
	if patch.ImageURL != nil {
		event.ImageURL = strings.TrimSpace(*patch.ImageURL)
	}
	return nil
}

// parseEventDate parses and checks an event date. full enables the
// create-time window checks (at most one year ahead, calendar year within
// [1900, 2100]) on top of the strictly-in-the-future rule.
func parseEventDate(raw string, now time.Time, full bool) (time.Time, []string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, []string{"date is required"}
	}

	date, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, []string{"date must be a valid ISO-8601 timestamp"}
	}
	date = date.UTC()

	var msgs []string
	if !date.After(now) {
		msgs = append(msgs, "date must be in the future")
	}
	if full {
		if date.After(now.AddDate(1, 0, 0)) {
			msgs = append(msgs, "date must be no more than one year ahead")
		}
		if y := date.Year(); y < MinEventYear || y > MaxEventYear {
			msgs = append(msgs, fmt.Sprintf("date year must be between %d and %d", MinEventYear, MaxEventYear))
		}
	}
	return date, msgs
}
