package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/eventbook/internal/apperror"
	"github.com/sakif/eventbook/internal/auth"
	"github.com/sakif/eventbook/internal/model"
	"github.com/sakif/eventbook/internal/service"
)

// EventHandler exposes event CRUD over HTTP.
type EventHandler struct {
	events *service.EventService
	logger *slog.Logger
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(events *service.EventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{events: events, logger: logger}
}

// eventResponse is the body of ownership-bearing responses: the persisted
// row plus the owner's identity snapshot.
type eventResponse struct {
	Event *model.Event   `json:"event"`
	Owner model.Identity `json:"owner"`
}

// eventID extracts and parses the {id} URL parameter.
func eventID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation("event id must be a positive integer")
	}
	return id, nil
}

// HandleCreate creates an event owned by the authenticated caller.
//
// HTTP: POST /api/events
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated", Message: "valid authentication required"})
		return
	}

	var in service.EventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	event, owner, err := h.events.Create(r.Context(), identity.ID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, eventResponse{Event: event, Owner: owner})
}

// HandleGet returns a single event by id.
//
// HTTP: GET /api/events/{id}
func (h *EventHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := eventID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// HandleList returns all events, date ascending.
//
// HTTP: GET /api/events
func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// HandleListOwned returns the authenticated caller's events, date ascending.
//
// HTTP: GET /api/events/owned
func (h *EventHandler) HandleListOwned(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	events, err := h.events.ListOwned(r.Context(), identity.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// HandleUpdate applies a partial update to an owned event.
//
// HTTP: PUT /api/events/{id}
func (h *EventHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	id, err := eventID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var patch service.EventPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	event, owner, err := h.events.Update(r.Context(), identity.ID, id, patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, eventResponse{Event: event, Owner: owner})
}

// HandleDelete removes an owned event (registrations cascade).
//
// HTTP: DELETE /api/events/{id}
func (h *EventHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	id, err := eventID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.events.Delete(r.Context(), identity.ID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
