package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/eventbook/internal/auth"
	"github.com/sakif/eventbook/internal/model"
	"github.com/sakif/eventbook/internal/service"
)

// RegistrationHandler exposes the registration lifecycle over HTTP.
type RegistrationHandler struct {
	regs   *service.RegistrationService
	logger *slog.Logger
}

// NewRegistrationHandler creates a RegistrationHandler.
func NewRegistrationHandler(regs *service.RegistrationService, logger *slog.Logger) *RegistrationHandler {
	return &RegistrationHandler{regs: regs, logger: logger}
}

// registrantsResponse carries an event's attendee list and its count.
type registrantsResponse struct {
	Count         int                `json:"count"`
	Registrations []model.Registrant `json:"registrations"`
}

// HandleRegister registers the caller for an event.
//
// HTTP: POST /api/events/{id}/register
func (h *RegistrationHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	id, err := eventID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	reg, err := h.regs.Register(r.Context(), id, identity.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, reg)
}

// HandleUnregister removes the caller's registration for an event.
//
// HTTP: DELETE /api/events/{id}/register
func (h *RegistrationHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	id, err := eventID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.regs.Unregister(r.Context(), id, identity.ID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRegistrants returns the attendee list for an owned event.
//
// HTTP: GET /api/events/{id}/registrations
func (h *RegistrationHandler) HandleRegistrants(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	id, err := eventID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	count, registrants, err := h.regs.Registrants(r.Context(), identity.ID, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, registrantsResponse{Count: count, Registrations: registrants})
}

// HandleMine returns every event the caller is registered for.
//
// HTTP: GET /api/registrations
func (h *RegistrationHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	regs, err := h.regs.Mine(r.Context(), identity.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, regs)
}
