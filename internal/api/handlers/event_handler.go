package handlers

import (
	"net/http"
	"strconv"

	"github.com/isdelr/accounthub-be/internal/auth"
	"github.com/isdelr/accounthub-be/internal/services"
	"github.com/rs/zerolog/log"
)

// EventHandler handles HTTP requests for the account audit log.
type EventHandler struct {
	service       services.EventServiceProvider
	adminUsername string
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider, adminUsername string) *EventHandler {
	return &EventHandler{service: service, adminUsername: adminUsername}
}

// GetRecent returns the most recent audit events. Admin only.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve session from context")
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if session.User.Username != h.adminUsername {
		writeError(w, http.StatusForbidden, "No permission")
		return
	}

	limitStr := r.URL.Query().Get("limit")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 50 // Default limit
	}

	events, err := h.service.GetRecentEvents(limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve events")
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, events)
}
