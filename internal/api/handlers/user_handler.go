package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/accounthub-be/internal/auth"
	"github.com/isdelr/accounthub-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for registration, authentication and
// profile management.
type UserHandler struct {
	users         services.UserServiceProvider
	sessions      services.SessionServiceProvider
	events        services.EventServiceProvider
	adminUsername string
	sessionTTL    time.Duration
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users services.UserServiceProvider, sessions services.SessionServiceProvider, events services.EventServiceProvider, adminUsername string, sessionTTL time.Duration) *UserHandler {
	return &UserHandler{
		users:         users,
		sessions:      sessions,
		events:        events,
		adminUsername: adminUsername,
		sessionTTL:    sessionTTL,
	}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdatePayload defines the structure for profile update requests.
// Unknown fields are ignored.
type UpdatePayload struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// Register handles new user registration. It does not log the user in;
// the client must follow up with a login call.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.Username == "" || payload.Password == "" || payload.Email == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := h.users.CreateUser(payload.Username, payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			writeError(w, http.StatusConflict, "The username has already been taken")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register user")
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.logEvent("user.register", "info", "User "+user.Username+" registered", &user.ID)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Register successfully",
		"user":    user.Public(),
	})
}

// Login handles credential verification and session creation. An unknown
// username and a wrong password produce identical responses.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.Username == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "Need username and password")
		return
	}

	user, err := h.users.AuthenticateUser(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
			h.logEvent("auth.login.fail", "warn", "Failed login for username "+payload.Username, nil)
			writeError(w, http.StatusUnauthorized, "Wrong username or password")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to authenticate user")
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	session, err := h.sessions.Create(user.Public())
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to create session")
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	auth.SetSessionCookie(w, session.Token, h.sessionTTL)
	h.logEvent("auth.login", "info", "User "+user.Username+" logged in", &user.ID)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successfully",
		"user":    user.Public(),
	})
}

// GetMe returns the session's user snapshot, unchanged. It deliberately
// does not hit the users table.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve session from context")
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, session.User)
}

// Logout destroys the current session and clears the cookie.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve session from context")
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if err := h.sessions.Delete(session.Token); err != nil {
		log.Error().Err(err).Int64("user_id", session.UserID).Msg("Failed to logout")
		writeError(w, http.StatusInternalServerError, "Failed to logout")
		return
	}

	auth.ClearSessionCookie(w)
	h.logEvent("auth.logout", "info", "User "+session.User.Username+" logged out", &session.UserID)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successfully"})
}

// List returns all users, optionally filtered by a search term matched
// against username and email.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.URL.Query().Get("search"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Update handles a partial profile update under the self-or-admin rule.
// If the target is the acting user, the session snapshot is refreshed so
// a following GetMe reflects the change without re-login.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve session from context")
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if session.User.ID != id && session.User.Username != h.adminUsername {
		writeError(w, http.StatusForbidden, "No permission")
		return
	}

	var payload UpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.UpdateUser(id, payload.Email, payload.NewPassword)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, "No updated content")
			return
		}
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to update user")
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if session.User.ID == id {
		if err := h.sessions.RefreshSnapshot(session.Token, user.Public()); err != nil {
			log.Error().Err(err).Int64("user_id", id).Msg("Failed to refresh session snapshot")
		}
	}

	h.logEvent("user.update", "info", "User "+user.Username+" updated", &id)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Update Successfully",
		"user":    user.Public(),
	})
}

// Delete removes a user account under the self-or-admin rule. Every
// session of the target user is destroyed; a self-delete also clears the
// acting client's cookie.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve session from context")
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if session.User.ID != id && session.User.Username != h.adminUsername {
		writeError(w, http.StatusForbidden, "No permission")
		return
	}

	if err := h.users.DeleteUser(id); err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to delete user")
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if err := h.sessions.DeleteAllForUser(id); err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to delete sessions for user")
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if session.User.ID == id {
		auth.ClearSessionCookie(w)
	}

	h.logEvent("user.delete", "info", "User account deleted", &id)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Delete successfully"})
}

// logEvent records an audit event; failures are logged but never fail the
// request.
func (h *UserHandler) logEvent(eventType, level, message string, userID *int64) {
	if err := h.events.CreateEvent(eventType, level, message, userID); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to record audit event")
	}
}
