package client

import (
	"context"

	"github.com/isdelr/accounthub-be/internal/models"
	"github.com/rs/zerolog/log"
)

// Navigator is the presentation layer's navigation surface. Push changes
// the active view; Reload restarts the whole client, wiping all in-memory
// state.
type Navigator interface {
	Push(path string)
	Reload()
}

// Store is the client-side mirror of the authenticated user. It is not a
// source of truth: it is populated from GET /me and cleared whenever the
// server session goes away. Single-goroutine use is assumed; Loading is
// informational and does not serialize calls.
type Store struct {
	api API
	nav Navigator

	CurrentUser *models.PublicUser
	Loading     bool
}

// NewStore creates a session mirror over the given API and navigator.
func NewStore(api API, nav Navigator) *Store {
	return &Store{api: api, nav: nav}
}

// InitAuth populates the mirror from the server. Any failure (network or
// 401) leaves the mirror Anonymous and is never surfaced.
func (s *Store) InitAuth(ctx context.Context) {
	s.Loading = true
	defer func() { s.Loading = false }()

	user, err := s.api.GetMe(ctx)
	if err != nil {
		s.CurrentUser = nil
		return
	}
	s.CurrentUser = &user
}

// Login authenticates and, on success, fills the mirror and navigates
// home. Reports success as a boolean; a failed login leaves the mirror
// untouched for the caller to render.
func (s *Store) Login(ctx context.Context, username, password string) bool {
	s.Loading = true
	defer func() { s.Loading = false }()

	user, err := s.api.Login(ctx, username, password)
	if err != nil {
		log.Error().Err(err).Msg("Failed to login")
		return false
	}
	s.CurrentUser = &user
	s.nav.Push("/home")
	return true
}

// Register creates an account and navigates to the login view. It does
// not log in.
func (s *Store) Register(ctx context.Context, username, password, email string) bool {
	s.Loading = true
	defer func() { s.Loading = false }()

	if _, err := s.api.Register(ctx, username, password, email); err != nil {
		log.Error().Err(err).Msg("Failed to register")
		return false
	}
	s.nav.Push("/login")
	return true
}

// Logout destroys the server session, clears the mirror and navigates to
// the login view.
func (s *Store) Logout(ctx context.Context) {
	s.Loading = true
	defer func() { s.Loading = false }()

	if err := s.api.Logout(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to logout")
		return
	}
	s.CurrentUser = nil
	s.nav.Push("/login")
}

// UpdateUser applies a profile update. Updating the current user forces a
// full logout-and-reload rather than keeping the session alive; this is a
// deliberate simplification to avoid partial-state bugs.
func (s *Store) UpdateUser(ctx context.Context, id int64, email, newPassword string) bool {
	s.Loading = true
	defer func() { s.Loading = false }()

	user, err := s.api.UpdateUser(ctx, id, email, newPassword)
	if err != nil {
		log.Error().Err(err).Msg("Failed to update")
		return false
	}

	if s.CurrentUser != nil && s.CurrentUser.ID == id {
		s.CurrentUser = &user
		if err := s.api.Logout(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to logout after self-update")
		}
		s.CurrentUser = nil
		s.nav.Push("/login")
		s.nav.Reload()
	}
	return true
}

// DeleteUser removes an account. Deleting the current user logs out and
// reloads, same as UpdateUser.
func (s *Store) DeleteUser(ctx context.Context, id int64) bool {
	s.Loading = true
	defer func() { s.Loading = false }()

	if err := s.api.DeleteUser(ctx, id); err != nil {
		log.Error().Err(err).Msg("Failed to delete")
		return false
	}

	if s.CurrentUser != nil && s.CurrentUser.ID == id {
		s.CurrentUser = nil
		// The session is already gone server-side; the logout call fails
		// with 401 and that is fine.
		if err := s.api.Logout(ctx); err != nil {
			log.Debug().Err(err).Msg("Logout after self-delete")
		}
		s.nav.Push("/login")
		s.nav.Reload()
	}
	return true
}
