package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/accounthub-be/internal/models"
)

// SessionServiceProvider defines the interface for session services.
type SessionServiceProvider interface {
	Create(user models.PublicUser) (models.Session, error)
	Get(token string) (models.Session, error)
	RefreshSnapshot(token string, user models.PublicUser) error
	Delete(token string) error
	DeleteAllForUser(userID int64) error
	DeleteExpired() (int64, error)
}

// SessionService manages the server-side session store. Each session maps
// an opaque token to a serialized snapshot of the authenticated user with
// a fixed TTL from creation.
type SessionService struct {
	db  *sql.DB
	ttl time.Duration
}

// NewSessionService creates a new SessionService with the given TTL.
func NewSessionService(db *sql.DB, ttl time.Duration) *SessionService {
	return &SessionService{db: db, ttl: ttl}
}

// Create mints a new session for the given user snapshot. A user may hold
// any number of concurrent sessions, each under its own token.
func (s *SessionService) Create(user models.PublicUser) (models.Session, error) {
	payload, err := json.Marshal(user)
	if err != nil {
		return models.Session{}, err
	}

	session := models.Session{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		User:      user,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	stmt, err := s.db.Prepare("INSERT INTO sessions(token, user_id, payload, expires_at) VALUES(?, ?, ?, ?)")
	if err != nil {
		return models.Session{}, err
	}
	defer stmt.Close()

	if _, err := stmt.Exec(session.Token, session.UserID, string(payload), session.ExpiresAt); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// Get resolves a token to its session. An unknown token returns
// ErrUnauthorized; an expired row is deleted and also returns
// ErrUnauthorized.
func (s *SessionService) Get(token string) (models.Session, error) {
	var session models.Session
	var payload string
	row := s.db.QueryRow("SELECT token, user_id, payload, expires_at FROM sessions WHERE token = ?", token)
	err := row.Scan(&session.Token, &session.UserID, &payload, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrUnauthorized
		}
		return models.Session{}, err
	}

	if session.Expired(time.Now()) {
		_ = s.Delete(token)
		return models.Session{}, ErrUnauthorized
	}

	if err := json.Unmarshal([]byte(payload), &session.User); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// RefreshSnapshot replaces the stored user snapshot for a session, so a
// subsequent Get reflects profile changes without re-login. The TTL is
// not extended.
func (s *SessionService) RefreshSnapshot(token string, user models.PublicUser) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	_, err = s.db.Exec("UPDATE sessions SET payload = ? WHERE token = ?", string(payload), token)
	return err
}

// Delete destroys a single session.
func (s *SessionService) Delete(token string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE token = ?", token)
	return err
}

// DeleteAllForUser destroys every session belonging to a user, used when
// the account is deleted.
func (s *SessionService) DeleteAllForUser(userID int64) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE user_id = ?", userID)
	return err
}

// DeleteExpired removes all sessions past their expiry and returns the
// number of rows swept.
func (s *SessionService) DeleteExpired() (int64, error) {
	res, err := s.db.Exec("DELETE FROM sessions WHERE expires_at <= ?", time.Now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
