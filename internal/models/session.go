package models

import "time"

// Session binds an opaque token to a snapshot of the authenticated user.
// The snapshot is a copy taken at login (or at the last refresh), not a
// live reference to the users table.
type Session struct {
	Token     string     `json:"token"`
	UserID    int64      `json:"userId"`
	User      PublicUser `json:"user"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
