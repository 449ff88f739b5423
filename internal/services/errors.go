package services

import "errors"

// Sentinel errors shared by the service layer. Handlers translate these
// into HTTP status codes; anything else is treated as an internal error.
var (
	// ErrInvalidRequest indicates missing or empty required fields.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized indicates bad credentials or a missing/expired session.
	// Deliberately covers both "user not found" and "wrong password" so a
	// caller cannot enumerate usernames.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates an authenticated caller acting outside the
	// self-or-admin rule.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict indicates a username uniqueness violation.
	ErrConflict = errors.New("username already taken")
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")
)
