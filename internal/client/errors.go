package client

import "errors"

// Sentinel errors mapped from the server's error taxonomy.
var (
	// ErrInvalidRequest corresponds to a 400 response.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized corresponds to a 401 response.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden corresponds to a 403 response.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict corresponds to a 409 response.
	ErrConflict = errors.New("conflict")
	// ErrServer corresponds to any other non-2xx response.
	ErrServer = errors.New("server error")
)
