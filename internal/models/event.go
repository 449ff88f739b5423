package models

import "time"

// Event represents an entry in the account audit log.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "auth.login", "user.delete"
	Level     string    `json:"level"` // e.g., "info", "warn", "error"
	Message   string    `json:"message"`
	UserID    *int64    `json:"userId,omitempty"` // Nullable for system-wide events
	CreatedAt time.Time `json:"createdAt"`
}
