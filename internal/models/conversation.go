package models

import "time"

// Conversation groups the messages exchanged under one session token.
type Conversation struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"session_id"`
	UserID       *int64    `json:"user_id,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	LastActivity time.Time `json:"last_activity"`
	IsActive     bool      `json:"is_active"`
}
