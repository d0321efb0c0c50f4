package models

import (
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApplicationLog is one audit entry for a session. A submit attempt is
// logged even when verification came back unverified, so duplicate
// auto-retries can be ruled out later.
type ApplicationLog struct {
	ID        string        `json:"id"`
	SessionID string        `json:"session_id"`
	Event     string        `json:"event"`
	Status    SessionStatus `json:"status"`
	Detail    string        `json:"detail,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
