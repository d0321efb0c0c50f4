package models

import (
	"time"
)

// SessionStatus tracks one application attempt through its lifecycle.
// Transitions only move forward along the graph below; terminal states
// release the browser handle.
type SessionStatus string

const (
	StatusPendingLogin       SessionStatus = "pending_login"
	StatusReadyToFill        SessionStatus = "ready_to_fill"
	StatusFormFilled         SessionStatus = "form_filled"
	StatusReadyForSubmission SessionStatus = "ready_for_submission"
	StatusApproved           SessionStatus = "approved"
	StatusSubmitted          SessionStatus = "submitted"
	StatusFailed             SessionStatus = "failed"
	StatusExpired            SessionStatus = "expired"
	StatusRejected           SessionStatus = "rejected"
)

// statusRank orders the non-terminal progression so backward transitions
// can be refused. Terminal states are reachable from anywhere.
var statusRank = map[SessionStatus]int{
	StatusPendingLogin:       1,
	StatusReadyToFill:        2,
	StatusFormFilled:         3,
	StatusReadyForSubmission: 4,
	StatusApproved:           5,
	StatusSubmitted:          6,
}

// IsTerminal reports whether the status ends the session.
func (s SessionStatus) IsTerminal() bool {
	switch s {
	case StatusSubmitted, StatusFailed, StatusExpired, StatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next respects the
// forward-only status graph. Any state may move into a terminal state;
// a terminal state never moves again.
func (s SessionStatus) CanTransition(next SessionStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next.IsTerminal() {
		return true
	}
	return statusRank[next] > statusRank[s]
}

// SessionRecord is the persisted shape of a session, written after each
// major transition. The engine owns the live session; this is the audit row.
type SessionRecord struct {
	ID            string        `json:"id"`
	ApprovalToken string        `json:"approval_token"`
	JobURL        string        `json:"job_url"`
	Platform      string        `json:"platform"`
	Status        SessionStatus `json:"status"`
	RequiresLogin bool          `json:"requires_login"`
	IsLoggedIn    bool          `json:"is_logged_in"`
	FilledCount   int           `json:"filled_count"`
	CoverLetter   string        `json:"cover_letter,omitempty"`
	Screenshots   []string      `json:"screenshots,omitempty"`
	ErrorMessage  string        `json:"error_message,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	ExpiresAt     time.Time     `json:"expires_at"`
	SubmittedAt   *time.Time    `json:"submitted_at,omitempty"`
}
