package session

import (
	"context"
	"log"
	"time"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/models"
)

// armTimer starts the auto-submit countdown for a session sitting in
// ready_for_submission. Approve and Reject cancel it; if it fires first,
// the session is treated as implicitly approved.
func (e *Engine) armTimer(s *Session) {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancelTimer = cancel
	window := e.cfg.ApprovalWindow
	s.mu.Unlock()

	go func() {
		timer := time.NewTimer(window)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		e.autoSubmit(s)
	}()
}

// autoSubmit re-reads the status under the session lock before acting,
// so a countdown that lost the race against Approve or Reject becomes a
// no-op instead of a double submit.
func (e *Engine) autoSubmit(s *Session) {
	s.mu.Lock()
	if s.rec.Status != models.StatusReadyForSubmission {
		s.mu.Unlock()
		return
	}
	s.tokenUsed = true
	s.cancelTimer = nil
	if err := s.transitionLocked(models.StatusApproved); err != nil {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	log.Printf("⏱️ Session %s: approval window elapsed, auto-submitting", s.Record().ID)
	e.logEvent(s, "auto_approved", "approval window elapsed")
	e.persist(s)
	e.submit(context.Background(), s)
}
