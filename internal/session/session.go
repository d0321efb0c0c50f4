// Package session owns the application lifecycle: the in-memory registry,
// the status state machine, the login poller and the approval countdown.
// One session holds exactly one browser handle from creation until a
// terminal state releases it.

package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/browser"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/models"
)

// Session is one live application attempt. All mutable state is guarded
// by mu; the record copy handed out by Record is a point-in-time snapshot.
type Session struct {
	mu sync.Mutex

	rec     models.SessionRecord
	profile *models.Profile
	creds   models.Credentials
	page    browser.Engine
	report  models.FillReport

	// tokenUsed makes the approval token single-use across approve,
	// reject and the auto-submit countdown.
	tokenUsed bool
	// filling guards the fill stage against concurrent FillForm calls
	// while the status is still ready_to_fill.
	filling bool

	cancelTimer  context.CancelFunc
	cancelPoller context.CancelFunc
	released     bool
}

// Record returns a snapshot of the session's persisted shape.
func (s *Session) Record() models.SessionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() models.SessionRecord {
	rec := s.rec
	rec.Screenshots = append([]string(nil), s.rec.Screenshots...)
	return rec
}

// Status returns the current status without copying the whole record.
func (s *Session) Status() models.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Status
}

// transitionLocked advances the state machine. Caller must hold mu.
// Backward moves and moves out of a terminal state are refused.
func (s *Session) transitionLocked(next models.SessionStatus) error {
	if !s.rec.Status.CanTransition(next) {
		return fmt.Errorf("illegal status transition %s -> %s", s.rec.Status, next)
	}
	log.Printf("🔄 Session %s: %s -> %s", s.rec.ID, s.rec.Status, next)
	s.rec.Status = next
	return nil
}

// releaseLocked cancels the poller and countdown and closes the browser
// handle. Idempotent; every terminal path funnels through here. Caller
// must hold mu.
func (s *Session) releaseLocked() {
	if s.released {
		return
	}
	s.released = true

	if s.cancelPoller != nil {
		s.cancelPoller()
		s.cancelPoller = nil
	}
	if s.cancelTimer != nil {
		s.cancelTimer()
		s.cancelTimer = nil
	}
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			log.Printf("⚠️ Session %s: failed to close browser handle: %v", s.rec.ID, err)
		}
	}
	log.Printf("🧹 Session %s: browser handle released", s.rec.ID)
}

// stopPollerLocked cancels the login poller without releasing the
// session. Caller must hold mu.
func (s *Session) stopPollerLocked() {
	if s.cancelPoller != nil {
		s.cancelPoller()
		s.cancelPoller = nil
	}
}

// stopTimerLocked cancels the approval countdown without releasing the
// session. Caller must hold mu; the cancellation happens-before any
// submit that follows the approve.
func (s *Session) stopTimerLocked() {
	if s.cancelTimer != nil {
		s.cancelTimer()
		s.cancelTimer = nil
	}
}
