package session

import (
	"context"
	"log"
	"time"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/detect"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/models"
)

// startPoller watches a pending_login session for the logged-in state,
// one bounded background goroutine per session.
func (e *Engine) startPoller(s *Session) {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancelPoller = cancel
	s.mu.Unlock()
	go e.pollLogin(ctx, s)
}

// pollLogin ticks at PollInterval for at most MaxLoginAttempts. Each
// tick re-reads the status first so a session that moved on (or was
// closed) turns the remaining ticks into no-ops.
func (e *Engine) pollLogin(ctx context.Context, s *Session) {
	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= e.cfg.MaxLoginAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if s.Status() != models.StatusPendingLogin {
			return
		}

		loggedIn, indicator := detect.LoggedIn(s.page)
		if !loggedIn {
			continue
		}

		log.Printf("✅ Session %s: login detected on poll %d (%s)", s.Record().ID, attempt, indicator)
		s.mu.Lock()
		if s.rec.Status != models.StatusPendingLogin {
			s.mu.Unlock()
			return
		}
		s.rec.IsLoggedIn = true
		s.cancelPoller = nil
		if err := s.transitionLocked(models.StatusReadyToFill); err != nil {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		e.logEvent(s, "login_detected", indicator)
		e.persist(s)
		return
	}

	e.expire(s)
}
