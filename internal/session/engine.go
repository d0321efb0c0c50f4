package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/ai"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/browser"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/config"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/dedup"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/detect"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/fill"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/login"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/models"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/notify"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/platform"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/verify"
	"github.com/thetanishqrawat05/QuickApply-sub000/utils"
)

// Store persists audit rows. The engine works without one; persistence
// failures are logged and never interrupt a session.
type Store interface {
	SaveSession(ctx context.Context, rec *models.SessionRecord) error
	InsertApplicationLog(ctx context.Context, entry *models.ApplicationLog) error
}

// Result is the caller-facing outcome of an engine operation. Business
// refusals (duplicate job, spent token) come back as Success=false with
// a message; errors are reserved for genuinely broken operations.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// Filled and ReadyToSubmit are the stage-specific fields of FillForm.
	Filled        bool                 `json:"filled,omitempty"`
	ReadyToSubmit bool                 `json:"ready_to_submit,omitempty"`
	Session       models.SessionRecord `json:"session"`
}

// Engine drives application sessions end to end.
type Engine struct {
	cfg        *config.Config
	factory    browser.Factory
	registry   *Registry
	dispatcher *notify.Dispatcher
	evidence   *utils.EvidenceCapture

	letters ai.Client
	store   Store
	cache   *dedup.AppliedCache
}

func NewEngine(cfg *config.Config, factory browser.Factory, dispatcher *notify.Dispatcher) *Engine {
	return &Engine{
		cfg:        cfg,
		factory:    factory,
		registry:   NewRegistry(),
		dispatcher: dispatcher,
		evidence:   utils.NewEvidenceCapture(cfg.ScreenshotDir),
	}
}

// WithCoverLetters enables AI cover-letter generation during the fill stage.
func (e *Engine) WithCoverLetters(c ai.Client) *Engine {
	e.letters = c
	return e
}

// WithStore enables audit persistence.
func (e *Engine) WithStore(st Store) *Engine {
	e.store = st
	return e
}

// WithCache enables duplicate-application refusal.
func (e *Engine) WithCache(c *dedup.AppliedCache) *Engine {
	e.cache = c
	return e
}

// Registry exposes the session index for read-only API handlers.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Start opens a browser session for jobURL and takes it as far as the
// login boundary: ready_to_fill when the page needs no authentication
// (or credentials got us through), parked in pending_login behind the
// poller otherwise. Filling is a separate step; see FillForm.
func (e *Engine) Start(ctx context.Context, jobURL string, profile *models.Profile, creds models.Credentials) (Result, error) {
	if e.cache != nil && e.cache.AlreadyApplied(jobURL) {
		return Result{Success: false, Message: "an application for this job was already submitted"}, nil
	}

	page, err := e.factory(ctx)
	if err != nil {
		if errors.Is(err, browser.ErrBrowserUnavailable) {
			return Result{}, fmt.Errorf("cannot start session: %w", err)
		}
		return Result{}, fmt.Errorf("failed to open browser session: %w", err)
	}

	if err := page.Navigate(ctx, jobURL); err != nil {
		page.Close()
		return Result{}, fmt.Errorf("failed to open job page: %w", err)
	}

	now := time.Now()
	s := &Session{
		rec: models.SessionRecord{
			ID:            uuid.NewString(),
			ApprovalToken: uuid.NewString(),
			JobURL:        jobURL,
			Platform:      platform.Classify(jobURL),
			Status:        models.StatusPendingLogin,
			CreatedAt:     now,
			ExpiresAt:     now.Add(e.cfg.LoginDeadline()),
		},
		profile: profile,
		creds:   creds,
		page:    page,
	}
	e.registry.Add(s)
	log.Printf("🚀 Session %s started for %s (%s)", s.rec.ID, jobURL, s.rec.Platform)
	e.logEvent(s, "session_started", s.rec.Platform)

	needsLogin, indicator := detect.LoginRequired(page)
	if !needsLogin {
		s.mu.Lock()
		s.rec.IsLoggedIn = true
		err := s.transitionLocked(models.StatusReadyToFill)
		s.mu.Unlock()
		if err != nil {
			return e.result(s, false, err.Error()), nil
		}
		e.persist(s)
		return e.result(s, true, "no login required, ready to fill"), nil
	}

	s.mu.Lock()
	s.rec.RequiresLogin = true
	s.mu.Unlock()
	log.Printf("🔐 Session %s requires login (%s)", s.rec.ID, indicator)

	if creds.HasCredentials() {
		coordinator := login.NewCoordinator(page, e.cfg.LoginSettleDelay)
		ok, err := coordinator.Attempt(ctx, creds)
		if err != nil && !errors.Is(err, login.ErrNoCredentials) {
			log.Printf("⚠️ Session %s: automated login failed: %v", s.rec.ID, err)
		}
		if ok {
			s.mu.Lock()
			s.rec.IsLoggedIn = true
			err := s.transitionLocked(models.StatusReadyToFill)
			s.mu.Unlock()
			if err != nil {
				return e.result(s, false, err.Error()), nil
			}
			e.logEvent(s, "login_automated", "")
			e.persist(s)
			return e.result(s, true, "logged in, ready to fill"), nil
		}
	}

	// Park the session: the user logs in from the visible browser window
	// and the poller picks up the state change.
	e.startPoller(s)
	e.persist(s)
	rec := s.Record()
	e.notifyUser(s, "Login needed", notify.LoginMessage(&rec))
	return e.result(s, true, "waiting for manual login"), nil
}

// CheckLogin re-evaluates the logged-in indicators for a parked session
// on demand, without waiting for the next poll tick. On success the
// session lands in ready_to_fill; filling is FillForm's job.
func (e *Engine) CheckLogin(ctx context.Context, id string) (Result, error) {
	s, ok := e.registry.ByID(id)
	if !ok {
		return Result{}, fmt.Errorf("session not found")
	}
	if s.Status() != models.StatusPendingLogin {
		return e.result(s, false, "session is not waiting for login"), nil
	}

	loggedIn, indicator := detect.LoggedIn(s.page)
	if !loggedIn {
		return e.result(s, false, "still waiting for login"), nil
	}

	log.Printf("✅ Session %s: login detected (%s)", s.Record().ID, indicator)
	s.mu.Lock()
	if s.rec.Status != models.StatusPendingLogin {
		s.mu.Unlock()
		return e.result(s, false, "session is not waiting for login"), nil
	}
	s.rec.IsLoggedIn = true
	s.stopPollerLocked()
	err := s.transitionLocked(models.StatusReadyToFill)
	s.mu.Unlock()
	if err != nil {
		return e.result(s, false, err.Error()), nil
	}
	e.logEvent(s, "login_detected", indicator)
	e.persist(s)
	return e.result(s, true, "login confirmed, ready to fill"), nil
}

// FillForm runs the fill stage for a session sitting in ready_to_fill:
// cover letter, field mapping, evidence capture, submit-control check,
// then the approval countdown. Any stage failure ends the session as
// failed and is reflected in the result, never thrown.
func (e *Engine) FillForm(ctx context.Context, id string) (res Result, err error) {
	s, ok := e.registry.ByID(id)
	if !ok {
		return Result{}, fmt.Errorf("session not found")
	}

	s.mu.Lock()
	if s.filling || s.rec.Status != models.StatusReadyToFill {
		s.mu.Unlock()
		return e.result(s, false, "session is not ready to fill"), nil
	}
	s.filling = true
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			e.fail(s, fmt.Sprintf("internal error: %v", r))
			res = e.result(s, false, s.Record().ErrorMessage)
			err = nil
		}
	}()

	if ferr := e.fillStage(ctx, s); ferr != nil {
		e.fail(s, ferr.Error())
		return e.result(s, false, ferr.Error()), nil
	}

	res = e.result(s, true, "form filled, awaiting approval")
	res.Filled = res.Session.FilledCount > 0
	res.ReadyToSubmit = res.Session.Status == models.StatusReadyForSubmission
	return res, nil
}

// Approve consumes the approval token and submits immediately. The
// countdown is cancelled before the submit starts, so a late timer fire
// finds the status already moved on and does nothing.
func (e *Engine) Approve(ctx context.Context, token string) (Result, error) {
	s, ok := e.registry.ByToken(token)
	if !ok {
		return Result{}, fmt.Errorf("unknown approval token")
	}

	s.mu.Lock()
	if s.tokenUsed || s.rec.Status != models.StatusReadyForSubmission {
		s.mu.Unlock()
		return e.result(s, false, "session already processed"), nil
	}
	s.tokenUsed = true
	s.stopTimerLocked()
	if err := s.transitionLocked(models.StatusApproved); err != nil {
		s.mu.Unlock()
		return e.result(s, false, err.Error()), nil
	}
	s.mu.Unlock()

	e.logEvent(s, "approved", "manual approval")
	e.persist(s)
	e.submit(ctx, s)
	rec := s.Record()
	return e.result(s, rec.Status == models.StatusSubmitted, "approval processed"), nil
}

// Reject consumes the approval token and discards the session without
// submitting anything.
func (e *Engine) Reject(ctx context.Context, token string) (Result, error) {
	s, ok := e.registry.ByToken(token)
	if !ok {
		return Result{}, fmt.Errorf("unknown approval token")
	}

	s.mu.Lock()
	if s.tokenUsed || s.rec.Status != models.StatusReadyForSubmission {
		s.mu.Unlock()
		return e.result(s, false, "session already processed"), nil
	}
	s.tokenUsed = true
	s.stopTimerLocked()
	if err := s.transitionLocked(models.StatusRejected); err != nil {
		s.mu.Unlock()
		return e.result(s, false, err.Error()), nil
	}
	s.releaseLocked()
	s.mu.Unlock()

	log.Printf("🚫 Session %s rejected by user", s.Record().ID)
	e.logEvent(s, "rejected", "manual rejection")
	e.persist(s)
	e.notifyOutcome(s)
	return e.result(s, true, "application discarded"), nil
}

// Get returns a snapshot of one session.
func (e *Engine) Get(id string) (models.SessionRecord, error) {
	s, ok := e.registry.ByID(id)
	if !ok {
		return models.SessionRecord{}, fmt.Errorf("session not found")
	}
	return s.Record(), nil
}

// Close force-terminates a session and releases its browser handle.
// Closing a terminal session is a no-op.
func (e *Engine) Close(id string) error {
	s, ok := e.registry.ByID(id)
	if !ok {
		return fmt.Errorf("session not found")
	}

	s.mu.Lock()
	if !s.rec.Status.IsTerminal() {
		s.rec.Status = models.StatusRejected
		s.rec.ErrorMessage = "session closed"
	}
	s.releaseLocked()
	s.mu.Unlock()

	e.persist(s)
	return nil
}

// Shutdown closes every live session and flushes pending notifications.
func (e *Engine) Shutdown() {
	for _, rec := range e.registry.List() {
		if err := e.Close(rec.ID); err != nil {
			log.Printf("⚠️ Failed to close session %s: %v", rec.ID, err)
		}
	}
	e.dispatcher.Wait()
}

// fillStage fills the form, captures evidence, confirms a submit control
// exists, then parks the session in ready_for_submission behind the
// approval countdown.
func (e *Engine) fillStage(ctx context.Context, s *Session) error {
	s.mu.Lock()
	profile := s.profile
	jobURL := s.rec.JobURL
	platformTag := s.rec.Platform
	s.mu.Unlock()

	coverLetter := e.generateCoverLetter(ctx, s, profile, jobURL, platformTag)

	mapper := fill.NewMapper(s.page)
	report := mapper.Fill(fill.Input{Profile: profile, CoverLetter: coverLetter})

	s.mu.Lock()
	s.report = report
	s.rec.FilledCount = report.Filled
	s.rec.CoverLetter = coverLetter
	if err := s.transitionLocked(models.StatusFormFilled); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	e.logEvent(s, "form_filled", fmt.Sprintf("%d fields confirmed", report.Filled))
	e.captureEvidence(s, "form_filled")
	e.persist(s)

	if _, _, ok := detect.SubmitControl(s.page); !ok {
		return fmt.Errorf("no submit control found on the form")
	}

	s.mu.Lock()
	if err := s.transitionLocked(models.StatusReadyForSubmission); err != nil {
		s.mu.Unlock()
		return err
	}
	s.rec.ExpiresAt = time.Now().Add(e.cfg.ApprovalWindow)
	s.mu.Unlock()
	e.persist(s)

	e.armTimer(s)
	rec := s.Record()
	e.notifyUser(s, "Application ready for review", notify.ReviewMessage(&rec, report.Skipped))
	return nil
}

// generateCoverLetter is best-effort: a missing client or a generation
// error just means the cover-letter field stays empty.
func (e *Engine) generateCoverLetter(ctx context.Context, s *Session, profile *models.Profile, jobURL, platformTag string) string {
	if e.letters == nil {
		return ""
	}
	genCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	letter, err := e.letters.GenerateCoverLetter(genCtx, profile, jobURL, platformTag)
	if err != nil {
		log.Printf("⚠️ Session %s: cover letter generation failed: %v", s.Record().ID, err)
		return ""
	}
	return letter
}

// submit clicks the submit control and runs the verification cascade.
// An unverified outcome is a failure for status purposes, but the
// attempt is still logged so nothing auto-retries a possibly-submitted
// application.
func (e *Engine) submit(ctx context.Context, s *Session) {
	defer func() {
		if r := recover(); r != nil {
			e.fail(s, fmt.Sprintf("internal error during submit: %v", r))
		}
	}()

	el, name, ok := detect.SubmitControl(s.page)
	if !ok {
		e.fail(s, "submit control disappeared before submission")
		return
	}

	log.Printf("📤 Session %s: clicking submit (%s)", s.Record().ID, name)
	if err := el.Click(); err != nil {
		e.fail(s, fmt.Sprintf("failed to click submit: %v", err))
		return
	}
	e.logEvent(s, "submit_attempt", name)

	browser.Settle(e.cfg.SubmitSettleDelay)

	policy := verify.DefaultPolicy()
	policy.AcceptFormGone = e.cfg.VerifyAcceptFormGone
	outcome := verify.Check(s.page, policy)
	if !outcome.Verified {
		e.fail(s, "submission could not be verified")
		return
	}

	now := time.Now()
	s.mu.Lock()
	if err := s.transitionLocked(models.StatusSubmitted); err != nil {
		s.mu.Unlock()
		return
	}
	s.rec.SubmittedAt = &now
	jobURL := s.rec.JobURL
	s.mu.Unlock()

	log.Printf("✅ Session %s: submission verified (%s)", s.Record().ID, outcome.Method)
	e.captureEvidence(s, "submitted")
	if e.cache != nil {
		e.cache.MarkApplied(jobURL)
	}
	e.logEvent(s, "submitted", outcome.Method)

	s.mu.Lock()
	s.releaseLocked()
	s.mu.Unlock()
	e.persist(s)
	e.notifyOutcome(s)
}

// fail moves the session into the failed terminal state and releases its
// resources. Safe to call from any stage; a second failure is ignored.
func (e *Engine) fail(s *Session, msg string) {
	s.mu.Lock()
	if s.rec.Status.IsTerminal() {
		s.mu.Unlock()
		return
	}
	s.rec.Status = models.StatusFailed
	s.rec.ErrorMessage = msg
	s.releaseLocked()
	s.mu.Unlock()

	log.Printf("❌ Session %s failed: %s", s.Record().ID, msg)
	e.logEvent(s, "failed", msg)
	e.persist(s)
	e.notifyOutcome(s)
}

// expire ends a session whose login never completed.
func (e *Engine) expire(s *Session) {
	s.mu.Lock()
	if s.rec.Status != models.StatusPendingLogin {
		s.mu.Unlock()
		return
	}
	s.rec.Status = models.StatusExpired
	s.releaseLocked()
	s.mu.Unlock()

	log.Printf("⏰ Session %s expired waiting for login", s.Record().ID)
	e.logEvent(s, "expired", "login deadline reached")
	e.persist(s)
	e.notifyOutcome(s)
}

func (e *Engine) result(s *Session, success bool, msg string) Result {
	return Result{Success: success, Message: msg, Session: s.Record()}
}

// notifyUser fans a message out to every channel the profile opted into.
func (e *Engine) notifyUser(s *Session, subject, body string) {
	if e.dispatcher == nil {
		return
	}
	s.mu.Lock()
	channels := s.profile.Channels
	s.mu.Unlock()

	if channels.Email != "" {
		e.dispatcher.Dispatch(models.NotificationRequest{
			Channel:   models.ChannelEmail,
			Recipient: channels.Email,
			Subject:   subject,
			Body:      body,
			HTML:      true,
		})
	}
	if channels.TelegramChatID != 0 {
		e.dispatcher.Dispatch(models.NotificationRequest{
			Channel:   models.ChannelMessaging,
			Recipient: fmt.Sprintf("%d", channels.TelegramChatID),
			Subject:   subject,
			Body:      body,
		})
	}
}

func (e *Engine) notifyOutcome(s *Session) {
	rec := s.Record()
	e.notifyUser(s, "Application update", notify.OutcomeMessage(&rec))
}

func (e *Engine) captureEvidence(s *Session, stage string) {
	if e.evidence == nil {
		return
	}
	rec := s.Record()
	path, err := e.evidence.Capture(s.page, rec.ID, stage)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.rec.Screenshots = append(s.rec.Screenshots, path)
	s.mu.Unlock()
}

// persist writes the audit row; failures are logged only.
func (e *Engine) persist(s *Session) {
	if e.store == nil {
		return
	}
	rec := s.Record()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.store.SaveSession(ctx, &rec); err != nil {
		log.Printf("⚠️ Failed to persist session %s: %v", rec.ID, err)
	}
}

func (e *Engine) logEvent(s *Session, event, detail string) {
	if e.store == nil {
		return
	}
	rec := s.Record()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	entry := &models.ApplicationLog{
		SessionID: rec.ID,
		Event:     event,
		Status:    rec.Status,
		Detail:    detail,
	}
	if err := e.store.InsertApplicationLog(ctx, entry); err != nil {
		log.Printf("⚠️ Failed to log event %s for session %s: %v", event, rec.ID, err)
	}
}
