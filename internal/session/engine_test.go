package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/browser/browsertest"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/config"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/dedup"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/models"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/notify"
)

const testJobURL = "https://boards.greenhouse.io/acme/jobs/123"

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.ApprovalWindow = time.Hour
	cfg.PollInterval = 10 * time.Millisecond
	cfg.MaxLoginAttempts = 20
	cfg.LoginSettleDelay = time.Millisecond
	cfg.SubmitSettleDelay = time.Millisecond
	cfg.ScreenshotDir = t.TempDir()
	return cfg
}

func testProfile() *models.Profile {
	return &models.Profile{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		Phone:          "+1 555 0100",
		WorkAuthorized: true,
	}
}

// applicationPage builds a page with a fillable form and a submit button.
// Clicking submit swaps the page to a confirmation.
func applicationPage() (*browsertest.FakePage, *browsertest.FakeElement) {
	page := browsertest.NewPage()
	page.SetURL(testJobURL)
	page.AddElement(`input[type="email"]`, browsertest.NewInput())
	page.AddElement(`input[name="first_name"]`, browsertest.NewInput())
	page.AddElement(`input[name="last_name"]`, browsertest.NewInput())
	page.AddElement(`input[type="tel"]`, browsertest.NewInput())
	page.AddElement("form", browsertest.NewInput())

	submitBtn := browsertest.NewInput()
	submitBtn.OnClick = func() {
		page.SetContent("Thank you for applying! We'll be in touch.")
	}
	page.AddElement(`button[type="submit"]`, submitBtn)
	return page, submitBtn
}

func newTestEngine(t *testing.T, page *browsertest.FakePage) *Engine {
	return NewEngine(testConfig(t), page.Factory(), notify.NewDispatcher(nil, nil))
}

// startReady starts a session on a page without a login wall and asserts
// it lands in ready_to_fill.
func startReady(t *testing.T, eng *Engine) Result {
	t.Helper()
	res, err := eng.Start(context.Background(), testJobURL, testProfile(), models.Credentials{})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, models.StatusReadyToFill, res.Session.Status)
	return res
}

// startAndFill walks a session to ready_for_submission.
func startAndFill(t *testing.T, eng *Engine) Result {
	t.Helper()
	res := startReady(t, eng)
	fres, err := eng.FillForm(context.Background(), res.Session.ID)
	require.NoError(t, err)
	require.True(t, fres.Success)
	require.Equal(t, models.StatusReadyForSubmission, fres.Session.Status)
	return fres
}

func TestStartWithoutLoginIsReadyToFill(t *testing.T) {
	page, _ := applicationPage()
	eng := newTestEngine(t, page)

	res := startReady(t, eng)
	assert.False(t, res.Session.RequiresLogin)
	assert.True(t, res.Session.IsLoggedIn)
	assert.Equal(t, "Greenhouse", res.Session.Platform)
	assert.NotEmpty(t, res.Session.ApprovalToken)
	assert.Equal(t, []string{testJobURL}, page.Navigations)
	// Nothing is filled until FillForm runs.
	assert.Zero(t, res.Session.FilledCount)
}

func TestFillFormFillsAndWaitsForApproval(t *testing.T) {
	page, _ := applicationPage()
	eng := newTestEngine(t, page)
	res := startReady(t, eng)

	fres, err := eng.FillForm(context.Background(), res.Session.ID)
	require.NoError(t, err)
	assert.True(t, fres.Success)
	assert.True(t, fres.Filled)
	assert.True(t, fres.ReadyToSubmit)
	assert.GreaterOrEqual(t, fres.Session.FilledCount, 3)
	assert.Equal(t, models.StatusReadyForSubmission, fres.Session.Status)
	assert.NotEmpty(t, page.Screenshots)
}

func TestFillFormRequiresReadyToFill(t *testing.T) {
	page, _ := loginWalledPage()
	eng := newTestEngine(t, page)

	res, err := eng.Start(context.Background(), testJobURL, testProfile(), models.Credentials{})
	require.NoError(t, err)
	require.Equal(t, models.StatusPendingLogin, res.Session.Status)

	fres, err := eng.FillForm(context.Background(), res.Session.ID)
	require.NoError(t, err)
	assert.False(t, fres.Success)
	assert.Contains(t, fres.Message, "not ready to fill")
}

func TestFillFormIsSingleShot(t *testing.T) {
	page, _ := applicationPage()
	eng := newTestEngine(t, page)
	fres := startAndFill(t, eng)

	again, err := eng.FillForm(context.Background(), fres.Session.ID)
	require.NoError(t, err)
	assert.False(t, again.Success)
	assert.Contains(t, again.Message, "not ready to fill")
}

// A stage failure inside FillForm must come back as Success=false with
// the session marked failed, not as a cheerful result.
func TestFillFormReportsStageFailure(t *testing.T) {
	page, _ := applicationPage()
	page.RemoveElement(`button[type="submit"]`)
	eng := newTestEngine(t, page)
	res := startReady(t, eng)

	fres, err := eng.FillForm(context.Background(), res.Session.ID)
	require.NoError(t, err)
	assert.False(t, fres.Success)
	assert.False(t, fres.ReadyToSubmit)
	assert.Equal(t, models.StatusFailed, fres.Session.Status)
	assert.Contains(t, fres.Session.ErrorMessage, "no submit control")
	assert.Equal(t, 1, page.Closes())
}

func TestApproveSubmitsAndConsumesToken(t *testing.T) {
	page, submitBtn := applicationPage()
	eng := newTestEngine(t, page)
	fres := startAndFill(t, eng)
	token := fres.Session.ApprovalToken

	ares, err := eng.Approve(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, ares.Success)
	assert.Equal(t, models.StatusSubmitted, ares.Session.Status)
	require.NotNil(t, ares.Session.SubmittedAt)
	assert.Equal(t, 1, submitBtn.Clicks)
	assert.Equal(t, 1, page.Closes())

	// The token is spent; a second approve is refused, not re-submitted.
	again, err := eng.Approve(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, again.Success)
	assert.Contains(t, again.Message, "already processed")
	assert.Equal(t, 1, submitBtn.Clicks)
}

func TestUnknownTokenIsAnError(t *testing.T) {
	page, _ := applicationPage()
	eng := newTestEngine(t, page)

	_, err := eng.Approve(context.Background(), "no-such-token")
	assert.Error(t, err)
}

func TestRejectDiscardsWithoutSubmitting(t *testing.T) {
	page, submitBtn := applicationPage()
	eng := newTestEngine(t, page)
	fres := startAndFill(t, eng)

	rres, err := eng.Reject(context.Background(), fres.Session.ApprovalToken)
	require.NoError(t, err)
	assert.True(t, rres.Success)
	assert.Equal(t, models.StatusRejected, rres.Session.Status)
	assert.Equal(t, 0, submitBtn.Clicks)
	assert.Equal(t, 1, page.Closes())

	// Approve after reject finds the token spent.
	ares, err := eng.Approve(context.Background(), fres.Session.ApprovalToken)
	require.NoError(t, err)
	assert.False(t, ares.Success)
}

func TestApprovalWindowAutoSubmits(t *testing.T) {
	page, submitBtn := applicationPage()
	cfg := testConfig(t)
	cfg.ApprovalWindow = 30 * time.Millisecond
	eng := NewEngine(cfg, page.Factory(), notify.NewDispatcher(nil, nil))
	fres := startAndFill(t, eng)

	require.Eventually(t, func() bool {
		rec, err := eng.Get(fres.Session.ID)
		return err == nil && rec.Status == models.StatusSubmitted
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, submitBtn.Clicks)
}

func TestApproveCancelsCountdown(t *testing.T) {
	page, submitBtn := applicationPage()
	cfg := testConfig(t)
	cfg.ApprovalWindow = 30 * time.Millisecond
	eng := NewEngine(cfg, page.Factory(), notify.NewDispatcher(nil, nil))
	fres := startAndFill(t, eng)

	ares, err := eng.Approve(context.Background(), fres.Session.ApprovalToken)
	require.NoError(t, err)
	require.True(t, ares.Success)

	// Let the countdown elapse; a late fire must not submit again.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, submitBtn.Clicks)
	rec, err := eng.Get(fres.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, rec.Status)
}

func TestUnverifiedSubmissionFails(t *testing.T) {
	page, submitBtn := applicationPage()
	// The page never shows a confirmation and the form stays put.
	submitBtn.OnClick = nil

	eng := newTestEngine(t, page)
	fres := startAndFill(t, eng)

	ares, err := eng.Approve(context.Background(), fres.Session.ApprovalToken)
	require.NoError(t, err)
	assert.False(t, ares.Success)
	assert.Equal(t, models.StatusFailed, ares.Session.Status)
	assert.Contains(t, ares.Session.ErrorMessage, "could not be verified")
	assert.Equal(t, 1, submitBtn.Clicks)
	assert.Equal(t, 1, page.Closes())
}

func TestFormGoneCountsAsVerifiedWhenEnabled(t *testing.T) {
	page, submitBtn := applicationPage()
	submitBtn.OnClick = func() {
		page.RemoveElement("form")
	}

	eng := newTestEngine(t, page)
	fres := startAndFill(t, eng)

	ares, err := eng.Approve(context.Background(), fres.Session.ApprovalToken)
	require.NoError(t, err)
	assert.True(t, ares.Success)
	assert.Equal(t, models.StatusSubmitted, ares.Session.Status)
}

func loginWalledPage() (*browsertest.FakePage, *browsertest.FakeElement) {
	page, submitBtn := applicationPage()
	page.AddElement(`input[type="password"]`, browsertest.NewInput())
	return page, submitBtn
}

func completeLogin(page *browsertest.FakePage) {
	page.RemoveElement(`input[type="password"]`)
	page.AddElement(`a[href*="logout"]`, browsertest.NewInput())
}

func TestStartParksSessionBehindLogin(t *testing.T) {
	page, _ := loginWalledPage()
	eng := newTestEngine(t, page)

	res, err := eng.Start(context.Background(), testJobURL, testProfile(), models.Credentials{})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, models.StatusPendingLogin, res.Session.Status)
	assert.True(t, res.Session.RequiresLogin)
	assert.False(t, res.Session.IsLoggedIn)
}

func TestPollerAdvancesToReadyToFill(t *testing.T) {
	page, _ := loginWalledPage()
	eng := newTestEngine(t, page)

	res, err := eng.Start(context.Background(), testJobURL, testProfile(), models.Credentials{})
	require.NoError(t, err)
	require.Equal(t, models.StatusPendingLogin, res.Session.Status)

	completeLogin(page)

	require.Eventually(t, func() bool {
		rec, err := eng.Get(res.Session.ID)
		return err == nil && rec.Status == models.StatusReadyToFill
	}, time.Second, 5*time.Millisecond)

	rec, err := eng.Get(res.Session.ID)
	require.NoError(t, err)
	assert.True(t, rec.IsLoggedIn)

	fres, err := eng.FillForm(context.Background(), res.Session.ID)
	require.NoError(t, err)
	assert.True(t, fres.Success)
	assert.Equal(t, models.StatusReadyForSubmission, fres.Session.Status)
	assert.Equal(t, 4, fres.Session.FilledCount)
}

func TestPollerExpiresSessionWhenLoginNeverHappens(t *testing.T) {
	page, _ := loginWalledPage()
	cfg := testConfig(t)
	cfg.MaxLoginAttempts = 3
	eng := NewEngine(cfg, page.Factory(), notify.NewDispatcher(nil, nil))

	res, err := eng.Start(context.Background(), testJobURL, testProfile(), models.Credentials{})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		rec, err := eng.Get(res.Session.ID)
		return err == nil && rec.Status == models.StatusExpired
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, page.Closes())
}

func TestCheckLoginAdvancesOnDemand(t *testing.T) {
	page, _ := loginWalledPage()
	cfg := testConfig(t)
	cfg.PollInterval = time.Hour // only the manual check can advance
	eng := NewEngine(cfg, page.Factory(), notify.NewDispatcher(nil, nil))

	res, err := eng.Start(context.Background(), testJobURL, testProfile(), models.Credentials{})
	require.NoError(t, err)

	waiting, err := eng.CheckLogin(context.Background(), res.Session.ID)
	require.NoError(t, err)
	assert.False(t, waiting.Success)

	completeLogin(page)

	done, err := eng.CheckLogin(context.Background(), res.Session.ID)
	require.NoError(t, err)
	assert.True(t, done.Success)
	assert.Equal(t, models.StatusReadyToFill, done.Session.Status)
	assert.Contains(t, done.Message, "ready to fill")
}

// CheckLogin only confirms authentication; a broken form must surface
// through FillForm's result, never through a check-login success.
func TestCheckLoginDoesNotMaskFillFailure(t *testing.T) {
	page, _ := loginWalledPage()
	page.RemoveElement(`button[type="submit"]`)
	cfg := testConfig(t)
	cfg.PollInterval = time.Hour
	eng := NewEngine(cfg, page.Factory(), notify.NewDispatcher(nil, nil))

	res, err := eng.Start(context.Background(), testJobURL, testProfile(), models.Credentials{})
	require.NoError(t, err)

	completeLogin(page)
	done, err := eng.CheckLogin(context.Background(), res.Session.ID)
	require.NoError(t, err)
	assert.True(t, done.Success)
	assert.Equal(t, models.StatusReadyToFill, done.Session.Status)

	fres, err := eng.FillForm(context.Background(), res.Session.ID)
	require.NoError(t, err)
	assert.False(t, fres.Success)
	assert.Equal(t, models.StatusFailed, fres.Session.Status)
	assert.Contains(t, fres.Session.ErrorMessage, "no submit control")
}

func TestAutomatedLoginWithCredentials(t *testing.T) {
	page, submitBtn := applicationPage()
	password := browsertest.NewInput()
	page.AddElement(`input[type="password"]`, password)
	submitBtn.OnClick = func() {
		if password.Value != "" {
			completeLogin(page)
		}
	}

	eng := newTestEngine(t, page)
	creds := models.Credentials{Email: "ada@example.com", Password: "hunter2"}
	res, err := eng.Start(context.Background(), testJobURL, testProfile(), creds)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, models.StatusReadyToFill, res.Session.Status)
	assert.True(t, res.Session.RequiresLogin)
	assert.True(t, res.Session.IsLoggedIn)
}

func TestDuplicateApplicationRefused(t *testing.T) {
	page, _ := applicationPage()
	cache := dedup.NewAppliedCache(t.TempDir())
	cache.MarkApplied(testJobURL)

	eng := newTestEngine(t, page).WithCache(cache)
	res, err := eng.Start(context.Background(), testJobURL, testProfile(), models.Credentials{})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "already submitted")
	assert.Empty(t, page.Navigations)
}

func TestSubmitRecordsAppliedJob(t *testing.T) {
	page, _ := applicationPage()
	cache := dedup.NewAppliedCache(t.TempDir())

	eng := newTestEngine(t, page).WithCache(cache)
	fres := startAndFill(t, eng)

	_, err := eng.Approve(context.Background(), fres.Session.ApprovalToken)
	require.NoError(t, err)
	assert.True(t, cache.AlreadyApplied(testJobURL))
}

func TestCloseIsIdempotent(t *testing.T) {
	page, _ := loginWalledPage()
	eng := newTestEngine(t, page)

	res, err := eng.Start(context.Background(), testJobURL, testProfile(), models.Credentials{})
	require.NoError(t, err)

	require.NoError(t, eng.Close(res.Session.ID))
	require.NoError(t, eng.Close(res.Session.ID))
	assert.Equal(t, 1, page.Closes())

	rec, err := eng.Get(res.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rec.Status)
}

func TestRegistryTokenIndex(t *testing.T) {
	r := NewRegistry()
	s := &Session{rec: models.SessionRecord{ID: "s1", ApprovalToken: "tok1"}}
	r.Add(s)

	got, ok := r.ByToken("tok1")
	require.True(t, ok)
	assert.Equal(t, "s1", got.Record().ID)

	r.Remove("s1")
	_, ok = r.ByToken("tok1")
	assert.False(t, ok)
	assert.Empty(t, r.List())
}

func TestStatusTransitionsAreForwardOnly(t *testing.T) {
	assert.True(t, models.StatusPendingLogin.CanTransition(models.StatusReadyToFill))
	assert.True(t, models.StatusReadyToFill.CanTransition(models.StatusFailed))
	assert.False(t, models.StatusFormFilled.CanTransition(models.StatusReadyToFill))
	assert.False(t, models.StatusSubmitted.CanTransition(models.StatusApproved))
	assert.False(t, models.StatusRejected.CanTransition(models.StatusReadyForSubmission))
}
