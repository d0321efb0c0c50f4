// Package login decides whether a page demands authentication and, when
// credentials were supplied, drives the login UI once. Retrying is the
// caller's decision, never this package's.

package login

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/browser"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/detect"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/models"
)

// ErrNoCredentials signals the caller to hand the session to the user
// and fall back to the polling/notification path.
var ErrNoCredentials = errors.New("no credentials supplied for automated login")

var emailProbes = []detect.Probe{
	{Kind: detect.BySelector, Target: `input[type="email"]`, Name: "email input"},
	{Kind: detect.BySelector, Target: `input[name="email"]`, Name: "email name"},
	{Kind: detect.BySelector, Target: `input[name="username"]`, Name: "username name"},
	{Kind: detect.BySelector, Target: `input#username`, Name: "username id"},
	{Kind: detect.BySelector, Target: `input[autocomplete="username"]`, Name: "username autocomplete"},
}

var passwordProbes = []detect.Probe{
	{Kind: detect.BySelector, Target: `input[type="password"]`, Name: "password input"},
	{Kind: detect.BySelector, Target: `input#password`, Name: "password id"},
}

var submitProbes = []detect.Probe{
	{Kind: detect.BySelector, Target: `button[type="submit"]`, Name: "submit button"},
	{Kind: detect.ByText, Target: "Sign in", Name: "sign-in text"},
	{Kind: detect.ByText, Target: "Log in", Name: "log-in text"},
	{Kind: detect.ByText, Target: "Continue", Name: "continue text"},
}

type Coordinator struct {
	page        browser.Engine
	settleDelay time.Duration
}

func NewCoordinator(page browser.Engine, settleDelay time.Duration) *Coordinator {
	return &Coordinator{page: page, settleDelay: settleDelay}
}

// RequiresLogin evaluates the prioritized login-indicator table.
func (c *Coordinator) RequiresLogin() (bool, string) {
	return detect.LoginRequired(c.page)
}

// Attempt drives the login UI once: entry point → click → email →
// password → submit → fixed settle delay → re-check the authenticated
// cascade. No internal retry.
func (c *Coordinator) Attempt(ctx context.Context, creds models.Credentials) (bool, error) {
	if !creds.HasCredentials() {
		return false, ErrNoCredentials
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	// Entry point is best-effort: many pages land directly on the form.
	if el, probe, ok := detect.FirstVisible(c.page, entryProbes(creds.Method)); ok {
		log.Printf("🔑 Clicking login entry point (%s)", probe.Name)
		if err := el.Click(); err != nil {
			log.Printf("⚠️ Entry point click failed: %v", err)
		}
		browser.RandomDelay(400, 900)
	}

	emailEl, _, ok := detect.FirstVisible(c.page, emailProbes)
	if !ok {
		return false, fmt.Errorf("login form has no email/username input")
	}
	if err := emailEl.Fill(creds.Email); err != nil {
		return false, fmt.Errorf("failed to fill email: %w", err)
	}
	browser.RandomDelay(200, 500)

	passEl, _, ok := detect.FirstVisible(c.page, passwordProbes)
	if !ok {
		return false, fmt.Errorf("login form has no password input")
	}
	if err := passEl.Fill(creds.Password); err != nil {
		return false, fmt.Errorf("failed to fill password: %w", err)
	}
	browser.RandomDelay(200, 500)

	submitEl, _, ok := detect.FirstVisible(c.page, submitProbes)
	if !ok {
		return false, fmt.Errorf("login form has no submit control")
	}
	if err := submitEl.Click(); err != nil {
		return false, fmt.Errorf("failed to submit login form: %w", err)
	}

	browser.Settle(c.settleDelay)

	ok, indicator := detect.LoggedIn(c.page)
	if ok {
		log.Printf("✅ Login confirmed (%s)", indicator)
	} else {
		log.Printf("⚠️ Login attempt did not produce authenticated indicators")
	}
	return ok, nil
}

// entryProbes builds the entry-point table for the chosen auth method.
// A named OAuth-style method looks for its provider button first.
func entryProbes(method string) []detect.Probe {
	if method != "" {
		title := strings.ToUpper(method[:1]) + strings.ToLower(method[1:])
		return []detect.Probe{
			{Kind: detect.BySelector, Target: fmt.Sprintf(`button[data-provider="%s"]`, strings.ToLower(method)), Name: "provider button"},
			{Kind: detect.ByText, Target: "Continue with " + title, Name: "continue with provider"},
			{Kind: detect.ByText, Target: "Sign in with " + title, Name: "sign in with provider"},
		}
	}
	return []detect.Probe{
		{Kind: detect.BySelector, Target: `a[href*="login"]`, Name: "login link"},
		{Kind: detect.BySelector, Target: `a[href*="signin"]`, Name: "signin link"},
		{Kind: detect.ByText, Target: "Sign in", Name: "sign-in text"},
		{Kind: detect.ByText, Target: "Log in", Name: "log-in text"},
	}
}
