package detect

import (
	"strings"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/browser"
)

// loginRequiredProbes, highest-priority first: a password input is the
// strongest signal, then explicit sign-in controls, then a login-form
// container.
var loginRequiredProbes = []Probe{
	{BySelector, `input[type="password"]`, "password input"},
	{BySelector, `button[data-testid*="sign-in"]`, "sign-in button"},
	{ByText, "Sign in", "sign-in text"},
	{ByText, "Log in", "log-in text"},
	{BySelector, `form[action*="login"]`, "login form action"},
	{BySelector, `#login-form`, "login form id"},
	{BySelector, `form.login`, "login form class"},
}

// authenticatedProbes is the role-reversed cascade: profile, account and
// logout affordances that only exist behind authentication.
var authenticatedProbes = []Probe{
	{BySelector, `a[href*="logout"]`, "logout link"},
	{BySelector, `a[href*="sign-out"]`, "sign-out link"},
	{ByText, "Sign out", "sign-out text"},
	{ByText, "Log out", "log-out text"},
	{BySelector, `[data-testid*="profile"]`, "profile testid"},
	{BySelector, `.global-nav__me-photo`, "nav profile photo"},
	{BySelector, `[aria-label*="account" i]`, "account aria-label"},
	{BySelector, `img.avatar`, "avatar image"},
}

// loggedInURLHints mark post-login landing pages.
var loggedInURLHints = []string{"/feed", "/dashboard", "/home", "/account", "/profile", "/my/"}

// submitProbes locate the application submit control, most explicit first.
var submitProbes = []Probe{
	{BySelector, `button[type="submit"]`, "submit button"},
	{BySelector, `input[type="submit"]`, "submit input"},
	{ByText, "Submit application", "submit application text"},
	{ByText, "Submit", "submit text"},
	{ByText, "Apply", "apply text"},
}

// LoginRequired reports whether the current page demands authentication.
// First match wins, short-circuit.
func LoginRequired(page browser.Engine) (bool, string) {
	if probe, ok := AnyVisible(page, loginRequiredProbes); ok {
		return true, probe.Name
	}
	return false, ""
}

// LoggedIn re-evaluates the authenticated cascade: positive indicators,
// then a URL-pattern change, then (weakest) the absence of any login
// indicator.
func LoggedIn(page browser.Engine) (bool, string) {
	if probe, ok := AnyVisible(page, authenticatedProbes); ok {
		return true, probe.Name
	}
	url := strings.ToLower(page.URL())
	for _, hint := range loggedInURLHints {
		if strings.Contains(url, hint) {
			return true, "url pattern " + hint
		}
	}
	if _, ok := AnyVisible(page, loginRequiredProbes); !ok {
		return true, "no login indicators"
	}
	return false, ""
}

// SubmitControl finds the form's submit control.
func SubmitControl(page browser.Engine) (browser.Element, string, bool) {
	el, probe, ok := FirstVisible(page, submitProbes)
	return el, probe.Name, ok
}
