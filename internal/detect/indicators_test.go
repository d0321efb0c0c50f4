package detect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/browser/browsertest"
)

func TestLoginRequiredPasswordInputWins(t *testing.T) {
	page := browsertest.NewPage().
		AddElement(`input[type="password"]`, browsertest.NewInput()).
		AddElement(`#login-form`, browsertest.NewInput())

	required, indicator := LoginRequired(page)
	assert.True(t, required)
	assert.Equal(t, "password input", indicator)
}

func TestLoginRequiredSkipsHiddenElements(t *testing.T) {
	hidden := browsertest.NewInput()
	hidden.Visible = false
	page := browsertest.NewPage().AddElement(`input[type="password"]`, hidden)

	required, _ := LoginRequired(page)
	assert.False(t, required)
}

func TestLoginRequiredFaultSkipsToNextProbe(t *testing.T) {
	page := browsertest.NewPage().
		AddElement(`#login-form`, browsertest.NewInput())
	page.SetFault(`input[type="password"]`, errors.New("engine hiccup"))

	required, indicator := LoginRequired(page)
	assert.True(t, required)
	assert.Equal(t, "login form id", indicator)
}

func TestLoggedInPositiveIndicator(t *testing.T) {
	page := browsertest.NewPage().
		AddElement(`a[href*="logout"]`, browsertest.NewInput())

	ok, indicator := LoggedIn(page)
	assert.True(t, ok)
	assert.Equal(t, "logout link", indicator)
}

func TestLoggedInURLPattern(t *testing.T) {
	page := browsertest.NewPage().
		AddElement(`input[type="password"]`, browsertest.NewInput())
	page.SetURL("https://example.com/dashboard")

	ok, indicator := LoggedIn(page)
	assert.True(t, ok)
	assert.Contains(t, indicator, "url pattern")
}

func TestLoggedInFallsBackToAbsenceOfLoginIndicators(t *testing.T) {
	page := browsertest.NewPage()
	page.SetURL("https://example.com/jobs/123")

	ok, indicator := LoggedIn(page)
	assert.True(t, ok)
	assert.Equal(t, "no login indicators", indicator)
}

func TestNotLoggedInWhenLoginFormStillPresent(t *testing.T) {
	page := browsertest.NewPage().
		AddElement(`input[type="password"]`, browsertest.NewInput())
	page.SetURL("https://example.com/login")

	ok, _ := LoggedIn(page)
	assert.False(t, ok)
}

func TestSubmitControlOrder(t *testing.T) {
	byText := browsertest.NewInput()
	byType := browsertest.NewInput()
	page := browsertest.NewPage().
		AddElement(`button[type="submit"]`, byType).
		AddText("Submit application", byText)

	el, name, ok := SubmitControl(page)
	assert.True(t, ok)
	assert.Equal(t, "submit button", name)
	assert.Same(t, byType, el.(*browsertest.FakeElement))
}
