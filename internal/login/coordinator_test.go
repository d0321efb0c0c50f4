package login

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/browser/browsertest"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/models"
)

func loginPage() (*browsertest.FakePage, *browsertest.FakeElement, *browsertest.FakeElement, *browsertest.FakeElement) {
	email := browsertest.NewInput()
	password := browsertest.NewInput()
	submit := browsertest.NewInput()
	page := browsertest.NewPage().
		AddElement(`input[type="email"]`, email).
		AddElement(`input[type="password"]`, password).
		AddElement(`button[type="submit"]`, submit)
	page.SetURL("https://example.com/login")
	return page, email, password, submit
}

func TestRequiresLogin(t *testing.T) {
	page, _, _, _ := loginPage()
	c := NewCoordinator(page, 0)

	required, indicator := c.RequiresLogin()
	assert.True(t, required)
	assert.Equal(t, "password input", indicator)
}

func TestAttemptWithoutCredentials(t *testing.T) {
	page, _, _, _ := loginPage()
	c := NewCoordinator(page, 0)

	ok, err := c.Attempt(context.Background(), models.Credentials{})
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestAttemptFillsAndSubmits(t *testing.T) {
	page, email, password, submit := loginPage()
	// submitting reveals the authenticated page
	submit.OnClick = func() {
		page.RemoveElement(`input[type="password"]`)
		page.AddElement(`a[href*="logout"]`, browsertest.NewInput())
		page.SetURL("https://example.com/feed")
	}
	c := NewCoordinator(page, 0)

	ok, err := c.Attempt(context.Background(), models.Credentials{
		Email:    "ada@example.com",
		Password: "hunter2",
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ada@example.com", email.Value)
	assert.Equal(t, "hunter2", password.Value)
	assert.Equal(t, 1, submit.Clicks)
}

func TestAttemptReportsFailureWhenStillOnLoginPage(t *testing.T) {
	page, _, _, _ := loginPage()
	c := NewCoordinator(page, 0)

	ok, err := c.Attempt(context.Background(), models.Credentials{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAttemptErrorsWhenFormMissing(t *testing.T) {
	page := browsertest.NewPage()
	page.SetURL("https://example.com/jobs/1")
	c := NewCoordinator(page, 0)

	ok, err := c.Attempt(context.Background(), models.Credentials{
		Email:    "ada@example.com",
		Password: "hunter2",
	})
	assert.False(t, ok)
	assert.Error(t, err)
}
