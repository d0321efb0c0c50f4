// Engine abstracts the browser-automation collaborator so the session
// engine and every heuristic can run against a fake page in tests.

package browser

import (
	"context"
	"errors"
)

// ErrBrowserUnavailable means the environment cannot host automation at
// all. Fatal for the attempt; callers fall back to a non-automated path.
var ErrBrowserUnavailable = errors.New("browser automation engine unavailable")

// Lookup is the outcome of an element search. Expected absence
// (NotFound) is a value, not an error; Fault is reserved for genuinely
// unexpected engine failures.
type Lookup int

const (
	Found Lookup = iota
	NotFound
	Fault
)

func (l Lookup) String() string {
	switch l {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	default:
		return "fault"
	}
}

// Option is one entry of a select control.
type Option struct {
	Value string
	Label string
}

// Element is a single interactive form element.
type Element interface {
	Fill(value string) error
	Click() error
	IsVisible() (bool, error)
	IsEnabled() (bool, error)
	// InputValue reads the current value back; the mapper only counts a
	// field as filled when this matches what was written.
	InputValue() (string, error)
	SelectByLabel(label string) error
	SelectByValue(value string) error
	Options() ([]Option, error)
	IsChecked() (bool, error)
	SetChecked(checked bool) error
	SetFiles(path string) error
}

// Engine is one browser page/context, exclusively owned by its session
// from creation to terminal state.
type Engine interface {
	Navigate(ctx context.Context, url string) error
	// Find resolves a CSS selector. err is non-nil only when the lookup
	// itself faulted.
	Find(selector string) (Element, Lookup, error)
	// FindByText resolves the first element whose visible text contains
	// the given fragment.
	FindByText(text string) (Element, Lookup, error)
	Content() (string, error)
	URL() string
	Title() (string, error)
	CaptureScreenshot(path string) error
	Close() error
}

// Factory creates a fresh engine handle for a new session.
type Factory func(ctx context.Context) (Engine, error)
