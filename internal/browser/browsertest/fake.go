// Package browsertest provides an in-memory browser engine used to unit
// test the detection heuristics and the session lifecycle without a real
// browser process.

package browsertest

import (
	"context"
	"strings"
	"sync"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/browser"
)

// FakeElement is a scriptable form element.
type FakeElement struct {
	mu sync.Mutex

	Value   string
	Visible bool
	Enabled bool
	Checked bool
	Opts    []browser.Option
	Files   []string

	// ReadbackValue, when set, overrides what InputValue returns,
	// simulating a widget that rejects or rewrites the written value.
	ReadbackValue *string

	FillErr  error
	ClickErr error
	OnClick  func()
	Clicks   int
}

// NewInput returns a visible, enabled, empty input element.
func NewInput() *FakeElement {
	return &FakeElement{Visible: true, Enabled: true}
}

func (e *FakeElement) Fill(value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FillErr != nil {
		return e.FillErr
	}
	e.Value = value
	return nil
}

func (e *FakeElement) Click() error {
	e.mu.Lock()
	onClick := e.OnClick
	if e.ClickErr != nil {
		e.mu.Unlock()
		return e.ClickErr
	}
	e.Clicks++
	e.mu.Unlock()
	if onClick != nil {
		onClick()
	}
	return nil
}

func (e *FakeElement) IsVisible() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Visible, nil
}

func (e *FakeElement) IsEnabled() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Enabled, nil
}

func (e *FakeElement) InputValue() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ReadbackValue != nil {
		return *e.ReadbackValue, nil
	}
	return e.Value, nil
}

func (e *FakeElement) SelectByLabel(label string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, o := range e.Opts {
		if o.Label == label {
			e.Value = o.Value
			return nil
		}
	}
	return errNoOption
}

func (e *FakeElement) SelectByValue(value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, o := range e.Opts {
		if o.Value == value {
			e.Value = o.Value
			return nil
		}
	}
	return errNoOption
}

func (e *FakeElement) Options() ([]browser.Option, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]browser.Option(nil), e.Opts...), nil
}

func (e *FakeElement) IsChecked() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Checked, nil
}

func (e *FakeElement) SetChecked(checked bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Checked = checked
	return nil
}

func (e *FakeElement) SetFiles(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Files = append(e.Files, path)
	e.Value = path
	return nil
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

const errNoOption = fakeErr("no matching option")

// FakePage implements browser.Engine against an in-memory element map.
// Safe for concurrent use; poller tests mutate it from the test goroutine
// while the engine reads it from background goroutines.
type FakePage struct {
	mu sync.Mutex

	elements map[string]*FakeElement
	texts    map[string]*FakeElement

	url     string
	title   string
	content string

	faults map[string]error

	NavigateErr error
	Navigations []string
	Screenshots []string
	CloseCount  int
}

func NewPage() *FakePage {
	return &FakePage{
		elements: make(map[string]*FakeElement),
		texts:    make(map[string]*FakeElement),
		faults:   make(map[string]error),
	}
}

// AddElement registers an element under an exact CSS selector.
func (p *FakePage) AddElement(selector string, el *FakeElement) *FakePage {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements[selector] = el
	return p
}

// AddText registers an element findable through FindByText.
func (p *FakePage) AddText(text string, el *FakeElement) *FakePage {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.texts[text] = el
	return p
}

func (p *FakePage) RemoveElement(selector string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.elements, selector)
}

// SetFault makes lookups for a selector return browser.Fault.
func (p *FakePage) SetFault(selector string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.faults[selector] = err
}

func (p *FakePage) SetURL(url string)         { p.mu.Lock(); p.url = url; p.mu.Unlock() }
func (p *FakePage) SetTitle(title string)     { p.mu.Lock(); p.title = title; p.mu.Unlock() }
func (p *FakePage) SetContent(content string) { p.mu.Lock(); p.content = content; p.mu.Unlock() }

func (p *FakePage) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.NavigateErr != nil {
		return p.NavigateErr
	}
	p.Navigations = append(p.Navigations, url)
	p.url = url
	return nil
}

func (p *FakePage) Find(selector string) (browser.Element, browser.Lookup, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.faults[selector]; ok {
		return nil, browser.Fault, err
	}
	if el, ok := p.elements[selector]; ok {
		return el, browser.Found, nil
	}
	return nil, browser.NotFound, nil
}

func (p *FakePage) FindByText(text string) (browser.Element, browser.Lookup, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for registered, el := range p.texts {
		if strings.Contains(registered, text) || strings.Contains(text, registered) {
			return el, browser.Found, nil
		}
	}
	return nil, browser.NotFound, nil
}

func (p *FakePage) Content() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.content, nil
}

func (p *FakePage) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *FakePage) Title() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title, nil
}

func (p *FakePage) CaptureScreenshot(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Screenshots = append(p.Screenshots, path)
	return nil
}

func (p *FakePage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CloseCount++
	return nil
}

// Closes reports how many times Close was invoked, for idempotency checks.
func (p *FakePage) Closes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.CloseCount
}

// Factory returns a browser.Factory that always hands out this page.
func (p *FakePage) Factory() browser.Factory {
	return func(ctx context.Context) (browser.Engine, error) {
		return p, nil
	}
}
