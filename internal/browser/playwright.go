package browser

import (
	"context"
	"fmt"
	"log"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightManager owns one Chromium process and hands out isolated
// pages, one per session.
type PlaywrightManager struct {
	pw       *playwright.Playwright
	browser  playwright.Browser
	headless bool
}

func NewPlaywright(ctx context.Context, headless bool) (*PlaywrightManager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserUnavailable, err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("%w: could not launch chromium: %v", ErrBrowserUnavailable, err)
	}

	return &PlaywrightManager{pw: pw, browser: browser, headless: headless}, nil
}

// NewEngine returns a Factory-compatible constructor bound to this manager.
func (pm *PlaywrightManager) NewEngine(ctx context.Context) (Engine, error) {
	browserCtx, err := pm.browser.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	page, err := browserCtx.NewPage()
	if err != nil {
		_ = browserCtx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return &pwEngine{ctx: browserCtx, page: page}, nil
}

func (pm *PlaywrightManager) Close() error {
	if pm.browser != nil {
		if err := pm.browser.Close(); err != nil {
			log.Printf("⚠️ Failed to close browser: %v", err)
		}
	}
	if pm.pw != nil {
		return pm.pw.Stop()
	}
	return nil
}

type pwEngine struct {
	ctx  playwright.BrowserContext
	page playwright.Page
}

func (e *pwEngine) Navigate(ctx context.Context, url string) error {
	_, err := e.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	})
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}
	return nil
}

func (e *pwEngine) Find(selector string) (Element, Lookup, error) {
	loc := e.page.Locator(selector).First()
	count, err := loc.Count()
	if err != nil {
		return nil, Fault, fmt.Errorf("locator %q faulted: %w", selector, err)
	}
	if count == 0 {
		return nil, NotFound, nil
	}
	return &pwElement{loc: loc}, Found, nil
}

func (e *pwEngine) FindByText(text string) (Element, Lookup, error) {
	loc := e.page.GetByText(text).First()
	count, err := loc.Count()
	if err != nil {
		return nil, Fault, fmt.Errorf("text locator %q faulted: %w", text, err)
	}
	if count == 0 {
		return nil, NotFound, nil
	}
	return &pwElement{loc: loc}, Found, nil
}

func (e *pwEngine) Content() (string, error) {
	return e.page.Content()
}

func (e *pwEngine) URL() string {
	return e.page.URL()
}

func (e *pwEngine) Title() (string, error) {
	return e.page.Title()
}

func (e *pwEngine) CaptureScreenshot(path string) error {
	_, err := e.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (e *pwEngine) Close() error {
	if err := e.page.Close(); err != nil {
		return err
	}
	return e.ctx.Close()
}

type pwElement struct {
	loc playwright.Locator
}

func (el *pwElement) Fill(value string) error {
	return el.loc.Fill(value)
}

func (el *pwElement) Click() error {
	return el.loc.Click()
}

func (el *pwElement) IsVisible() (bool, error) {
	return el.loc.IsVisible()
}

func (el *pwElement) IsEnabled() (bool, error) {
	return el.loc.IsEnabled()
}

func (el *pwElement) InputValue() (string, error) {
	return el.loc.InputValue()
}

func (el *pwElement) SelectByLabel(label string) error {
	selected, err := el.loc.SelectOption(playwright.SelectOptionValues{
		Labels: &[]string{label},
	})
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return fmt.Errorf("no option with label %q", label)
	}
	return nil
}

func (el *pwElement) SelectByValue(value string) error {
	selected, err := el.loc.SelectOption(playwright.SelectOptionValues{
		Values: &[]string{value},
	})
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return fmt.Errorf("no option with value %q", value)
	}
	return nil
}

func (el *pwElement) Options() ([]Option, error) {
	optLocs, err := el.loc.Locator("option").All()
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(optLocs))
	for _, o := range optLocs {
		value, _ := o.GetAttribute("value")
		label, _ := o.InnerText()
		opts = append(opts, Option{Value: value, Label: label})
	}
	return opts, nil
}

func (el *pwElement) IsChecked() (bool, error) {
	return el.loc.IsChecked()
}

func (el *pwElement) SetChecked(checked bool) error {
	return el.loc.SetChecked(checked)
}

func (el *pwElement) SetFiles(path string) error {
	return el.loc.SetInputFiles([]string{path})
}
