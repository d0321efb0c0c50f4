// Package detect holds the declarative matcher tables used for login,
// authentication and submission heuristics. A canonical concept maps to
// an ordered list of probes, evaluated through one generic
// first-confirmed-match algorithm so every table is unit-testable
// against a fake engine.

package detect

import (
	"log"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/browser"
)

// Kind selects how a probe resolves its target.
type Kind int

const (
	// BySelector resolves Target as a CSS selector.
	BySelector Kind = iota
	// ByText resolves Target as a visible text fragment.
	ByText
)

// Probe is one matcher descriptor in a strategy table. Tables are ordered
// by decreasing specificity; the first confirmed probe wins.
type Probe struct {
	Kind   Kind
	Target string
	// Name labels the probe in reports and logs.
	Name string
}

// FirstVisible evaluates probes in order and returns the first one that
// resolves to a visible element. Lookup faults are logged and skipped;
// an indicator cascade must never abort a stage.
func FirstVisible(page browser.Engine, probes []Probe) (browser.Element, Probe, bool) {
	for _, probe := range probes {
		var (
			el     browser.Element
			lookup browser.Lookup
			err    error
		)
		switch probe.Kind {
		case ByText:
			el, lookup, err = page.FindByText(probe.Target)
		default:
			el, lookup, err = page.Find(probe.Target)
		}
		if lookup == browser.Fault {
			log.Printf("⚠️ Probe %q faulted: %v", probe.Name, err)
			continue
		}
		if lookup == browser.NotFound {
			continue
		}
		visible, err := el.IsVisible()
		if err != nil || !visible {
			continue
		}
		return el, probe, true
	}
	return nil, Probe{}, false
}

// AnyVisible reports whether at least one probe matches.
func AnyVisible(page browser.Engine, probes []Probe) (Probe, bool) {
	_, probe, ok := FirstVisible(page, probes)
	return probe, ok
}
