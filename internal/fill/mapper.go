// Package fill translates canonical profile fields into concrete form
// interactions. Each canonical field carries an ordered strategy list;
// candidates are confirmed visible and enabled, written, then read back,
// and only an exact read-back match counts as filled.

package fill

import (
	"log"
	"strings"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/browser"
	"github.com/thetanishqrawat05/QuickApply-sub000/internal/models"
)

type Mapper struct {
	page browser.Engine
}

func NewMapper(page browser.Engine) *Mapper {
	return &Mapper{page: page}
}

// Fill walks the canonical field table and returns a report of confirmed
// fills. Unmatched fields are skipped, never fatal.
func (m *Mapper) Fill(in Input) models.FillReport {
	var report models.FillReport

	for _, field := range canonicalFields {
		value := field.value(in)
		if value == "" {
			continue
		}

		mapping, matched := m.fillField(field, value, in)
		if !matched {
			report.Skipped = append(report.Skipped, field.name)
			continue
		}
		report.Mappings = append(report.Mappings, mapping)
		if mapping.Confirmed {
			report.Filled++
		}
	}

	log.Printf("📝 Fill complete: %d confirmed, %d skipped", report.Filled, len(report.Skipped))
	return report
}

// fillField tries each candidate selector in order and stops at the first
// confirmed write. A candidate that exists but fails read-back is
// abandoned in favor of the next one.
func (m *Mapper) fillField(field canonicalField, value string, in Input) (models.FieldMapping, bool) {
	for _, selector := range field.strategies {
		el, lookup, err := m.page.Find(selector)
		if lookup == browser.Fault {
			log.Printf("⚠️ Field %s: selector %q faulted: %v", field.name, selector, err)
			continue
		}
		if lookup == browser.NotFound {
			continue
		}
		if !usable(el) {
			continue
		}

		confirmed := false
		switch field.kind {
		case kindSelect:
			confirmed = m.applySelect(el, value)
		case kindCheckbox:
			confirmed = m.applyCheckbox(el, field.checked(in))
		case kindFile:
			confirmed = m.applyFile(el, value)
		default:
			confirmed = m.applyText(el, value)
		}

		if !confirmed {
			// wrote but could not verify; try the next candidate
			continue
		}
		return models.FieldMapping{
			Field:     field.name,
			Selector:  selector,
			Value:     value,
			Confirmed: true,
		}, true
	}
	return models.FieldMapping{}, false
}

func usable(el browser.Element) bool {
	visible, err := el.IsVisible()
	if err != nil || !visible {
		return false
	}
	enabled, err := el.IsEnabled()
	if err != nil || !enabled {
		return false
	}
	return true
}

// applyText clears, writes and verifies with an exact read-back match.
func (m *Mapper) applyText(el browser.Element, value string) bool {
	if err := el.Fill(value); err != nil {
		return false
	}
	readback, err := el.InputValue()
	if err != nil {
		return false
	}
	return readback == value
}

// applySelect runs the fallback chain: option label, option value, then a
// partial-text match among the options.
func (m *Mapper) applySelect(el browser.Element, value string) bool {
	if err := el.SelectByLabel(value); err == nil {
		return true
	}
	if err := el.SelectByValue(value); err == nil {
		return true
	}

	opts, err := el.Options()
	if err != nil {
		return false
	}
	lower := strings.ToLower(value)
	for _, opt := range opts {
		if strings.Contains(strings.ToLower(opt.Label), lower) {
			return el.SelectByValue(opt.Value) == nil
		}
	}
	return false
}

// applyCheckbox toggles only when the current state differs from the
// desired one.
func (m *Mapper) applyCheckbox(el browser.Element, desired bool) bool {
	current, err := el.IsChecked()
	if err != nil {
		return false
	}
	if current == desired {
		return true
	}
	return el.SetChecked(desired) == nil
}

func (m *Mapper) applyFile(el browser.Element, path string) bool {
	return el.SetFiles(path) == nil
}
