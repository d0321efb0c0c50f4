// Package verify judges whether a submit action succeeded. The checks
// are heuristic and ordered; when none of them match the outcome is
// reported as unverified, which callers must treat as a failure for
// status purposes while still recording that a submit attempt happened.

package verify

import (
	"log"
	"strings"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/browser"
)

var successContentFragments = []string{
	"thank you for applying",
	"thanks for applying",
	"application submitted",
	"application received",
	"successfully submitted",
	"we have received your application",
	"your application has been sent",
}

var successURLFragments = []string{
	"confirmation",
	"thank-you",
	"thankyou",
	"submitted",
	"success",
}

var successTitleFragments = []string{
	"thank you",
	"confirmation",
	"application submitted",
	"success",
}

// Policy makes the verifier's confidence explicit instead of implicit.
type Policy struct {
	// AcceptFormGone enables the weak fallback that treats the original
	// form disappearing as success.
	AcceptFormGone bool
	// FormSelector is the form the submit acted on.
	FormSelector string
}

func DefaultPolicy() Policy {
	return Policy{AcceptFormGone: true, FormSelector: "form"}
}

// Result reports the outcome and which check confirmed it.
type Result struct {
	Verified bool
	Method   string
}

// Check runs the ordered cascade, short-circuiting on the first match.
func Check(page browser.Engine, policy Policy) Result {
	if content, err := page.Content(); err == nil {
		lower := strings.ToLower(content)
		for _, fragment := range successContentFragments {
			if strings.Contains(lower, fragment) {
				return Result{Verified: true, Method: "content: " + fragment}
			}
		}
	} else {
		log.Printf("⚠️ Could not read page content for verification: %v", err)
	}

	url := strings.ToLower(page.URL())
	for _, fragment := range successURLFragments {
		if strings.Contains(url, fragment) {
			return Result{Verified: true, Method: "url: " + fragment}
		}
	}

	if title, err := page.Title(); err == nil {
		lower := strings.ToLower(title)
		for _, fragment := range successTitleFragments {
			if strings.Contains(lower, fragment) {
				return Result{Verified: true, Method: "title: " + fragment}
			}
		}
	}

	if policy.AcceptFormGone && policy.FormSelector != "" {
		_, lookup, _ := page.Find(policy.FormSelector)
		if lookup == browser.NotFound {
			return Result{Verified: true, Method: "form gone"}
		}
	}

	return Result{Verified: false, Method: "unverified"}
}
