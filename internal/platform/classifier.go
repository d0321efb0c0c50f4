// Package platform classifies job URLs into a coarse platform tag.
// The tag is informational: downstream heuristics stay generic, but the
// tag shows up in notifications, logs and the audit trail.

package platform

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const Unknown = "Unknown"

var titler = cases.Title(language.English)

// domainTags maps exact hostnames to their platform tag.
var domainTags = map[string]string{
	"linkedin.com":     "LinkedIn",
	"indeed.com":       "Indeed",
	"glassdoor.com":    "Glassdoor",
	"angel.co":         "Wellfound",
	"wellfound.com":    "Wellfound",
	"dice.com":         "Dice",
	"monster.com":      "Monster",
	"ziprecruiter.com": "ZipRecruiter",
}

// atsHint is one ordered substring rule for applicant-tracking systems
// hosted on company subdomains.
type atsHint struct {
	fragment string
	tag      string
}

var atsHints = []atsHint{
	{"greenhouse", "Greenhouse"},
	{"lever.co", "Lever"},
	{"myworkdayjobs", "Workday"},
	{"workday", "Workday"},
	{"bamboohr", "BambooHR"},
	{"ashbyhq", "Ashby"},
	{"smartrecruiters", "SmartRecruiters"},
	{"icims", "iCIMS"},
	{"jobvite", "Jobvite"},
	{"taleo", "Taleo"},
}

// Classify maps a job URL to a platform tag. Pure function; the only
// failure mode is the generic Unknown tag.
func Classify(jobURL string) string {
	parsed, err := url.Parse(jobURL)
	if err != nil {
		return Unknown
	}

	domain := strings.ToLower(parsed.Hostname())
	domain = strings.TrimPrefix(domain, "www.")
	if domain == "" {
		return Unknown
	}

	if tag, ok := domainTags[domain]; ok {
		return tag
	}

	lower := strings.ToLower(jobURL)
	if strings.Contains(parsed.RawQuery, "gh_jid") {
		return "Greenhouse"
	}
	for _, hint := range atsHints {
		if strings.Contains(lower, hint.fragment) {
			return hint.tag
		}
	}

	//generic company career page: tag with the company name
	path := strings.ToLower(parsed.Path)
	if strings.Contains(path, "/careers") || strings.Contains(path, "/jobs") {
		if company := companyFromDomain(domain); company != "" {
			return company + " Careers"
		}
	}

	return Unknown
}

func companyFromDomain(domain string) string {
	parts := strings.Split(domain, ".")
	if len(parts) == 0 || parts[0] == "" {
		return ""
	}
	return titler.String(parts[0])
}
