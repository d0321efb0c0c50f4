package fill

import (
	"strings"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/models"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindSelect
	kindCheckbox
	kindFile
)

// canonicalField binds one normalized applicant-data concept to an
// ordered list of selector strategies (decreasing specificity) and a
// value resolver. An empty resolved value means the field is skipped.
type canonicalField struct {
	name       string
	kind       fieldKind
	strategies []string
	value      func(in Input) string
	// checked resolves the desired state for checkbox fields.
	checked func(in Input) bool
}

// Input is everything a fill operation may draw values from.
type Input struct {
	Profile     *models.Profile
	CoverLetter string
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// canonicalFields is evaluated in order; name/id selectors first,
// placeholder and label-text strategies as fallbacks.
var canonicalFields = []canonicalField{
	{
		name: "first_name",
		kind: kindText,
		strategies: []string{
			`input[name="first_name"]`,
			`input[name="firstName"]`,
			`input[id*="first_name" i]`,
			`input[id*="firstname" i]`,
			`input[autocomplete="given-name"]`,
			`input[placeholder*="first name" i]`,
			`input[aria-label*="first name" i]`,
		},
		value: func(in Input) string { return in.Profile.FirstName },
	},
	{
		name: "last_name",
		kind: kindText,
		strategies: []string{
			`input[name="last_name"]`,
			`input[name="lastName"]`,
			`input[id*="last_name" i]`,
			`input[id*="lastname" i]`,
			`input[autocomplete="family-name"]`,
			`input[placeholder*="last name" i]`,
			`input[aria-label*="last name" i]`,
		},
		value: func(in Input) string { return in.Profile.LastName },
	},
	{
		name: "full_name",
		kind: kindText,
		strategies: []string{
			`input[name="name"]`,
			`input[name="full_name"]`,
			`input[name="fullName"]`,
			`input[autocomplete="name"]`,
			`input[placeholder*="full name" i]`,
		},
		value: func(in Input) string {
			full := strings.TrimSpace(in.Profile.FirstName + " " + in.Profile.LastName)
			return full
		},
	},
	{
		name: "email",
		kind: kindText,
		strategies: []string{
			`input[type="email"]`,
			`input[name="email"]`,
			`input[id*="email" i]`,
			`input[placeholder*="email" i]`,
			`input[aria-label*="email" i]`,
		},
		value: func(in Input) string { return in.Profile.Email },
	},
	{
		name: "phone",
		kind: kindText,
		strategies: []string{
			`input[type="tel"]`,
			`input[name="phone"]`,
			`input[name="phone_number"]`,
			`input[id*="phone" i]`,
			`input[placeholder*="phone" i]`,
			`input[aria-label*="phone" i]`,
		},
		value: func(in Input) string { return in.Profile.Phone },
	},
	{
		name: "address",
		kind: kindText,
		strategies: []string{
			`input[name="address"]`,
			`input[name="street_address"]`,
			`input[autocomplete="street-address"]`,
			`input[placeholder*="address" i]`,
		},
		value: func(in Input) string { return in.Profile.Address.Street },
	},
	{
		name: "city",
		kind: kindText,
		strategies: []string{
			`input[name="city"]`,
			`input[id*="city" i]`,
			`input[placeholder*="city" i]`,
		},
		value: func(in Input) string { return in.Profile.Address.City },
	},
	{
		name: "state",
		kind: kindText,
		strategies: []string{
			`input[name="state"]`,
			`input[id*="state" i]`,
			`input[placeholder*="state" i]`,
		},
		value: func(in Input) string { return in.Profile.Address.State },
	},
	{
		name: "zip",
		kind: kindText,
		strategies: []string{
			`input[name="zip"]`,
			`input[name="postal_code"]`,
			`input[autocomplete="postal-code"]`,
			`input[placeholder*="zip" i]`,
			`input[placeholder*="postal" i]`,
		},
		value: func(in Input) string { return in.Profile.Address.Zip },
	},
	{
		name: "country",
		kind: kindSelect,
		strategies: []string{
			`select[name="country"]`,
			`select[id*="country" i]`,
			`select[aria-label*="country" i]`,
		},
		value: func(in Input) string { return in.Profile.Address.Country },
	},
	{
		name: "linkedin",
		kind: kindText,
		strategies: []string{
			`input[name="linkedin"]`,
			`input[id*="linkedin" i]`,
			`input[placeholder*="linkedin" i]`,
		},
		value: func(in Input) string { return in.Profile.LinkedIn },
	},
	{
		name: "portfolio",
		kind: kindText,
		strategies: []string{
			`input[name="website"]`,
			`input[name="portfolio"]`,
			`input[id*="portfolio" i]`,
			`input[placeholder*="website" i]`,
		},
		value: func(in Input) string { return in.Profile.Portfolio },
	},
	{
		name: "work_authorization",
		kind: kindSelect,
		strategies: []string{
			`select[name*="work_auth" i]`,
			`select[id*="work_auth" i]`,
			`select[name*="authorized" i]`,
			`select[aria-label*="authorized to work" i]`,
		},
		value: func(in Input) string { return yesNo(in.Profile.WorkAuthorized) },
	},
	{
		name: "sponsorship",
		kind: kindSelect,
		strategies: []string{
			`select[name*="sponsor" i]`,
			`select[id*="sponsor" i]`,
			`select[aria-label*="sponsorship" i]`,
		},
		value: func(in Input) string { return yesNo(in.Profile.RequiresSponsorship) },
	},
	{
		name: "work_authorization_checkbox",
		kind: kindCheckbox,
		strategies: []string{
			`input[type="checkbox"][name*="work_auth" i]`,
			`input[type="checkbox"][id*="authorized" i]`,
		},
		value:   func(in Input) string { return yesNo(in.Profile.WorkAuthorized) },
		checked: func(in Input) bool { return in.Profile.WorkAuthorized },
	},
	{
		name: "cover_letter_text",
		kind: kindText,
		strategies: []string{
			`textarea[name="cover_letter"]`,
			`textarea[id*="cover" i]`,
			`textarea[placeholder*="cover letter" i]`,
			`textarea[aria-label*="cover letter" i]`,
		},
		value: func(in Input) string { return in.CoverLetter },
	},
	{
		name: "resume_file",
		kind: kindFile,
		strategies: []string{
			`input[type="file"][name*="resume" i]`,
			`input[type="file"][id*="resume" i]`,
			`input[type="file"][name*="cv" i]`,
			`input[type="file"][aria-label*="resume" i]`,
		},
		value: func(in Input) string { return in.Profile.Documents.ResumePath },
	},
	{
		name: "cover_letter_file",
		kind: kindFile,
		strategies: []string{
			`input[type="file"][name*="cover" i]`,
			`input[type="file"][id*="cover" i]`,
			`input[type="file"][name*="letter" i]`,
		},
		value: func(in Input) string { return in.Profile.Documents.CoverLetterPath },
	},
}
