package models

// Profile is the applicant data snapshot handed to a session at creation.
// The engine only ever reads it; it is safe to share by reference across a
// session's sub-components.
type Profile struct {
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	Email     string `json:"email" yaml:"email"`
	Phone     string `json:"phone" yaml:"phone"`

	Address Address `json:"address" yaml:"address"`

	// WorkAuthorized answers "are you authorized to work" questions;
	// RequiresSponsorship answers the usual follow-up.
	WorkAuthorized      bool `json:"work_authorized" yaml:"work_authorized"`
	RequiresSponsorship bool `json:"requires_sponsorship" yaml:"requires_sponsorship"`

	LinkedIn  string `json:"linkedin,omitempty" yaml:"linkedin"`
	Portfolio string `json:"portfolio,omitempty" yaml:"portfolio"`

	Education  []Education  `json:"education,omitempty" yaml:"education"`
	Experience []Experience `json:"experience,omitempty" yaml:"experience"`
	Skills     []string     `json:"skills,omitempty" yaml:"skills"`

	Documents Documents `json:"documents" yaml:"documents"`

	// Channels selects where review/confirmation messages go.
	Channels ChannelPreferences `json:"channels" yaml:"channels"`
}

type Address struct {
	Street  string `json:"street,omitempty" yaml:"street"`
	City    string `json:"city,omitempty" yaml:"city"`
	State   string `json:"state,omitempty" yaml:"state"`
	Zip     string `json:"zip,omitempty" yaml:"zip"`
	Country string `json:"country,omitempty" yaml:"country"`
}

type Education struct {
	School    string `json:"school" yaml:"school"`
	Degree    string `json:"degree" yaml:"degree"`
	Field     string `json:"field,omitempty" yaml:"field"`
	StartYear string `json:"start_year,omitempty" yaml:"start_year"`
	EndYear   string `json:"end_year,omitempty" yaml:"end_year"`
}

type Experience struct {
	Title     string `json:"title" yaml:"title"`
	Company   string `json:"company" yaml:"company"`
	StartDate string `json:"start_date,omitempty" yaml:"start_date"`
	EndDate   string `json:"end_date,omitempty" yaml:"end_date"`
	Current   bool   `json:"current,omitempty" yaml:"current"`
	Summary   string `json:"summary,omitempty" yaml:"summary"`
}

// Documents holds locally resolved paths for upload fields.
type Documents struct {
	ResumePath      string `json:"resume_path,omitempty" yaml:"resume_path"`
	CoverLetterPath string `json:"cover_letter_path,omitempty" yaml:"cover_letter_path"`
}

type ChannelPreferences struct {
	Email          string `json:"email,omitempty" yaml:"email"`
	TelegramChatID int64  `json:"telegram_chat_id,omitempty" yaml:"telegram_chat_id"`
}

// Credentials are passed through to the login coordinator when supplied.
// They are never stored at rest by the engine (known limitation, not
// redesigned here).
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// Method names an OAuth-style entry point ("google", "linkedin", ...)
	// when the site offers one; empty means plain email/password.
	Method string `json:"method,omitempty"`
}

// HasCredentials reports whether automated login can even be attempted.
func (c Credentials) HasCredentials() bool {
	return (c.Email != "" && c.Password != "") || c.Method != ""
}
