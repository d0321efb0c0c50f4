package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/models"
)

// Client is the interface for AI providers
type Client interface {
	// GenerateCoverLetter produces a short cover letter for the job at
	// jobURL from the applicant profile. Failures are non-fatal for the
	// session; the application proceeds without AI content.
	GenerateCoverLetter(ctx context.Context, profile *models.Profile, jobURL, platformTag string) (string, error)
}

// buildSystemPrompt creates the system instruction for the AI model
func buildSystemPrompt() string {
	return `You are an expert career writer. Write concise, specific cover letters.

Rules:
1. At most 180 words, three short paragraphs.
2. Plain text only: no markdown, no placeholders like [Company], no salutation templates.
3. Use only facts present in the applicant summary; never invent experience.
4. Close with the applicant's full name.`
}

// buildUserPrompt combines the applicant summary and the job reference
func buildUserPrompt(profile *models.Profile, jobURL, platformTag string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Applicant: %s %s (%s)\n", profile.FirstName, profile.LastName, profile.Email)
	if len(profile.Skills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(profile.Skills, ", "))
	}
	for _, exp := range profile.Experience {
		fmt.Fprintf(&b, "Experience: %s at %s. %s\n", exp.Title, exp.Company, exp.Summary)
	}
	for _, edu := range profile.Education {
		fmt.Fprintf(&b, "Education: %s in %s, %s\n", edu.Degree, edu.Field, edu.School)
	}
	fmt.Fprintf(&b, "\nJob posting: %s (platform: %s)\n", jobURL, platformTag)
	b.WriteString("\nWrite the cover letter now.")
	return b.String()
}
