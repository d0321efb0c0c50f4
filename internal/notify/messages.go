package notify

import (
	"fmt"
	"time"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/models"
)

// LoginMessage tells the user a session is parked waiting for a manual login.
func LoginMessage(rec *models.SessionRecord) string {
	return fmt.Sprintf(
		"🔐 <b>Login needed</b>\n\nSession <code>%s</code> opened %s but the page wants you to sign in.\nLog in from the visible browser window; once you're in, the session becomes ready to fill.",
		rec.ID, rec.JobURL,
	)
}

// ReviewMessage announces a filled form awaiting approval. The approval
// token is included so the user can approve or reject from anywhere.
func ReviewMessage(rec *models.SessionRecord, skipped []string) string {
	deadline := rec.ExpiresAt.Format(time.Kitchen)
	msg := fmt.Sprintf(
		"📝 <b>Application ready for review</b>\n\n<b>Platform:</b> %s\n<b>Job:</b> %s\n<b>Fields filled:</b> %d\n",
		rec.Platform, rec.JobURL, rec.FilledCount,
	)
	if len(skipped) > 0 {
		msg += fmt.Sprintf("<b>Unmatched fields:</b> %d (review them in the browser)\n", len(skipped))
	}
	msg += fmt.Sprintf(
		"\nApprove with token <code>%s</code> before %s or it auto-submits.",
		rec.ApprovalToken, deadline,
	)
	return msg
}

// OutcomeMessage reports a terminal state.
func OutcomeMessage(rec *models.SessionRecord) string {
	switch rec.Status {
	case models.StatusSubmitted:
		return fmt.Sprintf("✅ <b>Application submitted</b>\n\n%s", rec.JobURL)
	case models.StatusExpired:
		return fmt.Sprintf("⏰ <b>Session expired</b>\n\nLogin never completed for %s", rec.JobURL)
	case models.StatusRejected:
		return fmt.Sprintf("🚫 <b>Application discarded</b>\n\n%s was not submitted.", rec.JobURL)
	default:
		return fmt.Sprintf("❌ <b>Application failed</b>\n\n%s\nReason: %s", rec.JobURL, rec.ErrorMessage)
	}
}
