package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"linkedin", "https://www.linkedin.com/jobs/view/4329358250", "LinkedIn"},
		{"indeed", "https://indeed.com/viewjob?jk=abc", "Indeed"},
		{"wellfound alias", "https://angel.co/company/foo/jobs/1", "Wellfound"},
		{"greenhouse query param", "https://boards.example.com/careers?gh_jid=12345", "Greenhouse"},
		{"greenhouse hosted", "https://boards.greenhouse.io/acme/jobs/1", "Greenhouse"},
		{"lever", "https://jobs.lever.co/acme/abc-def", "Lever"},
		{"workday", "https://acme.wd5.myworkdayjobs.com/en-US/careers/job/1", "Workday"},
		{"company careers page", "https://acme.com/careers/backend-engineer", "Acme Careers"},
		{"unmatched", "https://example.org/about", Unknown},
		{"garbage url", "://not a url", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.url))
		})
	}
}
