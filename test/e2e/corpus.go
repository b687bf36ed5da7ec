// Package e2e provides end-to-end tests over a small company knowledge base.
package e2e

import (
	"strings"
)

// CorpusFile is one document of the test knowledge base.
type CorpusFile struct {
	Name    string
	Content string
}

// QueryTestCase is a question and the file whose chunk must rank first.
type QueryTestCase struct {
	Query    string
	Expected string
}

// Corpus holds the files to ingest and the questions to ask of them.
type Corpus struct {
	Files     []CorpusFile
	Ignored   []CorpusFile
	TestCases []QueryTestCase
}

// BuildCorpus returns the AakiTech knowledge base used by the end-to-end tests.
// Ignored files sit next to the text files and must never be ingested.
func BuildCorpus() *Corpus {
	return &Corpus{
		Files: []CorpusFile{
			{"sales_goals.txt", "AakiTech's Q3 sales goal is $2M in new annual recurring revenue. " +
				"The sales team will focus on enterprise clients in Johannesburg and Cape Town."},
			{"project_pinda.txt", "Project Pinda is the internal platform for automating invoice processing. " +
				"Project Pinda launches to pilot customers in October."},
			{"marketing_strategy.txt", "The marketing strategy for Q3 targets SMEs through LinkedIn campaigns, " +
				"webinars and partner events. Marketing spend is reviewed monthly."},
			{"team_brighton.txt", "Brighton Moyo heads engineering. Brighton leads the platform team " +
				"and reviews architecture decisions."},
			{"ai_at_aakitech.txt", "AakiTech teams use AI to triage customer support tickets and forecast demand. " +
				"AI integrations are offered to every client."},
			{"office_furniture.txt", "The office furniture order includes standing desks, ergonomic chairs " +
				"and a new boardroom table."},
			{"onboarding_handbook.txt", onboardingHandbook()},
		},
		Ignored: []CorpusFile{
			{"logo.png", "\x89PNG\r\n"},
			{"draft.md", "# Q3 sales goal draft"},
		},
		TestCases: []QueryTestCase{
			{"What is AakiTech's Q3 sales goal?", "sales_goals.txt"},
			{"Tell me about Project Pinda", "project_pinda.txt"},
			{"What's the marketing strategy for Q3?", "marketing_strategy.txt"},
			{"Who is Brighton?", "team_brighton.txt"},
			{"How does AakiTech use AI?", "ai_at_aakitech.txt"},
			{"standing desks and chairs", "office_furniture.txt"},
		},
	}
}

// onboardingHandbook is long enough to be split into several chunks.
func onboardingHandbook() string {
	sections := []string{
		"Welcome to the onboarding handbook. Day one starts with laptop setup and account provisioning.",
		"Security training is mandatory in the first week and covers phishing, passwords and device policy.",
		"Every new hire is paired with a buddy who answers questions about tools, rituals and people.",
		"Engineering hires shadow the on-call rotation for two weeks before joining it.",
		"Expense claims are submitted monthly through the finance portal with receipts attached.",
		"Leave requests go to your line manager at least two weeks in advance.",
		"The quarterly all-hands meeting reviews company goals, wins and lessons learned.",
		"Remote days are flexible, but Tuesdays and Thursdays are shared office days.",
		"Performance check-ins happen every six weeks and focus on growth rather than ratings.",
		"Questions about this handbook go to the people operations channel.",
	}
	var b strings.Builder
	for i := 0; i < 2; i++ {
		for _, s := range sections {
			b.WriteString(s)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}
