package content

import (
	"strings"
	"testing"
)

func TestParseMarkdown_frontMatter(t *testing.T) {
	raw := []byte(`---
id: faq-password-reset
question: How do I reset my password?
category: account
tags:
  - password
  - login
helpful_count: 12
not_helpful_count: 1
view_count: 340
pinned: true
---
Open the sign-in page and click "Forgot password".
`)
	a, err := parseMarkdown(raw)
	if err != nil {
		t.Fatalf("parseMarkdown: %v", err)
	}
	if a.ID != "faq-password-reset" {
		t.Errorf("ID = %q", a.ID)
	}
	if a.Question != "How do I reset my password?" {
		t.Errorf("Question = %q", a.Question)
	}
	if a.Answer != `Open the sign-in page and click "Forgot password".` {
		t.Errorf("Answer = %q", a.Answer)
	}
	if a.Category != "account" {
		t.Errorf("Category = %q", a.Category)
	}
	if len(a.Tags) != 2 || a.Tags[0] != "password" || a.Tags[1] != "login" {
		t.Errorf("Tags = %v", a.Tags)
	}
	if a.HelpfulCount != 12 || a.NotHelpfulCount != 1 || a.ViewCount != 340 {
		t.Errorf("counts = %d/%d/%d", a.HelpfulCount, a.NotHelpfulCount, a.ViewCount)
	}
	if !a.Pinned {
		t.Error("Pinned = false")
	}
}

func TestParseMarkdown_headingFallback(t *testing.T) {
	raw := []byte("# How do I cancel my subscription?\n\nGo to Settings > Billing and click Cancel.\n")
	a, err := parseMarkdown(raw)
	if err != nil {
		t.Fatalf("parseMarkdown: %v", err)
	}
	if a.Question != "How do I cancel my subscription?" {
		t.Errorf("Question = %q", a.Question)
	}
	if a.Answer != "Go to Settings > Billing and click Cancel." {
		t.Errorf("Answer = %q", a.Answer)
	}
}

func TestParseMarkdown_frontMatterWithoutQuestion(t *testing.T) {
	raw := []byte("---\ncategory: billing\n---\n## Where can I find my invoices?\n\nOpen the Billing tab.\n")
	a, err := parseMarkdown(raw)
	if err != nil {
		t.Fatalf("parseMarkdown: %v", err)
	}
	// The heading fills in for a missing front-matter question.
	if a.Question != "Where can I find my invoices?" {
		t.Errorf("Question = %q", a.Question)
	}
	if a.Answer != "Open the Billing tab." {
		t.Errorf("Answer = %q", a.Answer)
	}
	if a.Category != "billing" {
		t.Errorf("Category = %q", a.Category)
	}
}

func TestParseMarkdown_noHeading(t *testing.T) {
	raw := []byte("Plain text with no heading at all.\n")
	a, err := parseMarkdown(raw)
	if err != nil {
		t.Fatalf("parseMarkdown: %v", err)
	}
	if a.Question != "" {
		t.Errorf("Question = %q", a.Question)
	}
	if a.Answer != "Plain text with no heading at all." {
		t.Errorf("Answer = %q", a.Answer)
	}
}

func TestParseMarkdown_headingOnly(t *testing.T) {
	raw := []byte("# Can I change my plan mid-cycle?\n")
	a, err := parseMarkdown(raw)
	if err != nil {
		t.Fatalf("parseMarkdown: %v", err)
	}
	if a.Question != "Can I change my plan mid-cycle?" {
		t.Errorf("Question = %q", a.Question)
	}
	if a.Answer != "" {
		t.Errorf("Answer = %q", a.Answer)
	}
}

func TestParseMarkdown_fenceAtEOF(t *testing.T) {
	raw := []byte("---\nquestion: Is there a free tier?\n---")
	a, err := parseMarkdown(raw)
	if err != nil {
		t.Fatalf("parseMarkdown: %v", err)
	}
	if a.Question != "Is there a free tier?" {
		t.Errorf("Question = %q", a.Question)
	}
	if a.Answer != "" {
		t.Errorf("Answer = %q", a.Answer)
	}
}

func TestParseMarkdown_crlf(t *testing.T) {
	raw := []byte("---\r\nquestion: How do I export data?\r\n---\r\nUse the Export button.\r\n")
	a, err := parseMarkdown(raw)
	if err != nil {
		t.Fatalf("parseMarkdown: %v", err)
	}
	if a.Question != "How do I export data?" {
		t.Errorf("Question = %q", a.Question)
	}
	if a.Answer != "Use the Export button." {
		t.Errorf("Answer = %q", a.Answer)
	}
}

func TestParseMarkdown_unclosedFenceIsBody(t *testing.T) {
	raw := []byte("--- not front matter, just a horizontal rule intro\nBody text.\n")
	a, err := parseMarkdown(raw)
	if err != nil {
		t.Fatalf("parseMarkdown: %v", err)
	}
	if !strings.Contains(a.Answer, "Body text.") {
		t.Errorf("Answer = %q", a.Answer)
	}
}

func TestParseMarkdown_invalidUTF8(t *testing.T) {
	raw := []byte("# Broken\x80bytes\n\nStill readable.\n")
	a, err := parseMarkdown(raw)
	if err != nil {
		t.Fatalf("parseMarkdown: %v", err)
	}
	if a.Question != "Broken�bytes" {
		t.Errorf("Question = %q", a.Question)
	}
}

func TestParseMarkdown_empty(t *testing.T) {
	if _, err := parseMarkdown([]byte("  \n\n")); err == nil {
		t.Error("expected error for empty article")
	}
}

func TestParseMarkdown_badFrontMatter(t *testing.T) {
	raw := []byte("---\nquestion: [unclosed\n---\nbody\n")
	if _, err := parseMarkdown(raw); err == nil {
		t.Error("expected error for malformed front matter")
	}
}

func TestTakeFirstHeading_stopsAtFirstText(t *testing.T) {
	heading, rest := takeFirstHeading("Intro paragraph.\n# A later heading\n")
	if heading != "" {
		t.Errorf("heading = %q", heading)
	}
	if !strings.Contains(rest, "Intro paragraph.") {
		t.Errorf("rest = %q", rest)
	}
}
