package content

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/oshiete/internal/models"
)

// frontMatter is the optional YAML block between --- fences at the top of a
// markdown or text article.
type frontMatter struct {
	ID              string   `yaml:"id"`
	Question        string   `yaml:"question"`
	Category        string   `yaml:"category"`
	Tags            []string `yaml:"tags"`
	HelpfulCount    int      `yaml:"helpful_count"`
	NotHelpfulCount int      `yaml:"not_helpful_count"`
	ViewCount       int      `yaml:"view_count"`
	Pinned          bool     `yaml:"pinned"`
}

// parseMarkdown parses a .md or .txt file into a single article. The question
// comes from front matter, falling back to the first # heading; the remaining
// body is the answer.
func parseMarkdown(raw []byte) (*models.Article, error) {
	text := validUTF8(raw)

	var fm frontMatter
	body := text
	if block, rest, ok := splitFrontMatter(text); ok {
		if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
			return nil, fmt.Errorf("parse front matter: %w", err)
		}
		body = rest
	}

	question := fm.Question
	if question == "" {
		question, body = takeFirstHeading(body)
	}
	answer := strings.TrimSpace(body)

	if question == "" && answer == "" {
		return nil, fmt.Errorf("article has no question or answer")
	}

	return &models.Article{
		ID:              fm.ID,
		Question:        question,
		Answer:          answer,
		Category:        fm.Category,
		Tags:            fm.Tags,
		HelpfulCount:    fm.HelpfulCount,
		NotHelpfulCount: fm.NotHelpfulCount,
		ViewCount:       fm.ViewCount,
		Pinned:          fm.Pinned,
	}, nil
}

// splitFrontMatter returns the YAML block and the remaining body when text
// starts with a --- fence. ok is false when there is no front matter.
func splitFrontMatter(text string) (block, rest string, ok bool) {
	if !strings.HasPrefix(text, "---\n") && !strings.HasPrefix(text, "---\r\n") {
		return "", "", false
	}
	after := text[strings.Index(text, "\n")+1:]
	for _, fence := range []string{"\n---\n", "\n---\r\n"} {
		if i := strings.Index(after, fence); i >= 0 {
			return after[:i], after[i+len(fence):], true
		}
	}
	// Fence closing at EOF without trailing newline.
	if trimmed := strings.TrimRight(after, "\r\n"); strings.HasSuffix(trimmed, "\n---") {
		return trimmed[:len(trimmed)-len("\n---")], "", true
	}
	return "", "", false
}

// takeFirstHeading pops the first markdown heading off body and returns it as
// the question. Returns the body unchanged when it has no heading.
func takeFirstHeading(body string) (heading, rest string) {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			heading = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			rest = strings.Join(lines[i+1:], "\n")
			return heading, rest
		}
		break
	}
	return "", body
}

// validUTF8 replaces invalid byte sequences with the replacement character.
func validUTF8(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), "�")
}
