package search

import "strings"

// snippetLength caps answer snippets in search results.
const snippetLength = 200

// Snippet returns a display snippet of text, cut at a word boundary when one
// falls in the second half of the budget.
func Snippet(text string, maxLen int) string {
	if maxLen <= 0 || len(text) <= maxLen {
		return text
	}
	cut := text[:maxLen]
	if i := strings.LastIndexByte(cut, ' '); i > maxLen/2 {
		cut = cut[:i]
	}
	return cut + "..."
}
