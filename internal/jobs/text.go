package jobs

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SnippetLength caps snippets rendered in result tables and exports.
const SnippetLength = 300

// CleanText strips HTML markup and collapses all whitespace runs
// (including newlines and non-breaking spaces) into single spaces.
func CleanText(s string) string {
	if s == "" {
		return ""
	}

	if strings.ContainsRune(s, '<') {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}

	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Snippet returns a cleaned, length-capped excerpt of the given text.
// The cap is in runes so multi-byte descriptions are not cut mid-character.
func Snippet(s string, length int) string {
	s = CleanText(s)
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}
	return string(runes[:length])
}
