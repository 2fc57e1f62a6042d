// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil holds small string helpers shared by the output,
// scraping and brief packages.
package textutil

import (
	"fmt"
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Slug lowercases s and joins its words with hyphens, dropping anything
// that is not a letter, digit, space, hyphen or underscore.
// "The Future of AI in Healthcare" becomes "the-future-of-ai-in-healthcare".
func Slug(s string) string {
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			sep = true
		}
	}
	return b.String()
}

// Truncate shortens s to at most max runes, ending in "..." when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// StripTags removes all markup from s and decodes entities, leaving plain
// text with whitespace collapsed.
func StripTags(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(strict.Sanitize(s))), " ")
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// ReadingTime estimates reading time at wpm words per minute, never less
// than one minute.
func ReadingTime(s string, wpm int) string {
	if wpm <= 0 {
		wpm = 200
	}
	minutes := max(1, (WordCount(s)+wpm/2)/wpm)
	if minutes == 1 {
		return "1 min"
	}
	return fmt.Sprintf("%d mins", minutes)
}
