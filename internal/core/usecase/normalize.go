package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	nonWordPattern    = regexp.MustCompile(`[^\w\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize lower-cases text, turns punctuation into spaces and collapses
// whitespace. Chunks and queries go through the same path.
func Normalize(text string) string {
	out := strings.ToLower(text)
	out = nonWordPattern.ReplaceAllString(out, " ")
	out = whitespacePattern.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

func queryTerms(normalizedQuery string) []string {
	fields := strings.Fields(normalizedQuery)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) <= 2 {
			continue
		}
		out = append(out, f)
	}
	return out
}
