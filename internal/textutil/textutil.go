// Package textutil holds the pure string helpers used around OCR output:
// whitespace and character cleanup, date coercion and email pattern matching.
package textutil

import (
	"regexp"
	"strings"
	"time"
)

var (
	reWhitespace = regexp.MustCompile(`[\s\v\x1c-\x1f\x85\p{Z}]+`)
	reDisallowed = regexp.MustCompile(`[^\p{L}\p{N}_ .,!?@-]`)
	reEmailFind  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	reEmailValid = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// dateLayouts are tried in order; the first that parses wins.
// Day-first numeric layouts come before month-first ones.
var dateLayouts = []string{
	"2006-1-2",
	"2-1-2006",
	"1-2-2006",
	"2/1/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// Clean collapses whitespace runs to one space, drops characters other than
// letters, digits, underscore, space and -.,!?@, and trims the ends.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = reWhitespace.ReplaceAllString(s, " ")
	s = reDisallowed.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// CoerceDate reformats s as YYYY-MM-DD when it matches a known layout,
// otherwise it returns s unchanged.
func CoerceDate(s string) string {
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return s
}

// FindEmails returns every email-shaped substring of s in order of appearance.
// Duplicates are kept.
func FindEmails(s string) []string {
	return reEmailFind.FindAllString(s, -1)
}

// IsValidEmail reports whether s is exactly one email address.
func IsValidEmail(s string) bool {
	return reEmailValid.MatchString(s)
}
