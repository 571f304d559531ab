// Package utils contains small helpers that do not belong to a specific domain.
package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalid   = regexp.MustCompile(`[^\w\s-]`)
	slugSeparator = regexp.MustCompile(`[\s_-]+`)
	slugPattern   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slugify derives a URL-safe identifier from a display name: "Payments API v2" becomes
// "payments-api-v2". Accents are folded to their base letter and every other character
// outside [A-Za-z0-9_] is dropped. Applying it to a slug returns the slug unchanged.
func Slugify(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err == nil {
		s = folded
	}

	s = strings.TrimSpace(strings.ToLower(s))
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugSeparator.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IsSlug reports whether s is already in slug form.
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}
