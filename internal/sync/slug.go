package sync

import (
	"math/rand/v2"
	"regexp"
	"strings"
)

const (
	// slugBaseMaxLen caps the human-readable part of a slug.
	slugBaseMaxLen = 60

	// slugSuffixLen is the length of the random uniqueness suffix.
	slugSuffixLen = 5

	slugSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug builds a job's public slug from its title, company, and
// country slug, with a short random suffix so duplicate titles still get
// unique URLs. Slugs are generated once at creation and never regenerated:
// they are stable URLs.
func GenerateSlug(title, company, countrySlug, suffix string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{title, company, countrySlug} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	base := strings.ToLower(strings.Join(parts, " "))
	base = nonAlphanumeric.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	if len(base) > slugBaseMaxLen {
		base = base[:slugBaseMaxLen]
	}

	return base + "-" + suffix
}

// randomSuffix returns slugSuffixLen characters of lowercase-alphanumeric
// randomness. Collisions are possible but vanishingly rare within one site's
// job volume, and the slug column's unique constraint catches the rest.
func randomSuffix() string {
	b := make([]byte, slugSuffixLen)
	for i := range b {
		b[i] = slugSuffixAlphabet[rand.IntN(len(slugSuffixAlphabet))]
	}
	return string(b)
}
