package utils

import (
	"regexp"
	"strings"
)

// --- Slug Generation ---
var whitespaceRun = regexp.MustCompile(`\s+`)    // Runs of whitespace become one hyphen
var nonSlugChars = regexp.MustCompile(`[^\w-]`)   // Anything not a word char or hyphen is dropped
var consecutiveHyphens = regexp.MustCompile(`-+`) // Pattern to replace multiple hyphens with one

// Slugify derives an anchor-safe identifier from a section title.
// Identical titles always produce identical slugs; the result never starts or ends with a hyphen
// and may be empty when the title has no word characters.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = whitespaceRun.ReplaceAllString(slug, "-")
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = consecutiveHyphens.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
