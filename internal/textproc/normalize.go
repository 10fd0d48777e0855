// Package textproc cleans raw transcript text before extraction.
package textproc

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	punctRe      = regexp.MustCompile(`[^\w\s.-]`)

	feetRe  = regexp.MustCompile(`(?i)\b(?:ft|foot)\b`)
	tonsRe  = regexp.MustCompile(`(?i)\b(?:mt|tonnes?)\b`)
)

// Normalize collapses whitespace, strips punctuation other than hyphen and
// period, and canonicalizes unit spellings (ft/foot -> feet, mt/tonne -> tons).
// It is idempotent and total: any input, including empty, yields a valid string.
func Normalize(text string) string {
	text = punctRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = feetRe.ReplaceAllString(text, "feet")
	text = tonsRe.ReplaceAllString(text, "tons")
	return strings.TrimSpace(text)
}
