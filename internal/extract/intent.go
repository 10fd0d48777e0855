package extract

import (
	"regexp"
	"strings"
)

// intentFlags capture what the conversation was about, independently of
// whether the deterministic pass recovered any value. A number can be asked
// for and never successfully transcribed; the flag still records the ask.
type intentFlags struct {
	didPitchLoad       bool
	wasPriceDiscussed  bool
	didSayNoLoad       bool
	wasNumberExchanged bool
}

// extractIntents evaluates every flag over the full lowercased transcript.
// Flags are independent and non-exclusive. Price discussion reads the raw
// text as well, because the currency cues are normalized away.
func extractIntents(fullLower, rawLower string) intentFlags {
	return intentFlags{
		didPitchLoad:       detectLoadPitch(fullLower),
		wasPriceDiscussed:  detectPriceDiscussion(fullLower) || detectPriceDiscussion(rawLower),
		didSayNoLoad:       matchesAny(fullLower, noLoadRes),
		wasNumberExchanged: detectNumberExchange(fullLower),
	}
}

func detectLoadPitch(text string) bool {
	if matchesAny(text, loadPitchRes) {
		return true
	}
	return containsAny(text, loadPitchKeywords)
}

// detectPriceDiscussion is deliberately broad: any price question, any
// price-shaped number, or a bare commercial keyword counts. Recall over
// precision.
func detectPriceDiscussion(text string) bool {
	if matchesAny(text, priceQuestionRes) {
		return true
	}
	if priceRe.MatchString(text) {
		return true
	}
	return containsAny(text, priceKeywords)
}

func detectNumberExchange(text string) bool {
	if containsAny(text, numberAskPhrases) {
		return true
	}

	// A structurally complete number counts even without an explicit ask.
	stripped := strings.NewReplacer(" ", "", ".", "", "-", "").Replace(text)
	if tenDigitRe.MatchString(stripped) {
		return true
	}

	return fragmentRunRe.MatchString(text)
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
