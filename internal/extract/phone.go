package extract

import "strings"

// extractPhone recovers a 10-digit Indian mobile number from the whole
// transcript text. Three tiers, first tier with a result wins, no merging:
//
//  1. direct 10-digit pattern, optional +91/91 prefix;
//  2. fragmented spoken-digit groups separated by pause dots, concatenated
//     in order with the first 10 digits kept;
//  3. standalone 2-4 digit tokens: with at least three present, the first
//     five are concatenated and accepted on the same shape check.
//
// All accepted results start with 6-9 and are trimmed to exactly 10 digits.
func extractPhone(fullText string) string {
	if m := phoneRe.FindString(fullText); m != "" {
		return m[len(m)-10:]
	}

	if run := fragmentRunRe.FindString(fullText); run != "" {
		digits := strings.Join(digitsRe.FindAllString(run, -1), "")
		if valid := shapeCheck(digits); valid != "" {
			return valid
		}
	}

	tokens := numberTokenRe.FindAllString(fullText, -1)
	if len(tokens) >= 3 {
		n := len(tokens)
		if n > 5 {
			n = 5
		}
		if valid := shapeCheck(strings.Join(tokens[:n], "")); valid != "" {
			return valid
		}
	}

	return ""
}

// shapeCheck accepts a digit string of at least 10 characters whose leading
// digit is a valid Indian mobile prefix, returning the first 10 digits.
func shapeCheck(digits string) string {
	if len(digits) < 10 {
		return ""
	}
	switch digits[0] {
	case '6', '7', '8', '9':
		return digits[:10]
	}
	return ""
}
