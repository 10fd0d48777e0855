package extract

import "regexp"

// Pattern tables are compiled once at init and shared read-only across
// transcripts. Digit-group patterns tolerate the whitespace the transcriber
// inserts after pause dots.
var (
	phoneRe       = regexp.MustCompile(`(?:\+?91)?[6-9]\d{9}`)
	fragmentRunRe = regexp.MustCompile(`\d{2,4}(?:\.{2,3}\s*\d{2,4}){2,}`)
	numberTokenRe = regexp.MustCompile(`\b\d{2,4}\b`)
	digitsRe      = regexp.MustCompile(`\d+`)
	tenDigitRe    = regexp.MustCompile(`\d{10}`)

	priceRe       = regexp.MustCompile(`(?i)(?:₹|rs\.?|rupees?|rate|rent|price|amount)\s*(\d+(?:,\d+)*(?:\.\d+)?)`)
	quotedPriceRe = regexp.MustCompile(`(?i)(?:quote|quoted|offer|charge)\s*(?:₹|rs\.?|rupees?)?\s*(\d+(?:,\d+)*)`)

	lengthRe  = regexp.MustCompile(`(?i)(\d+)\s*(?:feet?|ft|foot)`)
	tonnageRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:tons?|mt|tonnes?|capacity)`)

	fromToRe      = regexp.MustCompile(`(?i)from\s+([A-Za-z ]+?)\s+to\s+([A-Za-z ]+?)(?:\s|$|[,.])`)
	locationCueRe = regexp.MustCompile(`(?i)\b(?:from|to|going to|coming from|pickup|drop|delivery)\s+([A-Za-z ]+?)(?:\s|$|[,.])`)
)

// Conversational-intent phrase patterns, applied to the full lowercased
// transcript. The negative-availability patterns allow for the apostrophe the
// normalizer turns into a space.
var (
	loadPitchRes = []*regexp.Regexp{
		regexp.MustCompile(`(?:we have|got|available)\s+(?:a\s+|one\s+)?load`),
		regexp.MustCompile(`load\s+(?:is\s+)?available`),
		regexp.MustCompile(`there\s+(?:is\s+)?(?:a\s+)?load`),
		regexp.MustCompile(`load\s+for\s+you`),
	}
	loadPitchKeywords = []string{"load available", "load of yours", "load for gujarat"}

	noLoadRes = []*regexp.Regexp{
		regexp.MustCompile(`no\s+load\s+available`),
		regexp.MustCompile(`don'?\s?t\s+have\s+(?:any\s+)?load`),
		regexp.MustCompile(`no\s+load\s+(?:right\s+now|currently)`),
		regexp.MustCompile(`sorry.*no\s+load`),
	}

	priceQuestionRes = []*regexp.Regexp{
		regexp.MustCompile(`what\s+(?:is\s+the\s+)?(?:rate|price|amount)`),
		regexp.MustCompile(`how\s+much`),
		regexp.MustCompile(`tell\s+me\s+(?:the\s+)?(?:rate|price)`),
		regexp.MustCompile(`rate\s+(?:is\s+)?what`),
	}
	priceKeywords = []string{"rate", "capacity", "ton"}

	numberAskPhrases = []string{
		"mobile number", "phone number", "your number",
		"tell me your number", "give me your number", "share your number",
	}
)
