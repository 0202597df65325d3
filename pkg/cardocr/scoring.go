package cardocr

import (
	"regexp"
	"strings"
)

// Text-shape signals used for attempt scoring. These look at what recognized
// text *contains*, never at which configuration produced it; the config
// weight is applied separately.
var (
	nameShapeRE = regexp.MustCompile(`\p{Lu}\p{Ll}{2,}[ \t]+\p{Lu}\p{Ll}{2,}`)
	dateShapeRE = regexp.MustCompile(`\b\d{2}[./]\d{2}[./](\d{4}|\d{2})\b`)
)

// baseConfidence scores raw OCR text on domain signals alone: usable length,
// a member-number shape, a personal-name shape, insurer mentions, a date
// shape and the density of German-specific characters. Deterministic and
// pure; identical text always scores identically.
func baseConfidence(text string, v *Vocabulary) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	runes := []rune(trimmed)
	conf := 0.0

	if len(runes) >= 20 {
		conf += 0.15
	}
	if len(runes) >= 60 {
		conf += 0.1
	}
	if findMemberNumber(trimmed, v) != "" {
		conf += 0.3
	}
	if nameShapeRE.MatchString(trimmed) {
		conf += 0.2
	}
	if v.insurerSignal(trimmed) {
		conf += 0.2
	}
	if dateShapeRE.MatchString(trimmed) {
		conf += 0.05
	}

	umlauts := 0
	for _, r := range runes {
		switch r {
		case 'ä', 'ö', 'ü', 'Ä', 'Ö', 'Ü', 'ß':
			umlauts++
		}
	}
	density := float64(umlauts) / float64(len(runes))
	bonus := density * 5
	if bonus > 0.1 {
		bonus = 0.1
	}
	conf += bonus

	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}

// findMemberNumber scans text for the member-number pattern family and
// returns the first candidate that survives canonical-shape validation.
func findMemberNumber(text string, v *Vocabulary) string {
	for _, re := range v.numberREs {
		for _, m := range re.FindAllString(text, -1) {
			cand := strings.ToUpper(stripSeparators(m))
			if canonicalNumberRE.MatchString(cand) {
				return cand
			}
		}
	}
	return ""
}
