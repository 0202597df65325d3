package cardocr

import (
	"regexp"
	"strings"
	"unicode"
)

// titleTokenRE matches an isolated title-case word (first letter upper, the
// rest lower, hyphens allowed) for the token fallback pass.
var titleTokenRE = regexp.MustCompile(`^\p{Lu}[\p{Ll}-]+$`)

// ExtractedFields holds the three target fields. Values are either a
// validated non-empty string or the vocabulary's "not recognized" sentinel,
// never empty.
type ExtractedFields struct {
	Name             string `json:"name"`
	InsuranceNumber  string `json:"insurance_number"`
	InsuranceCompany string `json:"insurance_company"`
}

// parseFields turns the winning raw text into field candidates using
// line-scanning heuristics. Per line the highest-value field gets first
// claim: member number, then insurer, then name. Scanning stops once all
// three fields are filled; unfilled fields get the sentinel.
func parseFields(rawText string, v *Vocabulary) ExtractedFields {
	var f ExtractedFields
	lines := splitLines(rawText)

	for _, line := range lines {
		if f.InsuranceNumber != "" && f.InsuranceCompany != "" && f.Name != "" {
			break
		}
		if f.InsuranceNumber == "" {
			if num := findMemberNumber(line, v); num != "" {
				f.InsuranceNumber = num
				continue
			}
		}
		if f.InsuranceCompany == "" {
			if ins := matchInsurerLine(line, v); ins != "" {
				f.InsuranceCompany = ins
				continue
			}
		}
		if f.Name == "" {
			if isNameLine(line, v) {
				f.Name = line
			}
		}
	}

	if f.Name == "" {
		f.Name = nameFromTokens(lines, v)
	}
	if f.Name == "" {
		f.Name = nameFromLinePairs(lines, v)
	}

	if f.Name == "" {
		f.Name = v.Sentinel
	}
	if f.InsuranceNumber == "" {
		f.InsuranceNumber = v.Sentinel
	}
	if f.InsuranceCompany == "" {
		f.InsuranceCompany = v.Sentinel
	}
	return f
}

// matchInsurerLine decides whether a line names the insurer. Boilerplate is
// checked first: the card header mentions insurance terminology on every
// card and must never win.
func matchInsurerLine(line string, v *Vocabulary) string {
	if v.stoplisted(line) {
		return ""
	}
	low := strings.ToLower(line)
	for _, frag := range v.InsurerFragments {
		if strings.Contains(low, frag) {
			return strings.TrimSpace(line)
		}
	}
	for _, term := range v.InsuranceTerms {
		if strings.Contains(low, term) && len([]rune(line)) >= 8 {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

const (
	minNameWords = 2
	maxNameWords = 4
	minWordLen   = 2
	maxWordLen   = 20
)

// isNameLine reports whether a whole line plausibly is the cardholder name:
// two to four alphabetic/hyphen words of plausible length, at least one
// capitalized, free of boilerplate and insurer vocabulary.
func isNameLine(line string, v *Vocabulary) bool {
	if v.stoplisted(line) || v.insurerSignal(line) {
		return false
	}
	words := strings.Fields(line)
	if len(words) < minNameWords || len(words) > maxNameWords {
		return false
	}
	capitalized := 0
	for _, w := range words {
		if !isNameWordLenient(w) {
			return false
		}
		if unicode.IsUpper([]rune(w)[0]) {
			capitalized++
		}
	}
	return capitalized >= 1
}

func isNameWord(w string) bool {
	runes := []rune(w)
	if len(runes) < minWordLen || len(runes) > maxWordLen {
		return false
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) && r != '-' {
			return false
		}
	}
	return true
}

// isNameWordLenient additionally tolerates the digit look-alikes OCR tends
// to produce inside letters (0/1/5/8); the validator repairs them later.
func isNameWordLenient(w string) bool {
	runes := []rune(w)
	if len(runes) < minWordLen || len(runes) > maxWordLen {
		return false
	}
	if !unicode.IsLetter(runes[0]) {
		return false
	}
	for _, r := range runes {
		if unicode.IsLetter(r) || r == '-' {
			continue
		}
		switch r {
		case '0', '1', '5', '8':
			continue
		}
		return false
	}
	return true
}

// nameFromTokens is the fallback when no single line qualifies: collect
// isolated title-case tokens across all lines and join the first few.
func nameFromTokens(lines []string, v *Vocabulary) string {
	var cands []string
	for _, line := range lines {
		if hasDigit(line) {
			continue
		}
		for _, tok := range strings.Fields(line) {
			if !isNameWord(tok) || !titleTokenRE.MatchString(tok) {
				continue
			}
			if v.stoplisted(tok) || v.insurerSignal(tok) || stopPhraseHasToken(tok, v) {
				continue
			}
			cands = append(cands, tok)
			if len(cands) == 3 {
				break
			}
		}
		if len(cands) == 3 {
			break
		}
	}
	if len(cands) < minNameWords {
		return ""
	}
	return strings.Join(cands, " ")
}

// stopPhraseHasToken reports whether a token is itself part of some stop
// phrase ("Europäische" inside "europäische krankenversicherungskarte").
// Only the token pass needs this direction of the check.
func stopPhraseHasToken(tok string, v *Vocabulary) bool {
	low := strings.ToLower(tok)
	for _, s := range v.Stoplist {
		if strings.Contains(s, low) {
			return true
		}
	}
	return false
}

// nameFromLinePairs tries adjacent line pairs, catching first and last name
// split across two lines.
func nameFromLinePairs(lines []string, v *Vocabulary) string {
	for i := 0; i+1 < len(lines); i++ {
		joined := lines[i] + " " + lines[i+1]
		if isNameLine(joined, v) {
			return joined
		}
	}
	return ""
}
