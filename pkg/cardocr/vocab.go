package cardocr

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Vocabulary holds the locale-specific data the parser and validator work
// from: known insurer fragments, generic insurance terms, the boilerplate
// stoplist and the member-number pattern family. Keeping these as data means
// a new locale only needs a JSON file, not code changes.
type Vocabulary struct {
	// InsurerFragments are lower-cased substrings of known insurer names.
	InsurerFragments []string `json:"insurer_fragments"`
	// InsuranceTerms are generic terms that mark a line as insurer-ish when
	// combined with a minimum line length.
	InsuranceTerms []string `json:"insurance_terms"`
	// Stoplist holds lower-cased header/boilerplate fragments that must never
	// be claimed as a field value.
	Stoplist []string `json:"stoplist"`
	// NumberPatterns match member numbers with optional internal spaces/dots.
	// Matches are stripped and re-checked against the canonical shape.
	NumberPatterns []string `json:"number_patterns"`
	// Sentinel replaces fields that could not be recognized.
	Sentinel string `json:"sentinel"`

	numberREs []*regexp.Regexp
}

// canonicalNumberRE is the validated shape of a German insurance member
// number: one capital letter plus nine digits, or ten plain digits.
var canonicalNumberRE = regexp.MustCompile(`^[A-Z]\d{9}$|^\d{10}$`)

// DefaultVocabulary returns the built-in German vocabulary.
func DefaultVocabulary() *Vocabulary {
	v := &Vocabulary{
		InsurerFragments: []string{
			"aok", "techniker", "tk ", "barmer", "dak", "ikk", "bkk", "kkh",
			"hek", "hkk", "knappschaft", "sbk", "viactiv", "securvita",
			"mobil krankenkasse", "pronova", "big direkt", "salus",
			"debeka", "allianz", "axa", "continentale", "hanseatische",
		},
		InsuranceTerms: []string{
			"krankenkasse", "krankenversicherung", "versicherung", "kasse",
		},
		Stoplist: []string{
			"europäische krankenversicherungskarte",
			"european health insurance card",
			"elektronische gesundheitskarte",
			"gesundheitskarte",
			"krankenversichertenkarte",
			"versichertenkarte",
			"bundesrepublik deutschland",
			"deutschland",
			"versicherten-nr",
			"versichertennummer",
			"geburtsdatum",
			"gültig bis",
			"ausstellungsdatum",
			"kennnummer",
		},
		NumberPatterns: []string{
			`[A-Z][\s.]?\d(?:[\s.]?\d){8}`,
			`\d(?:[\s.]?\d){9}`,
		},
		Sentinel: "Nicht erkannt",
	}
	if err := v.compile(); err != nil {
		// built-in patterns are constants; a failure here is a programming error
		panic(err)
	}
	return v
}

// LoadVocabulary reads a JSON vocabulary file. Empty fields fall back to the
// built-in defaults so a file may override only what it needs.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	var v Vocabulary
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	def := DefaultVocabulary()
	if len(v.InsurerFragments) == 0 {
		v.InsurerFragments = def.InsurerFragments
	}
	if len(v.InsuranceTerms) == 0 {
		v.InsuranceTerms = def.InsuranceTerms
	}
	if len(v.Stoplist) == 0 {
		v.Stoplist = def.Stoplist
	}
	if len(v.NumberPatterns) == 0 {
		v.NumberPatterns = def.NumberPatterns
	}
	if v.Sentinel == "" {
		v.Sentinel = def.Sentinel
	}
	if err := v.compile(); err != nil {
		return nil, err
	}
	return &v, nil
}

func (v *Vocabulary) compile() error {
	v.numberREs = v.numberREs[:0]
	for _, p := range v.NumberPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("compile number pattern %q: %w", p, err)
		}
		v.numberREs = append(v.numberREs, re)
	}
	return nil
}

// stoplisted reports whether a line is (or contains) known boilerplate.
func (v *Vocabulary) stoplisted(line string) bool {
	low := strings.ToLower(strings.TrimSpace(line))
	for _, s := range v.Stoplist {
		if strings.Contains(low, s) {
			return true
		}
	}
	return false
}

// insurerSignal reports whether the text mentions a known insurer fragment
// or a generic insurance term.
func (v *Vocabulary) insurerSignal(text string) bool {
	low := strings.ToLower(text)
	for _, f := range v.InsurerFragments {
		if strings.Contains(low, f) {
			return true
		}
	}
	for _, t := range v.InsuranceTerms {
		if strings.Contains(low, t) {
			return true
		}
	}
	return false
}
