package cardocr

import "strings"

// Data-quality weights per field. The member number dominates: it is the
// billing-critical field.
const (
	dqNumberWeight  = 0.5
	dqNameWeight    = 0.3
	dqInsurerWeight = 0.2
)

// ocrNameRepairs maps digit look-alikes OCR commonly produces inside name
// tokens back to letters. Applied before title-casing.
var ocrNameRepairs = strings.NewReplacer(
	"0", "o",
	"1", "l",
	"5", "s",
	"8", "b",
)

// validateFields re-checks every parsed field independently, repairs common
// OCR confusions in the name and resets anything implausible to the
// sentinel. Returns the cleaned fields plus the data-quality score in [0,1].
func validateFields(f ExtractedFields, v *Vocabulary) (ExtractedFields, float64) {
	quality := 0.0

	if f.InsuranceNumber != v.Sentinel {
		num := strings.ToUpper(stripSeparators(f.InsuranceNumber))
		if canonicalNumberRE.MatchString(num) {
			f.InsuranceNumber = num
			quality += dqNumberWeight
		} else {
			f.InsuranceNumber = v.Sentinel
		}
	}

	if f.Name != v.Sentinel {
		if cleaned, ok := cleanName(f.Name, v); ok {
			f.Name = cleaned
			quality += dqNameWeight
		} else {
			f.Name = v.Sentinel
		}
	}

	if f.InsuranceCompany != v.Sentinel {
		ins := strings.TrimSpace(f.InsuranceCompany)
		if len([]rune(ins)) >= 3 && !v.stoplisted(ins) {
			f.InsuranceCompany = ins
			quality += dqInsurerWeight
		} else {
			f.InsuranceCompany = v.Sentinel
		}
	}

	return f, quality
}

// cleanName repairs digit confusions inside tokens, title-cases each word
// hyphen-aware and re-validates the result against the name heuristics.
func cleanName(name string, v *Vocabulary) (string, bool) {
	words := strings.Fields(name)
	if len(words) < minNameWords || len(words) > maxNameWords {
		return "", false
	}
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = ocrNameRepairs.Replace(w)
		if !isNameWord(w) {
			return "", false
		}
		out = append(out, titleCaseWord(w))
	}
	cleaned := strings.Join(out, " ")
	if v.stoplisted(cleaned) || v.insurerSignal(cleaned) {
		return "", false
	}
	return cleaned, true
}

// finalConfidence blends OCR text quality with field data quality. Capped
// below 1.0: OCR of a photographed card is never certain.
func finalConfidence(base, dataQuality float64, o Options) float64 {
	conf := o.BaseBlend*base + o.DataBlend*dataQuality
	if conf > o.ConfidenceCap {
		conf = o.ConfidenceCap
	}
	if conf < 0 {
		conf = 0
	}
	return conf
}
