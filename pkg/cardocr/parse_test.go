package cardocr

import "testing"

func TestParseNumberWithSeparators(t *testing.T) {
	v := DefaultVocabulary()
	f := parseFields("Versicherten-Nr. A 123 456 789", v)
	if f.InsuranceNumber != "A123456789" {
		t.Fatalf("number = %q", f.InsuranceNumber)
	}
}

func TestParseTenDigitNumber(t *testing.T) {
	v := DefaultVocabulary()
	f := parseFields("Kennung\n1234567890", v)
	if f.InsuranceNumber != "1234567890" {
		t.Fatalf("number = %q", f.InsuranceNumber)
	}
}

func TestParseRejectsShortNumber(t *testing.T) {
	v := DefaultVocabulary()
	f := parseFields("A12345678", v) // 8 digits only
	if f.InsuranceNumber != v.Sentinel {
		t.Fatalf("short number accepted: %q", f.InsuranceNumber)
	}
}

func TestParseInsurerByFragment(t *testing.T) {
	v := DefaultVocabulary()
	f := parseFields("AOK Bayern", v)
	if f.InsuranceCompany != "AOK Bayern" {
		t.Fatalf("company = %q", f.InsuranceCompany)
	}
}

func TestParseInsurerByGenericTerm(t *testing.T) {
	v := DefaultVocabulary()
	f := parseFields("Muster Krankenkasse", v)
	if f.InsuranceCompany != "Muster Krankenkasse" {
		t.Fatalf("company = %q", f.InsuranceCompany)
	}
}

func TestParseBoilerplateNeverClaimed(t *testing.T) {
	v := DefaultVocabulary()
	f := parseFields("Europäische Krankenversicherungskarte\nBundesrepublik Deutschland", v)
	if f.InsuranceCompany != v.Sentinel {
		t.Fatalf("boilerplate claimed as insurer: %q", f.InsuranceCompany)
	}
	if f.Name != v.Sentinel {
		t.Fatalf("boilerplate claimed as name: %q", f.Name)
	}
}

func TestParseNameLine(t *testing.T) {
	v := DefaultVocabulary()
	f := parseFields("Max Mustermann", v)
	if f.Name != "Max Mustermann" {
		t.Fatalf("name = %q", f.Name)
	}
}

func TestParseNameRequiresCapital(t *testing.T) {
	v := DefaultVocabulary()
	f := parseFields("max mustermann", v)
	if f.Name != v.Sentinel {
		t.Fatalf("all-lowercase line accepted as name: %q", f.Name)
	}
}

func TestParseNameFromTokens(t *testing.T) {
	v := DefaultVocabulary()
	f := parseFields("Versichertenkarte\nMax\nMustermann", v)
	if f.Name != "Max Mustermann" {
		t.Fatalf("token fallback name = %q", f.Name)
	}
}

func TestParseNameFromLinePair(t *testing.T) {
	v := DefaultVocabulary()
	// All caps defeats the title-case token pass; the adjacent-pair pass
	// should still assemble the name.
	f := parseFields("MAX\nMUSTERMANN", v)
	if f.Name != "MAX MUSTERMANN" {
		t.Fatalf("pair fallback name = %q", f.Name)
	}
}

func TestParsePriorityPerLine(t *testing.T) {
	v := DefaultVocabulary()
	// A line holding a member number must be claimed by the number, not
	// considered for lower-priority fields.
	f := parseFields("A123456789\nMax Mustermann\nAOK Bayern", v)
	if f.InsuranceNumber != "A123456789" || f.Name != "Max Mustermann" || f.InsuranceCompany != "AOK Bayern" {
		t.Fatalf("fields = %+v", f)
	}
}

func TestParseEmptyTextAllSentinels(t *testing.T) {
	v := DefaultVocabulary()
	f := parseFields("", v)
	if f.Name != v.Sentinel || f.InsuranceNumber != v.Sentinel || f.InsuranceCompany != v.Sentinel {
		t.Fatalf("fields = %+v", f)
	}
}
