package cardocr

import "testing"

func TestValidateResetsInvalidNumber(t *testing.T) {
	v := DefaultVocabulary()
	f, dq := validateFields(ExtractedFields{
		Name:             v.Sentinel,
		InsuranceNumber:  "A12345678", // one digit short
		InsuranceCompany: v.Sentinel,
	}, v)
	if f.InsuranceNumber != v.Sentinel {
		t.Fatalf("invalid number kept: %q", f.InsuranceNumber)
	}
	if dq != 0 {
		t.Fatalf("data quality = %.2f, want 0", dq)
	}
}

func TestValidateRepairsNameConfusions(t *testing.T) {
	v := DefaultVocabulary()
	f, _ := validateFields(ExtractedFields{
		Name:             "MAX MU5TERMANN",
		InsuranceNumber:  v.Sentinel,
		InsuranceCompany: v.Sentinel,
	}, v)
	if f.Name != "Max Mustermann" {
		t.Fatalf("name = %q", f.Name)
	}
}

func TestValidateTitleCasesHyphenated(t *testing.T) {
	v := DefaultVocabulary()
	f, _ := validateFields(ExtractedFields{
		Name:             "anna-lena Schmidt",
		InsuranceNumber:  v.Sentinel,
		InsuranceCompany: v.Sentinel,
	}, v)
	if f.Name != "Anna-Lena Schmidt" {
		t.Fatalf("name = %q", f.Name)
	}
}

func TestValidateRejectsShortInsurer(t *testing.T) {
	v := DefaultVocabulary()
	f, _ := validateFields(ExtractedFields{
		Name:             v.Sentinel,
		InsuranceNumber:  v.Sentinel,
		InsuranceCompany: "TK",
	}, v)
	if f.InsuranceCompany != v.Sentinel {
		t.Fatalf("two-character insurer kept: %q", f.InsuranceCompany)
	}
}

func TestValidateDataQualityWeights(t *testing.T) {
	v := DefaultVocabulary()
	_, dq := validateFields(ExtractedFields{
		Name:             "Max Mustermann",
		InsuranceNumber:  "A123456789",
		InsuranceCompany: "AOK Bayern",
	}, v)
	if dq != 1.0 {
		t.Fatalf("all fields valid, data quality = %.2f", dq)
	}
	_, dqNum := validateFields(ExtractedFields{
		Name:             v.Sentinel,
		InsuranceNumber:  "A123456789",
		InsuranceCompany: v.Sentinel,
	}, v)
	_, dqName := validateFields(ExtractedFields{
		Name:             "Max Mustermann",
		InsuranceNumber:  v.Sentinel,
		InsuranceCompany: v.Sentinel,
	}, v)
	if dqNum <= dqName {
		t.Fatalf("number must dominate data quality: number=%.2f name=%.2f", dqNum, dqName)
	}
}

func TestFinalConfidenceBlendAndCap(t *testing.T) {
	o := Options{}
	o.fillDefaults()
	if got := finalConfidence(0.5, 0.5, o); got < 0.499 || got > 0.501 {
		t.Fatalf("blend = %.3f, want 0.5", got)
	}
	if got := finalConfidence(1.0, 1.0, o); got != o.ConfidenceCap {
		t.Fatalf("cap not applied: %.3f", got)
	}
}
