package cardocr

import "testing"

func TestBaseConfidenceEmptyText(t *testing.T) {
	v := DefaultVocabulary()
	if c := baseConfidence("   \n\t ", v); c != 0 {
		t.Fatalf("whitespace scored %.3f", c)
	}
}

func TestBaseConfidenceDomainSignals(t *testing.T) {
	v := DefaultVocabulary()
	plain := baseConfidence("some unrelated text that is fairly long", v)
	withNumber := baseConfidence("some unrelated text that is fairly long A123456789", v)
	if withNumber <= plain {
		t.Fatalf("member number did not raise confidence: %.3f vs %.3f", withNumber, plain)
	}
	withInsurer := baseConfidence("some unrelated text that is fairly long AOK", v)
	if withInsurer <= plain {
		t.Fatalf("insurer fragment did not raise confidence: %.3f vs %.3f", withInsurer, plain)
	}
}

func TestBaseConfidenceClearCard(t *testing.T) {
	v := DefaultVocabulary()
	c := baseConfidence("Max Mustermann\nA123456789\nAOK Bayern", v)
	if c < 0.8 {
		t.Fatalf("clear card text scored %.3f, want >= 0.8", c)
	}
	if c > 1.0 {
		t.Fatalf("confidence above 1.0: %.3f", c)
	}
}

func TestBaseConfidenceIndependentOfConfig(t *testing.T) {
	// Same text must always score the same; config weights are applied
	// outside this function.
	v := DefaultVocabulary()
	a := baseConfidence("Max Mustermann geb. 01.02.1990", v)
	b := baseConfidence("Max Mustermann geb. 01.02.1990", v)
	if a != b {
		t.Fatalf("scoring not deterministic: %.6f vs %.6f", a, b)
	}
}

func TestFindMemberNumberStripsSeparators(t *testing.T) {
	v := DefaultVocabulary()
	if got := findMemberNumber("Nr: A 12 34 56 789", v); got != "A123456789" {
		t.Fatalf("got %q", got)
	}
	if got := findMemberNumber("keine nummer hier", v); got != "" {
		t.Fatalf("false positive %q", got)
	}
}
