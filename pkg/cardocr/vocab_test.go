package cardocr

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultVocabularyCompiles(t *testing.T) {
	v := DefaultVocabulary()
	if len(v.numberREs) == 0 {
		t.Fatalf("no number patterns compiled")
	}
	if v.Sentinel == "" {
		t.Fatalf("empty sentinel")
	}
}

func TestLoadVocabularyOverridesAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.json")
	content := `{"sentinel": "unbekannt", "insurer_fragments": ["musterkasse"]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write vocab: %v", err)
	}
	v, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("load vocab: %v", err)
	}
	if v.Sentinel != "unbekannt" {
		t.Fatalf("sentinel = %q", v.Sentinel)
	}
	if len(v.InsurerFragments) != 1 || v.InsurerFragments[0] != "musterkasse" {
		t.Fatalf("fragments = %v", v.InsurerFragments)
	}
	if len(v.Stoplist) == 0 || len(v.NumberPatterns) == 0 {
		t.Fatalf("defaults not merged for unset fields")
	}
}

func TestLoadVocabularyBadPattern(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.json")
	if err := os.WriteFile(path, []byte(`{"number_patterns": ["["]}`), 0o644); err != nil {
		t.Fatalf("write vocab: %v", err)
	}
	if _, err := LoadVocabulary(path); err == nil {
		t.Fatalf("expected compile error for bad pattern")
	}
}

func TestLoadVocabularyMissingFile(t *testing.T) {
	if _, err := LoadVocabulary("/nonexistent/vocab.json"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestStoplistedIsSubstringMatch(t *testing.T) {
	v := DefaultVocabulary()
	if !v.stoplisted("  EUROPÄISCHE KRANKENVERSICHERUNGSKARTE  ") {
		t.Fatalf("header not stoplisted")
	}
	if v.stoplisted("Max Mustermann") {
		t.Fatalf("name wrongly stoplisted")
	}
}
