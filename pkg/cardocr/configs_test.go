package cardocr

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildCatalogPrefersGerman(t *testing.T) {
	catalog, err := BuildCatalog(&fakeEngine{langs: []string{"eng", "deu", "fra"}})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	if len(catalog) != 9 { // 5 DEU + 4 ENG fallback
		t.Fatalf("catalog size = %d", len(catalog))
	}
	first := catalog[0]
	if first.Lang != "deu" || first.Weight != 1.0 || !strings.Contains(first.Label, "PSM 6") {
		t.Fatalf("first config = %+v", first)
	}
	// Fallback-language configs never outweigh the primary for the same mode.
	weights := map[string]float64{}
	for _, c := range catalog {
		mode := c.Label[strings.Index(c.Label, "PSM"):]
		if c.Lang == "deu" {
			weights[mode] = c.Weight
		}
	}
	for _, c := range catalog {
		if c.Lang != "eng" {
			continue
		}
		mode := c.Label[strings.Index(c.Label, "PSM"):]
		if primary, ok := weights[mode]; ok && c.Weight > primary {
			t.Fatalf("fallback %s outweighs primary: %.2f > %.2f", c.Label, c.Weight, primary)
		}
	}
}

func TestBuildCatalogEnglishFallback(t *testing.T) {
	catalog, err := BuildCatalog(&fakeEngine{langs: []string{"eng"}})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	if len(catalog) != 9 { // 5 ENG + 4 language-agnostic
		t.Fatalf("catalog size = %d", len(catalog))
	}
	if catalog[0].Lang != "eng" {
		t.Fatalf("first config lang = %q", catalog[0].Lang)
	}
}

func TestBuildCatalogLanguageAgnostic(t *testing.T) {
	catalog, err := BuildCatalog(&fakeEngine{langs: []string{"fra"}})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	if len(catalog) != 5 {
		t.Fatalf("catalog size = %d", len(catalog))
	}
	for _, c := range catalog {
		if c.Lang != "" {
			t.Fatalf("expected language-agnostic config, got %q", c.Lang)
		}
		if c.Weight < 0.5 || c.Weight > 1.0 {
			t.Fatalf("weight out of range: %+v", c)
		}
	}
}

func TestBuildCatalogZeroLanguages(t *testing.T) {
	_, err := BuildCatalog(&fakeEngine{langs: nil})
	if !errors.Is(err, ErrNoLanguages) {
		t.Fatalf("err = %v, want ErrNoLanguages", err)
	}
}

func TestBuildCatalogEngineUnavailable(t *testing.T) {
	_, err := BuildCatalog(&fakeEngine{langErr: ErrEngineUnavailable})
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("err = %v, want ErrEngineUnavailable", err)
	}
	if errors.Is(err, ErrNoLanguages) {
		t.Fatalf("the two catalog error kinds must stay distinct")
	}
}
