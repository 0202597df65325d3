package cardocr

import (
	"fmt"
	"log"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// RecognitionConfig is one language + layout assumption passed to the OCR
// engine, with a fixed reliability weight for this document type.
type RecognitionConfig struct {
	Label  string
	Lang   string
	PSM    gosseract.PageSegMode
	Weight float64
}

// segMode pairs a page-segmentation mode with its empirical weight. The
// weights are tuned, not derived; they express how much a mode's text is
// trusted when it claims to have read an insurance card.
type segMode struct {
	name   string
	psm    gosseract.PageSegMode
	weight float64
}

var segModes = []segMode{
	{"PSM 6 (uniform block)", gosseract.PSM_SINGLE_BLOCK, 1.0},
	{"PSM 3 (full auto)", gosseract.PSM_AUTO, 0.9},
	{"PSM 4 (single column)", gosseract.PSM_SINGLE_COLUMN, 0.85},
	{"PSM 7 (single line)", gosseract.PSM_SINGLE_LINE, 0.7},
	{"PSM 8 (single word)", gosseract.PSM_SINGLE_WORD, 0.5},
}

// fallbackPenalty is subtracted from a mode's weight for the secondary
// language, keeping primary-language configs weighted no lower than their
// fallback counterparts.
const fallbackPenalty = 0.1

// BuildCatalog queries the engine for installed languages and derives the
// priority-ordered configuration catalog. German is preferred, English is
// the fallback; with neither installed the catalog runs language-agnostic.
// An unreachable engine surfaces ErrEngineUnavailable; an engine answering
// with zero languages surfaces ErrNoLanguages.
func BuildCatalog(e Engine) ([]RecognitionConfig, error) {
	langs, err := e.AvailableLanguages()
	if err != nil {
		return nil, err
	}
	if len(langs) == 0 {
		return nil, ErrNoLanguages
	}
	have := map[string]bool{}
	for _, l := range langs {
		have[strings.ToLower(strings.TrimSpace(l))] = true
	}

	var catalog []RecognitionConfig
	add := func(lang, tag string, penalty float64, skipWord bool) {
		for _, m := range segModes {
			if skipWord && m.psm == gosseract.PSM_SINGLE_WORD {
				continue
			}
			w := m.weight - penalty
			if w < 0.5 {
				w = 0.5
			}
			catalog = append(catalog, RecognitionConfig{
				Label:  strings.TrimSpace(tag + " " + m.name),
				Lang:   lang,
				PSM:    m.psm,
				Weight: w,
			})
		}
	}

	switch {
	case have["deu"]:
		add("deu", "DEU", 0, false)
		if have["eng"] {
			add("eng", "ENG", fallbackPenalty, true)
		}
	case have["eng"]:
		add("eng", "ENG", 0, false)
		add("", "ANY", fallbackPenalty, true)
	default:
		add("", "ANY", 0, false)
	}

	log.Printf("recognition catalog built: %d configs (languages installed: %d)", len(catalog), len(langs))
	return catalog, nil
}

// methodLabel names the winning (variant, config) pair for observability.
func methodLabel(variant, config string) string {
	return fmt.Sprintf("%s + %s", variant, config)
}
