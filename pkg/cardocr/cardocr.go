// Package cardocr extracts cardholder name, member number and insurer name
// from photographed German health-insurance cards. Because no single filter
// or engine configuration survives real-world lighting and skew, it runs an
// exhaustive search over preprocessing variants x recognition configs,
// scores every attempt and parses the winner into validated fields.
package cardocr

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/disintegration/imaging"
)

// Options tunes the pipeline. The scoring constants are empirically tuned
// defaults; they are exposed rather than buried so a deployment can adjust
// them without a rebuild.
type Options struct {
	// BaseBlend and DataBlend weight OCR text quality vs. field data quality
	// in the final confidence. Defaults 0.6 / 0.4.
	BaseBlend float64
	DataBlend float64
	// ConfidenceCap bounds the final confidence below 1.0. Default 0.95.
	ConfidenceCap float64
	// Parallelism > 1 runs attempts on a bounded worker group. Selection
	// stays deterministic either way.
	Parallelism int
	// Vocab overrides the built-in German vocabulary.
	Vocab *Vocabulary
	// Debug receives variant images and attempt scores when set.
	Debug DebugSink
}

func (o *Options) fillDefaults() {
	if o.BaseBlend == 0 && o.DataBlend == 0 {
		o.BaseBlend = 0.6
		o.DataBlend = 0.4
	}
	if o.ConfidenceCap == 0 {
		o.ConfidenceCap = 0.95
	}
	if o.Vocab == nil {
		o.Vocab = DefaultVocabulary()
	}
}

// Scanner runs card extractions against one OCR engine. The recognition
// catalog is discovered from the engine once, on first use, then reused.
type Scanner struct {
	engine Engine
	opts   Options

	catalogOnce sync.Once
	catalog     []RecognitionConfig
	catalogErr  error
}

// NewScanner builds a Scanner around the given engine.
func NewScanner(engine Engine, opts Options) *Scanner {
	opts.fillDefaults()
	return &Scanner{engine: engine, opts: opts}
}

// Catalog returns the cached recognition config catalog, building it on
// first call via the engine's capability query.
func (s *Scanner) Catalog() ([]RecognitionConfig, error) {
	s.catalogOnce.Do(func() {
		s.catalog, s.catalogErr = BuildCatalog(s.engine)
	})
	return s.catalog, s.catalogErr
}

// ExtractionResult is the sole externally visible artifact of an extraction.
type ExtractionResult struct {
	Success           bool             `json:"success"`
	Data              *ExtractedFields `json:"data,omitempty"`
	Error             string           `json:"error,omitempty"`
	Confidence        float64          `json:"confidence"`
	RawText           string           `json:"raw_text,omitempty"`
	OCRAttempts       int              `json:"ocr_attempts"`
	TotalCombinations int              `json:"total_combinations"`
	BestMethod        string           `json:"best_method,omitempty"`
	DebugInfo         map[string]any   `json:"debug_info,omitempty"`
}

func failure(msg string, total int) ExtractionResult {
	return ExtractionResult{
		Error:             msg,
		TotalCombinations: total,
		DebugInfo:         map[string]any{"combinations_tried": total},
	}
}

// Classify runs the cheap pre-OCR gate on raw image bytes. Advisory only;
// Extract does not consult it.
func (s *Scanner) Classify(data []byte) CardClassification {
	return Classify(data)
}

// Extract runs the full pipeline on raw image bytes. It never panics and
// never returns a Go error: every outcome, including total failure, is a
// structured ExtractionResult.
func (s *Scanner) Extract(data []byte) ExtractionResult {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return failure(fmt.Sprintf("decode image: %v", err), 0)
	}
	b := img.Bounds()
	if b.Dx() < minCardDim || b.Dy() < minCardDim {
		return failure(fmt.Sprintf("image too small: %dx%d (minimum %dx%d)",
			b.Dx(), b.Dy(), minCardDim, minCardDim), 0)
	}

	catalog, err := s.Catalog()
	if err != nil {
		return failure(fmt.Sprintf("recognition catalog: %v", err), 0)
	}

	variants := buildVariants(img)
	if s.opts.Debug != nil {
		for _, v := range variants {
			s.opts.Debug.Variant(v.Label, v.Image)
		}
	}
	total := len(variants) * len(catalog)

	best, succeeded, err := s.runAttempts(variants, catalog)
	if err != nil {
		if errors.Is(err, ErrEngineUnavailable) {
			return failure(fmt.Sprintf("ocr engine unavailable after %d combinations planned", total), total)
		}
		return failure(err.Error(), total)
	}
	if best == nil {
		return failure(fmt.Sprintf("%v in any of %d combinations", ErrNoText, total), total)
	}

	fields := parseFields(best.RawText, s.opts.Vocab)
	fields, dataQuality := validateFields(fields, s.opts.Vocab)
	conf := finalConfidence(best.BaseConfidence, dataQuality, s.opts)
	method := methodLabel(best.VariantLabel, best.ConfigLabel)

	log.Printf("extract done method=%s attempts=%d/%d base=%.3f dq=%.2f conf=%.3f text=%q",
		method, succeeded, total, best.BaseConfidence, dataQuality, conf, snippet(best.RawText, 120))

	return ExtractionResult{
		Success:           true,
		Data:              &fields,
		Confidence:        conf,
		RawText:           best.RawText,
		OCRAttempts:       succeeded,
		TotalCombinations: total,
		BestMethod:        method,
	}
}
