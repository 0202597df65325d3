package cardocr

import (
	"errors"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Attempt is one (variant, config) OCR invocation and its scored outcome.
// Attempts are request-scoped; only the best one outlives the loop.
type Attempt struct {
	VariantLabel   string
	ConfigLabel    string
	RawText        string
	BaseConfidence float64
	WeightedScore  float64
	TextLength     int
}

// runAttempts invokes the engine for every variant x config pair and keeps
// the single attempt with the strictly highest weighted score; exact ties go
// to the earliest pair in enumeration order. Empty/whitespace results are
// skipped, recognition errors are swallowed and logged, and only an
// unavailable engine aborts the loop. Given identical inputs the outcome is
// fully deterministic, sequential or parallel.
func (s *Scanner) runAttempts(variants []PreprocessedVariant, catalog []RecognitionConfig) (*Attempt, int, error) {
	type pair struct {
		v PreprocessedVariant
		c RecognitionConfig
	}
	pairs := make([]pair, 0, len(variants)*len(catalog))
	for _, v := range variants {
		for _, c := range catalog {
			pairs = append(pairs, pair{v, c})
		}
	}

	results := make([]*Attempt, len(pairs))
	run := func(i int) error {
		p := pairs[i]
		text, err := s.engine.Recognize(p.v.Image, p.c)
		if err != nil {
			if errors.Is(err, ErrEngineUnavailable) {
				return err
			}
			log.Printf("attempt %s + %s failed: %v", p.v.Label, p.c.Label, err)
			return nil
		}
		if strings.TrimSpace(text) == "" {
			return nil
		}
		base := baseConfidence(text, s.opts.Vocab)
		results[i] = &Attempt{
			VariantLabel:   p.v.Label,
			ConfigLabel:    p.c.Label,
			RawText:        text,
			BaseConfidence: base,
			WeightedScore:  base * p.c.Weight,
			TextLength:     len(strings.TrimSpace(text)),
		}
		return nil
	}

	if s.opts.Parallelism > 1 {
		var g errgroup.Group
		g.SetLimit(s.opts.Parallelism)
		for i := range pairs {
			i := i // per-iteration copy; go directive is below 1.22
			g.Go(func() error { return run(i) })
		}
		if err := g.Wait(); err != nil {
			return nil, 0, err
		}
	} else {
		for i := range pairs {
			if err := run(i); err != nil {
				return nil, 0, err
			}
		}
	}

	// Index-ordered reduction keeps the selection deterministic regardless
	// of goroutine completion order.
	var best *Attempt
	succeeded := 0
	for _, a := range results {
		if a == nil {
			continue
		}
		succeeded++
		if s.opts.Debug != nil {
			s.opts.Debug.Attempt(*a)
		}
		if best == nil || a.WeightedScore > best.WeightedScore {
			best = a
		}
	}
	return best, succeeded, nil
}
