package cardocr

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// DebugSink receives intermediate artifacts during extraction. The core
// never writes files on its own; a sink is strictly optional and the
// pipeline stays pure without one.
type DebugSink interface {
	Variant(label string, img image.Image)
	Attempt(a Attempt)
}

// DirSink dumps every preprocessed variant as a PNG and logs per-attempt
// scores. Meant for troubleshooting single problem photos, not production.
type DirSink struct {
	Dir string
}

func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create debug dir: %w", err)
	}
	return &DirSink{Dir: dir}, nil
}

func (d *DirSink) Variant(label string, img image.Image) {
	out := filepath.Join(d.Dir, label+".png")
	if err := imaging.Save(img, out); err != nil {
		log.Printf("debug: save variant %s: %v", label, err)
	}
}

func (d *DirSink) Attempt(a Attempt) {
	log.Printf("debug: attempt %s + %s base=%.3f weighted=%.3f len=%d text=%q",
		a.VariantLabel, a.ConfigLabel, a.BaseConfidence, a.WeightedScore, a.TextLength, snippet(a.RawText, 120))
}
