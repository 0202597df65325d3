package cardocr

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Engine is the OCR collaborator contract: one preprocessed image plus one
// recognition configuration in, recognized text out. Implementations must
// wrap a broken/unreachable engine in ErrEngineUnavailable; any other error
// is treated as recoverable for that single attempt.
type Engine interface {
	Recognize(img image.Image, cfg RecognitionConfig) (string, error)
	AvailableLanguages() ([]string, error)
}

// TesseractEngine is the default Engine backed by gosseract. A fresh client
// is created per call; gosseract clients are not safe for concurrent reuse.
type TesseractEngine struct{}

// NewTesseractEngine constructs the Tesseract-backed engine.
func NewTesseractEngine() *TesseractEngine { return &TesseractEngine{} }

func (e *TesseractEngine) Recognize(img image.Image, cfg RecognitionConfig) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode variant: %w", err)
	}
	client := gosseract.NewClient()
	defer client.Close()
	if cfg.Lang != "" {
		if err := client.SetLanguage(cfg.Lang); err != nil {
			return "", fmt.Errorf("set language %s: %w", cfg.Lang, err)
		}
	}
	if err := client.SetPageSegMode(cfg.PSM); err != nil {
		return "", fmt.Errorf("set psm: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return text, nil
}

func (e *TesseractEngine) AvailableLanguages() ([]string, error) {
	langs, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	return langs, nil
}
