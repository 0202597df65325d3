package cardocr

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

// CardType buckets what kind of card an image plausibly shows.
type CardType string

const (
	CardTypeInsurance CardType = "insurance"
	CardTypeID        CardType = "id"
	CardTypeCredit    CardType = "credit"
	CardTypeOther     CardType = "other"
	CardTypeError     CardType = "error"
)

// CardFeatures carries the raw signals the classifier derived.
type CardFeatures struct {
	AspectRatio    float64 `json:"aspect_ratio"`
	ColorSignature string  `json:"color_signature"`
	HasTextRegions bool    `json:"has_text_regions"`
}

// CardClassification is the cheap pre-OCR gate result. It is advisory: the
// caller may run extraction regardless, but a confident non-card verdict
// lets it reject junk uploads without paying for OCR.
type CardClassification struct {
	IsTargetCard bool         `json:"is_target_card"`
	CardType     CardType     `json:"card_type"`
	Confidence   float64      `json:"confidence"`
	Features     CardFeatures `json:"features"`
	Error        string       `json:"error,omitempty"`
}

// ID-card format (ISO/IEC 7810 ID-1) lands near 1.586; photographed cards
// with slight skew stay inside this band.
const (
	aspectLow  = 1.45
	aspectHigh = 1.75

	minCardDim = 100
)

// Classify decodes raw image bytes and classifies them. Undecodable input
// yields CardTypeError.
func Classify(data []byte) CardClassification {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return CardClassification{CardType: CardTypeError, Error: "decode image: " + err.Error()}
	}
	return ClassifyImage(img)
}

// ClassifyImage classifies an already decoded image.
func ClassifyImage(img image.Image) CardClassification {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < minCardDim || h < minCardDim {
		return CardClassification{CardType: CardTypeError, Error: "image too small"}
	}

	ratio := float64(w) / float64(h)
	meanR, _, meanB := meanRGB(img)
	cool := meanB > meanR && meanB > 80
	sig := "neutral"
	if cool {
		sig = "cool-toned"
	} else if meanR > meanB && meanR > 80 {
		sig = "warm-toned"
	}

	hasText := edgeDensity(img) > 0.015

	cls := CardClassification{
		Features: CardFeatures{
			AspectRatio:    ratio,
			ColorSignature: sig,
			HasTextRegions: hasText,
		},
	}

	inBand := ratio >= aspectLow && ratio <= aspectHigh
	switch {
	case inBand && cool && hasText:
		cls.IsTargetCard = true
		cls.CardType = CardTypeInsurance
		cls.Confidence = 0.8
	case inBand && hasText:
		cls.CardType = CardTypeID
		cls.Confidence = 0.5
	case inBand:
		cls.CardType = CardTypeCredit
		cls.Confidence = 0.4
	default:
		cls.CardType = CardTypeOther
		cls.Confidence = 0.3
	}
	return cls
}

// meanRGB samples the image on a coarse grid; exact means are not needed
// for a coarse color signature.
func meanRGB(img image.Image) (r, g, b float64) {
	bounds := img.Bounds()
	step := bounds.Dx() / 64
	if step < 1 {
		step = 1
	}
	var n float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			pr, pg, pb, _ := img.At(x, y).RGBA()
			r += float64(pr >> 8)
			g += float64(pg >> 8)
			b += float64(pb >> 8)
			n++
		}
	}
	if n == 0 {
		return 0, 0, 0
	}
	return r / n, g / n, b / n
}

// edgeDensity is a cheap stand-in for "contains text": the fraction of
// sampled horizontal neighbor pairs with a strong luminance jump.
func edgeDensity(img image.Image) float64 {
	bounds := img.Bounds()
	stepY := bounds.Dy() / 128
	if stepY < 1 {
		stepY = 1
	}
	var edges, total float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		prev := -1
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			lum := int((r + g + b) / 3 >> 8)
			if prev >= 0 {
				total++
				if lum-prev > 40 || prev-lum > 40 {
					edges++
				}
			}
			prev = lum
		}
	}
	if total == 0 {
		return 0
	}
	return edges / total
}
