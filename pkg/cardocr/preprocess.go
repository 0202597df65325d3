package cardocr

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/disintegration/imaging"
)

// PreprocessedVariant is one independently filtered rendition of the source
// image. Variants are request-scoped and discarded after extraction.
type PreprocessedVariant struct {
	Label string
	Image image.Image
}

// minWorkWidth is the width variants are upscaled to before filtering; card
// photos below it rarely carry enough pixels per glyph for Tesseract.
const minWorkWidth = 1000

type strategy struct {
	label string
	apply func(image.Image) image.Image
}

var strategies = []strategy{
	{"baseline", applyBaseline},
	{"high_contrast", applyHighContrast},
	{"morphology", applyMorphology},
	{"edge_enhance", applyEdgeEnhance},
	{"conservative", applyConservative},
}

// buildVariants runs every preprocessing strategy over the source image.
// Strategies are fully independent: one failing (panicking) is logged and
// omitted without touching the others. If every strategy fails the raw
// source image is returned as the single variant so OCR can still run.
func buildVariants(src image.Image) []PreprocessedVariant {
	out := make([]PreprocessedVariant, 0, len(strategies))
	for _, st := range strategies {
		if img, err := applySafely(st, src); err != nil {
			log.Printf("preprocess %s failed: %v", st.label, err)
		} else {
			out = append(out, PreprocessedVariant{Label: st.label, Image: img})
		}
	}
	if len(out) == 0 {
		log.Printf("all preprocessing strategies failed, falling back to raw image")
		out = append(out, PreprocessedVariant{Label: "raw", Image: src})
	}
	return out
}

func applySafely(st strategy, src image.Image) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	img = st.apply(src)
	if img == nil {
		return nil, fmt.Errorf("strategy returned nil image")
	}
	return img, nil
}

// applyBaseline is the general-purpose pipeline: upscale, denoise, local
// contrast, adaptive threshold, light close/open, then sharpen.
func applyBaseline(src image.Image) image.Image {
	g := ensureMinWidth(imaging.Grayscale(src))
	g = imaging.Blur(g, 0.6)
	g = imaging.AdjustContrast(g, 15)
	bin := adaptiveThreshold(g, 15, 7)
	bin = dilate(bin, 1)
	bin = erode(bin, 1)
	out := imaging.Sharpen(bin, 0.7)
	return imaging.AdjustContrast(out, 10)
}

// applyHighContrast stretches contrast hard before thresholding; wins on
// washed-out, evenly lit photos.
func applyHighContrast(src image.Image) image.Image {
	g := ensureMinWidth(imaging.Grayscale(src))
	g = imaging.AdjustContrast(g, 60)
	g = imaging.Sharpen(g, 2.0)
	return adaptiveThreshold(g, 21, 10)
}

// applyMorphology denoises aggressively, thresholds globally via Otsu and
// cleans speckle with close-then-open.
func applyMorphology(src image.Image) image.Image {
	g := ensureMinWidth(imaging.Grayscale(src))
	g = imaging.Blur(g, 1.2)
	bin := binarize(g, otsuLevel(g))
	bin = dilate(bin, 1)
	bin = erode(bin, 2)
	return dilate(bin, 1)
}

// applyEdgeEnhance recovers low-contrast embossed or glossy text: blur,
// edge detection, dilation, then ink-OR with the blurred base.
func applyEdgeEnhance(src image.Image) image.Image {
	g := ensureMinWidth(imaging.Grayscale(src))
	base := imaging.Blur(g, 1.0)
	edges := imaging.Convolve3x3(base, [9]float64{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}, nil)
	edgeInk := dilate(binarize(imaging.Invert(edges), 200), 1)
	return binarize(orInk(edgeInk, imaging.Clone(base)), 128)
}

// applyConservative is the safety net: resize and grayscale only, for photos
// the aggressive filters would destroy.
func applyConservative(src image.Image) image.Image {
	return ensureMinWidth(imaging.Grayscale(src))
}

func ensureMinWidth(img *image.NRGBA) *image.NRGBA {
	if img.Bounds().Dx() >= minWorkWidth {
		return img
	}
	return imaging.Resize(img, minWorkWidth, 0, imaging.Lanczos)
}

// binarize performs a simple global threshold on a grayscale image.
func binarize(img image.Image, threshold uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			gray := uint8((r + g + bb) / 3 >> 8)
			var v uint8 = 255
			if gray <= threshold {
				v = 0
			}
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}

// otsuLevel picks a global threshold by maximizing between-class variance
// over the grayscale histogram.
func otsuLevel(img image.Image) uint8 {
	var hist [256]int
	b := img.Bounds()
	total := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			hist[(r+g+bb)/3>>8]++
			total++
		}
	}
	if total == 0 {
		return 128
	}
	var sum float64
	for i, c := range hist {
		sum += float64(i) * float64(c)
	}
	var sumB, wB float64
	best, bestVar := 128, -1.0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > bestVar {
			bestVar = between
			best = t
		}
	}
	return uint8(best)
}

// adaptiveThreshold performs a mean adaptive threshold using an integral
// image so large windows stay cheap.
func adaptiveThreshold(img image.Image, window int, bias int) *image.NRGBA {
	if window < 3 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	out := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
	half := window / 2
	ints := make([]int, w*h)
	for y := 0; y < h; y++ {
		rowSum := 0
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			v := int((r + g + b) / 3 >> 8)
			rowSum += v
			idx := y*w + x
			if y == 0 {
				ints[idx] = rowSum
			} else {
				ints[idx] = ints[(y-1)*w+x] + rowSum
			}
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := x-half, y-half
			x1, y1 := x+half, y+half
			if x0 < 0 {
				x0 = 0
			}
			if y0 < 0 {
				y0 = 0
			}
			if x1 >= w {
				x1 = w - 1
			}
			if y1 >= h {
				y1 = h - 1
			}
			A := ints[y0*w+x0]
			B := ints[y0*w+x1]
			C := ints[y1*w+x0]
			D := ints[y1*w+x1]
			sum := D - B - C + A
			mean := sum / ((x1 - x0 + 1) * (y1 - y0 + 1))
			rv, gv, bv, _ := img.At(x, y).RGBA()
			pix := int((rv + gv + bv) / 3 >> 8)
			th := mean - bias
			if th < 0 {
				th = 0
			}
			var c color.NRGBA
			if pix < th {
				c = color.NRGBA{0, 0, 0, 255}
			} else {
				c = color.NRGBA{255, 255, 255, 255}
			}
			out.Set(x, y, c)
		}
	}
	return out
}

// dilate performs a 4-neighborhood dilation of ink (black) pixels, radius times.
func dilate(img *image.NRGBA, radius int) *image.NRGBA {
	return morph(img, radius, true)
}

// erode performs the inverse: ink survives only where all 4-neighbors are ink.
func erode(img *image.NRGBA, radius int) *image.NRGBA {
	return morph(img, radius, false)
}

var neighborhood = [][2]int{{0, 0}, {1, 0}, {-1, 0}, {0, 1}, {0, -1}}

func morph(img *image.NRGBA, radius int, grow bool) *image.NRGBA {
	if radius <= 0 {
		return img
	}
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	cur := img
	for r := 0; r < radius; r++ {
		next := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				hits := 0
				total := 0
				for _, d := range neighborhood {
					x2 := x + d[0]
					y2 := y + d[1]
					if x2 < 0 || y2 < 0 || x2 >= w || y2 >= h {
						continue
					}
					total++
					rv, gv, bv, _ := cur.At(x2, y2).RGBA()
					if rv+gv+bv == 0 {
						hits++
					}
				}
				ink := false
				if grow {
					ink = hits > 0
				} else {
					ink = hits == total && total > 0
				}
				if ink {
					next.Set(x, y, color.NRGBA{0, 0, 0, 255})
				}
			}
		}
		cur = next
	}
	return cur
}

// orInk merges two grayscale images keeping the darker pixel, i.e. a logical
// OR over ink.
func orInk(a, b *image.NRGBA) *image.NRGBA {
	w := a.Bounds().Dx()
	h := a.Bounds().Dy()
	if bw, bh := b.Bounds().Dx(), b.Bounds().Dy(); bw < w || bh < h {
		if bw < w {
			w = bw
		}
		if bh < h {
			h = bh
		}
	}
	out := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ra, ga, ba, _ := a.At(x, y).RGBA()
			rb, gb, bb, _ := b.At(x, y).RGBA()
			va := uint8((ra + ga + ba) / 3 >> 8)
			vb := uint8((rb + gb + bb) / 3 >> 8)
			v := va
			if vb < va {
				v = vb
			}
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}
