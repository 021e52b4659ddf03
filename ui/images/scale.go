package images

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestSpeed))
	return buf.Bytes()
}

// FitScale returns the factor that fits a w x h image inside maxW x maxH
// preserving aspect ratio. Images are never enlarged, so the factor is at most 1.
func FitScale(w, h, maxW, maxH int) float64 {
	if w <= 0 || h <= 0 {
		return 1
	}
	if maxW < 1 {
		maxW = 1
	}
	if maxH < 1 {
		maxH = 1
	}
	if w <= maxW && h <= maxH {
		return 1
	}
	ratio := float64(maxW) / float64(w)
	if r := float64(maxH) / float64(h); r < ratio {
		ratio = r
	}
	return ratio
}

// ScaleToFit resizes src so that it fits within maxW x maxH and returns the
// result together with the applied factor. If the source already fits it is
// returned as an *image.NRGBA copy with factor 1.
func ScaleToFit(src image.Image, maxW, maxH int) (*image.NRGBA, float64) {
	if src == nil {
		return nil, 0
	}
	b := src.Bounds()
	f := FitScale(b.Dx(), b.Dy(), maxW, maxH)
	if f == 1 {
		return imaging.Clone(src), 1
	}
	w := int(float64(b.Dx())*f + 0.5)
	h := int(float64(b.Dy())*f + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return imaging.Resize(src, w, h, imaging.Linear), f
}
