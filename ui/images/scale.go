package images

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

// EncodePNG encodes an image to PNG bytes for Tk photo images. Errors are
// ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = imaging.Encode(&buf, img, imaging.PNG)
	return buf.Bytes()
}

// ScaleToFit returns a copy of src scaled so it fits within maxW x maxH while
// preserving aspect ratio. Images that already fit are copied unscaled, so
// the result can always be drawn on without touching src.
func ScaleToFit(src image.Image, maxW, maxH int) *image.NRGBA {
	if src == nil {
		return nil
	}
	if maxW < 1 {
		maxW = 1
	}
	if maxH < 1 {
		maxH = 1
	}
	b := src.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return imaging.Clone(src)
	}
	return imaging.Fit(src, maxW, maxH, imaging.Linear)
}

// ScaleBy resizes src by a uniform factor, rounding to the nearest pixel and
// never producing an empty image.
func ScaleBy(src image.Image, scale float64) *image.NRGBA {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	if scale <= 0 || scale == 1 {
		return imaging.Clone(src)
	}
	w := max(1, int(float64(b.Dx())*scale+0.5))
	h := max(1, int(float64(b.Dy())*scale+0.5))
	return imaging.Resize(src, w, h, imaging.Linear)
}
