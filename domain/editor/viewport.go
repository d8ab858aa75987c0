package editor

import (
	"image"
	"math"

	"github.com/soocke/pagewarp-go/domain/geometry"
)

// Viewport maps between display coordinates (widget pixels) and image
// coordinates. The image is drawn scaled by Scale with its origin at Offset.
type Viewport struct {
	Scale  float64
	Offset geometry.Point
}

// IdentityViewport draws the image 1:1 at the widget origin.
var IdentityViewport = Viewport{Scale: 1}

// FitViewport scales an image of size img down (never up) to fit area and
// centres it.
func FitViewport(img, area image.Point) Viewport {
	if img.X <= 0 || img.Y <= 0 || area.X <= 0 || area.Y <= 0 {
		return IdentityViewport
	}
	scale := math.Min(float64(area.X)/float64(img.X), float64(area.Y)/float64(img.Y))
	if scale > 1 {
		scale = 1
	}
	w := math.Round(float64(img.X) * scale)
	h := math.Round(float64(img.Y) * scale)
	return Viewport{
		Scale:  scale,
		Offset: geometry.Pt(math.Floor((float64(area.X)-w)/2), math.Floor((float64(area.Y)-h)/2)),
	}
}

// DisplaySize returns the on-screen size of an image of size img.
func (v Viewport) DisplaySize(img image.Point) image.Point {
	s := v.scale()
	return image.Pt(int(math.Round(float64(img.X)*s)), int(math.Round(float64(img.Y)*s)))
}

// ToImage converts a display point to image coordinates.
func (v Viewport) ToImage(p geometry.Point) geometry.Point {
	return p.Sub(v.Offset).Scale(1 / v.scale())
}

// ToDisplay converts an image point to display coordinates.
func (v Viewport) ToDisplay(p geometry.Point) geometry.Point {
	return p.Scale(v.scale()).Add(v.Offset)
}

func (v Viewport) scale() float64 {
	if v.Scale <= 0 {
		return 1
	}
	return v.Scale
}
