// Package warp straightens a photographed page: it maps the quadrilateral
// marked by the user onto an axis-aligned rectangle and resamples the
// source image into it.
package warp

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/soocke/pagewarp-go/domain/geometry"
)

// Interpolation selects how source pixels are sampled.
type Interpolation int

const (
	Bilinear Interpolation = iota
	Nearest
)

// ParseInterpolation maps a config value to an Interpolation. Unknown values
// select Bilinear.
func ParseInterpolation(s string) Interpolation {
	if s == "nearest" {
		return Nearest
	}
	return Bilinear
}

func (i Interpolation) String() string {
	if i == Nearest {
		return "nearest"
	}
	return "bilinear"
}

// Options tunes Transform.
type Options struct {
	Interpolation Interpolation
}

// Result carries the straightened image and the geometry it was built from.
type Result struct {
	Image  *image.NRGBA
	Quad   geometry.Quad
	Width  float64 // unrounded output width
	Height float64 // unrounded output height
}

// Output limits. Larger quads are rejected as invalid geometry instead of
// attempting the allocation.
const (
	MaxOutputSide   = 1 << 15
	MaxOutputPixels = 1 << 28
)

// Plan validates q and returns the output size and the inverse mapping from
// output coordinates to source coordinates.
func Plan(q geometry.Quad) (w, h int, inv *geometry.Homography, err error) {
	if err := geometry.Validate(q); err != nil {
		return 0, 0, nil, err
	}
	fw, fh := q.OutputSize()
	if !(fw <= MaxOutputSide && fh <= MaxOutputSide) || fw*fh > MaxOutputPixels {
		return 0, 0, nil, &geometry.InvalidGeometryError{Reason: fmt.Sprintf("output rectangle %.0fx%.0f exceeds %dx%d or %d pixels", fw, fh, MaxOutputSide, MaxOutputSide, MaxOutputPixels)}
	}
	w, h = int(math.Round(fw)), int(math.Round(fh))
	if w <= 0 || h <= 0 {
		return 0, 0, nil, &geometry.InvalidGeometryError{Reason: "output rectangle has zero width or height"}
	}
	inv = geometry.RectToQuad(fw, fh, q)
	if !inv.Finite() || inv.Determinant() == 0 {
		return 0, 0, nil, &geometry.InvalidGeometryError{Reason: "degenerate perspective mapping"}
	}
	return w, h, inv, nil
}

// Transform straightens the region of src outlined by q (TL, TR, BR, BL,
// relative to src.Bounds().Min). The output is round(W) x round(H) where W is the
// longer of the top and bottom edges and H the longer of the left and right
// edges. Samples falling outside src replicate its border.
func Transform(src image.Image, q geometry.Quad, opts Options) (*image.NRGBA, error) {
	res, err := TransformContext(context.Background(), src, q, opts)
	if err != nil {
		return nil, err
	}
	return res.Image, nil
}

// TransformContext is Transform with cancellation checked once per output row.
func TransformContext(ctx context.Context, src image.Image, q geometry.Quad, opts Options) (Result, error) {
	if src == nil || src.Bounds().Empty() {
		return Result{}, &geometry.InvalidGeometryError{Reason: "source image is empty"}
	}
	w, h, inv, err := Plan(q)
	if err != nil {
		return Result{}, err
	}
	fw, fh := q.OutputSize()
	s := newSampler(toNRGBA(src))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	sx, sy := fw/float64(w), fh/float64(h)

	points := make([]float64, 2*w)
	for y := 0; y < h; y++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		yValue := (float64(y) + 0.5) * sy
		for x := 0; x < len(points); x += 2 {
			points[x] = (float64(x/2) + 0.5) * sx
			points[x+1] = yValue
		}
		inv.ApplyPoints(points)
		row := dst.Pix[y*dst.Stride : y*dst.Stride+4*w]
		for x := 0; x < len(points); x += 2 {
			// pixel centres sit at +0.5; shift back to index space
			u, v := points[x]-0.5, points[x+1]-0.5
			off := 2 * x
			if opts.Interpolation == Nearest {
				s.nearest(u, v, row[off:off+4])
			} else {
				s.bilinear(u, v, row[off:off+4])
			}
		}
	}
	return Result{Image: dst, Quad: q, Width: fw, Height: fh}, nil
}

// toNRGBA returns src as an *image.NRGBA anchored at (0,0), copying only
// when needed.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(src)
}
