package images

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// OverlayStyle controls how the editing overlay is drawn.
type OverlayStyle struct {
	QuadColor    color.Color
	CornerColor  color.Color
	ActiveColor  color.Color
	GridColor    color.Color
	LockedColor  color.Color
	LineWidth    float64
	MarkerRadius float64
}

// DefaultOverlayStyle matches the editor defaults: red outline, blue corner
// markers of radius 10 and green gridlines.
func DefaultOverlayStyle() OverlayStyle {
	return OverlayStyle{
		QuadColor:    color.NRGBA{R: 255, A: 255},
		CornerColor:  color.NRGBA{B: 255, A: 220},
		ActiveColor:  color.NRGBA{R: 255, G: 165, A: 230},
		GridColor:    color.NRGBA{G: 200, A: 220},
		LockedColor:  color.NRGBA{R: 120, G: 120, B: 120, A: 220},
		LineWidth:    2,
		MarkerRadius: 10,
	}
}

// Segment is a line in display pixels.
type Segment struct {
	From, To image.Point
}

// Overlay describes everything drawn over the preview, in display pixels.
type Overlay struct {
	Corners     []image.Point // polygon, closed back to the first point
	Active      int           // index of the corner being dragged, -1 for none
	Grid        []Segment
	GridLocked  bool
	ShowCorners bool
}

// DrawOverlay rasterises o onto dst with anti-aliased strokes.
func DrawOverlay(dst *image.NRGBA, o Overlay, st OverlayStyle) {
	if dst == nil {
		return
	}
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	fill := func(c color.Color) {
		z.DrawOp = draw.Over
		z.Draw(dst, b, image.NewUniform(c), image.Point{})
		z.Reset(b.Dx(), b.Dy())
	}
	origin := b.Min

	if len(o.Grid) > 0 {
		c := st.GridColor
		if o.GridLocked {
			c = st.LockedColor
		}
		for _, s := range o.Grid {
			strokeSegment(z, s.From.Sub(origin), s.To.Sub(origin), st.LineWidth)
		}
		fill(c)
	}

	if len(o.Corners) >= 2 {
		for i := range o.Corners {
			a := o.Corners[i].Sub(origin)
			c := o.Corners[(i+1)%len(o.Corners)].Sub(origin)
			strokeSegment(z, a, c, st.LineWidth)
		}
		fill(st.QuadColor)
	}

	if o.ShowCorners && st.MarkerRadius > 0 {
		for i, p := range o.Corners {
			if i == o.Active {
				continue
			}
			circle(z, p.Sub(origin), st.MarkerRadius)
		}
		fill(st.CornerColor)
		if o.Active >= 0 && o.Active < len(o.Corners) {
			circle(z, o.Corners[o.Active].Sub(origin), st.MarkerRadius)
			fill(st.ActiveColor)
		}
	}
}

// strokeSegment adds a w-wide rectangle covering a..b to the path.
func strokeSegment(z *vector.Rasterizer, a, b image.Point, w float64) {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*w/2, dx/l*w/2
	ax, ay := float64(a.X), float64(a.Y)
	bx, by := float64(b.X), float64(b.Y)
	z.MoveTo(float32(ax+nx), float32(ay+ny))
	z.LineTo(float32(bx+nx), float32(by+ny))
	z.LineTo(float32(bx-nx), float32(by-ny))
	z.LineTo(float32(ax-nx), float32(ay-ny))
	z.ClosePath()
}

const circleSegments = 32

func circle(z *vector.Rasterizer, c image.Point, r float64) {
	cx, cy := float64(c.X), float64(c.Y)
	z.MoveTo(float32(cx+r), float32(cy))
	for i := 1; i < circleSegments; i++ {
		a := 2 * math.Pi * float64(i) / circleSegments
		z.LineTo(float32(cx+r*math.Cos(a)), float32(cy+r*math.Sin(a)))
	}
	z.ClosePath()
}
