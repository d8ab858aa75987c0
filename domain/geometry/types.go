// Package geometry holds the planar primitives used by the page editor and
// the perspective warp: points, corner quadrilaterals and homographies.
package geometry

import (
	"fmt"
	"image"
	"math"
)

// Point is a 2D coordinate in image pixel units. The image's top-left
// pixel covers [0,1)x[0,1).
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// FromImagePoint converts an integer image.Point.
func FromImagePoint(p image.Point) Point { return Point{X: float64(p.X), Y: float64(p.Y)} }

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }
func (p Point) Dist(q Point) float64  { return math.Hypot(p.X-q.X, p.Y-q.Y) }
func (p Point) String() string        { return fmt.Sprintf("(%.1f,%.1f)", p.X, p.Y) }

// Image rounds p to the nearest integer pixel coordinate.
func (p Point) Image() image.Point { return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y))) }

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// turn is the z component of (b-a) x (c-b). With y pointing down it is
// positive for a clockwise turn on screen.
func turn(a, b, c Point) float64 {
	ab, bc := b.Sub(a), c.Sub(b)
	return ab.X*bc.Y - ab.Y*bc.X
}

// Corner indexes into a Quad. Corners are ordered clockwise on screen
// (y pointing down) starting at the top-left.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomRight:
		return "bottom-right"
	case BottomLeft:
		return "bottom-left"
	default:
		return "unknown"
	}
}

// Quad is the page boundary: four corners in TL, TR, BR, BL order.
type Quad [4]Point

// RectQuad returns the quad covering r exactly.
func RectQuad(r image.Rectangle) Quad {
	x0, y0 := float64(r.Min.X), float64(r.Min.Y)
	x1, y1 := float64(r.Max.X), float64(r.Max.Y)
	return Quad{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// OutputSize returns the rectangle the quad is straightened into: the longer
// of the top/bottom edges as width and the longer of the left/right edges as
// height.
func (q Quad) OutputSize() (w, h float64) {
	w = math.Max(q[TopLeft].Dist(q[TopRight]), q[BottomLeft].Dist(q[BottomRight]))
	h = math.Max(q[TopLeft].Dist(q[BottomLeft]), q[TopRight].Dist(q[BottomRight]))
	return w, h
}

// Bounds returns the smallest integer rectangle containing all corners.
func (q Quad) Bounds() image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range q {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}
