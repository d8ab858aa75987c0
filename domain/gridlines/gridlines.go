// Package gridlines models the adjustable table grid drawn over a
// straightened page. Horizontal lines mark row boundaries and vertical lines
// column boundaries; their endpoints can be dragged along one axis only.
package gridlines

import (
	"image"
	"math"
	"sort"

	"github.com/soocke/pagewarp-go/domain/geometry"
)

// DefaultHitRadius is the endpoint grab distance in display pixels.
const DefaultHitRadius = 5

// Orientation of a grid line.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Line is a segment between two endpoints in image coordinates.
type Line struct {
	Start, End geometry.Point
}

// Handle identifies one endpoint of one line.
type Handle struct {
	Orientation Orientation
	Line        int
	End         bool // false = Start, true = End
}

// Grid is a set of horizontal and vertical lines. Not safe for concurrent use.
type Grid struct {
	H      []Line
	V      []Line
	locked bool
	drag   *Handle
}

// New lays out rows+1 horizontal and cols+1 vertical lines evenly across
// bounds. Counts below 1 are treated as 1.
func New(bounds image.Rectangle, rows, cols int) *Grid {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	g := &Grid{}
	x0, y0 := float64(bounds.Min.X), float64(bounds.Min.Y)
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	for i := 0; i <= rows; i++ {
		y := y0 + math.Floor(float64(i)*h/float64(rows))
		g.H = append(g.H, Line{Start: geometry.Pt(x0, y), End: geometry.Pt(x0+w, y)})
	}
	for i := 0; i <= cols; i++ {
		x := x0 + math.Floor(float64(i)*w/float64(cols))
		g.V = append(g.V, Line{Start: geometry.Pt(x, y0), End: geometry.Pt(x, y0+h)})
	}
	return g
}

// Locked reports whether editing is disabled.
func (g *Grid) Locked() bool { return g != nil && g.locked }

// ToggleLock flips the lock and returns the new state. Locking cancels any
// drag in progress.
func (g *Grid) ToggleLock() bool {
	g.locked = !g.locked
	if g.locked {
		g.drag = nil
	}
	return g.locked
}

// HitTest finds the first endpoint within radius of p. Both p and radius are
// in image coordinates. Horizontal lines are checked before vertical ones.
func (g *Grid) HitTest(p geometry.Point, radius float64) (Handle, bool) {
	if g == nil || g.locked {
		return Handle{}, false
	}
	for _, set := range []struct {
		o     Orientation
		lines []Line
	}{{Horizontal, g.H}, {Vertical, g.V}} {
		for i, l := range set.lines {
			if l.Start.Dist(p) <= radius {
				return Handle{Orientation: set.o, Line: i}, true
			}
			if l.End.Dist(p) <= radius {
				return Handle{Orientation: set.o, Line: i, End: true}, true
			}
		}
	}
	return Handle{}, false
}

// Press grabs the endpoint under p, if any.
func (g *Grid) Press(p geometry.Point, radius float64) bool {
	h, ok := g.HitTest(p, radius)
	if !ok {
		g.drag = nil
		return false
	}
	g.drag = &h
	return true
}

// Drag moves the grabbed endpoint towards p: horizontal line endpoints move
// vertically only, vertical line endpoints horizontally only.
func (g *Grid) Drag(p geometry.Point) bool {
	if g == nil || g.drag == nil || g.locked {
		return false
	}
	h := *g.drag
	switch h.Orientation {
	case Horizontal:
		pt := g.endpoint(g.H, h)
		pt.Y = math.Round(p.Y)
	case Vertical:
		pt := g.endpoint(g.V, h)
		pt.X = math.Round(p.X)
	}
	return true
}

// Release ends the current drag.
func (g *Grid) Release() {
	if g != nil {
		g.drag = nil
	}
}

func (g *Grid) endpoint(lines []Line, h Handle) *geometry.Point {
	if h.End {
		return &lines[h.Line].End
	}
	return &lines[h.Line].Start
}

// ColumnEdges returns the x positions separating table columns: the interior
// vertical lines, each taken at the mean of its endpoints, sorted.
func (g *Grid) ColumnEdges() []float64 {
	if g == nil {
		return nil
	}
	return interior(g.V, func(l Line) float64 { return (l.Start.X + l.End.X) / 2 })
}

// RowEdges returns the y positions separating table rows.
func (g *Grid) RowEdges() []float64 {
	if g == nil {
		return nil
	}
	return interior(g.H, func(l Line) float64 { return (l.Start.Y + l.End.Y) / 2 })
}

func interior(lines []Line, pos func(Line) float64) []float64 {
	if len(lines) <= 2 {
		return nil
	}
	all := make([]float64, 0, len(lines))
	for _, l := range lines {
		all = append(all, pos(l))
	}
	sort.Float64s(all)
	return append([]float64(nil), all[1:len(all)-1]...)
}
