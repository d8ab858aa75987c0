// Package editor tracks the four draggable page corners shown over the
// loaded image.
package editor

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/soocke/pagewarp-go/domain/geometry"
)

// ErrCornerIndex is returned by MoveCorner for an index outside 0..3.
var ErrCornerIndex = errors.New("corner index out of range")

// DefaultHitRadius is the pointer distance, in display pixels, within which a
// press grabs a corner.
const DefaultHitRadius = 10

// Listener is called after every corner change with the new corners.
type Listener func(geometry.Quad)

// Editor holds the corner quadrilateral in image coordinates. Corners are not
// validated here; ordering and convexity are checked when the page is
// straightened. Not safe for concurrent use: all calls happen on the UI
// thread.
type Editor struct {
	quad      geometry.Quad
	size      image.Point
	loaded    bool
	view      Viewport
	hitRadius float64
	dragging  int // -1 when idle
	listeners []Listener
}

// New returns an editor with no image. hitRadius <= 0 selects
// DefaultHitRadius.
func New(hitRadius float64) *Editor {
	if hitRadius <= 0 {
		hitRadius = DefaultHitRadius
	}
	return &Editor{hitRadius: hitRadius, dragging: -1, view: IdentityViewport}
}

// SetHitRadius changes the press radius in display pixels; r <= 0 selects
// DefaultHitRadius.
func (e *Editor) SetHitRadius(r float64) {
	if r <= 0 {
		r = DefaultHitRadius
	}
	e.hitRadius = r
}

// AddListener registers fn for corner changes.
func (e *Editor) AddListener(fn Listener) {
	if fn != nil {
		e.listeners = append(e.listeners, fn)
	}
}

// SetImage resets the corners to the bounds of an image of the given size.
func (e *Editor) SetImage(size image.Point) {
	e.size = size
	e.loaded = size.X > 0 && size.Y > 0
	e.dragging = -1
	e.quad = geometry.RectQuad(image.Rectangle{Max: size})
	e.notify()
}

// Reset moves the corners back to the image bounds.
func (e *Editor) Reset() { e.SetImage(e.size) }

// Loaded reports whether an image has been set.
func (e *Editor) Loaded() bool { return e.loaded }

// ImageSize returns the size passed to SetImage.
func (e *Editor) ImageSize() image.Point { return e.size }

// Corners returns a copy of the current corners (TL, TR, BR, BL).
func (e *Editor) Corners() geometry.Quad { return e.quad }

// MoveCorner sets corner i to p (image coordinates). The other corners are
// left untouched.
func (e *Editor) MoveCorner(i int, p geometry.Point) error {
	if i < 0 || i >= len(e.quad) {
		return fmt.Errorf("%w: %d", ErrCornerIndex, i)
	}
	e.quad[i] = p
	e.notify()
	return nil
}

// SetViewport updates the display mapping used by hit-testing and dragging.
func (e *Editor) SetViewport(v Viewport) { e.view = v }

// Viewport returns the current display mapping.
func (e *Editor) Viewport() Viewport { return e.view }

// HitTest returns the corner nearest to the display point p if it lies within
// the hit radius.
func (e *Editor) HitTest(p geometry.Point) (int, bool) {
	if !e.loaded {
		return -1, false
	}
	best, bestDist := -1, math.Inf(1)
	for i, c := range e.quad {
		d := e.view.ToDisplay(c).Dist(p)
		if d <= e.hitRadius && d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

// Press starts dragging the corner under display point p. It reports whether
// a corner was grabbed.
func (e *Editor) Press(p geometry.Point) bool {
	i, ok := e.HitTest(p)
	if !ok {
		e.dragging = -1
		return false
	}
	e.dragging = i
	return true
}

// Drag moves the grabbed corner to display point p. It reports whether a
// corner moved.
func (e *Editor) Drag(p geometry.Point) bool {
	if e.dragging < 0 {
		return false
	}
	_ = e.MoveCorner(e.dragging, e.view.ToImage(p))
	return true
}

// Release ends any drag in progress.
func (e *Editor) Release() { e.dragging = -1 }

// Dragging returns the corner being dragged, if any.
func (e *Editor) Dragging() (int, bool) { return e.dragging, e.dragging >= 0 }

func (e *Editor) notify() {
	for _, fn := range e.listeners {
		fn(e.quad)
	}
}
