package geometry

import "math"

// Homography is a 3x3 projective transform. Coefficients follow the
// row-vector convention [x y 1] * M:
//
//	x' = (a11*x + a21*y + a31) / (a13*x + a23*y + a33)
//	y' = (a12*x + a22*y + a32) / (a13*x + a23*y + a33)
type Homography struct {
	a11, a12, a13 float64
	a21, a22, a23 float64
	a31, a32, a33 float64
}

// Identity returns the identity transform.
func Identity() *Homography { return &Homography{a11: 1, a22: 1, a33: 1} }

// QuadToQuad returns the transform mapping each corner of from onto the
// corner of to with the same index.
func QuadToQuad(from, to Quad) *Homography {
	qToS := quadToSquare(from)
	sToQ := squareToQuad(to)
	return sToQ.Times(qToS)
}

// RectToQuad maps the rectangle [0,0]-[w,0]-[w,h]-[0,h] onto q. Used as the
// inverse mapping when resampling a straightened page out of a photo.
func RectToQuad(w, h float64, q Quad) *Homography {
	return QuadToQuad(Quad{{0, 0}, {w, 0}, {w, h}, {0, h}}, q)
}

// squareToQuad maps the unit square (0,0),(1,0),(1,1),(0,1) onto q.
func squareToQuad(q Quad) *Homography {
	x0, y0 := q[0].X, q[0].Y
	x1, y1 := q[1].X, q[1].Y
	x2, y2 := q[2].X, q[2].Y
	x3, y3 := q[3].X, q[3].Y
	dx3 := x0 - x1 + x2 - x3
	dy3 := y0 - y1 + y2 - y3
	if dx3 == 0 && dy3 == 0 {
		// parallelogram: affine
		return &Homography{
			a11: x1 - x0, a21: x2 - x1, a31: x0,
			a12: y1 - y0, a22: y2 - y1, a32: y0,
			a13: 0, a23: 0, a33: 1,
		}
	}
	dx1 := x1 - x2
	dx2 := x3 - x2
	dy1 := y1 - y2
	dy2 := y3 - y2
	denominator := dx1*dy2 - dx2*dy1
	a13 := (dx3*dy2 - dx2*dy3) / denominator
	a23 := (dx1*dy3 - dx3*dy1) / denominator
	return &Homography{
		a11: x1 - x0 + a13*x1, a21: x3 - x0 + a23*x3, a31: x0,
		a12: y1 - y0 + a13*y1, a22: y3 - y0 + a23*y3, a32: y0,
		a13: a13, a23: a23, a33: 1,
	}
}

func quadToSquare(q Quad) *Homography {
	return squareToQuad(q).Adjoint()
}

// Adjoint returns the transpose of the cofactor matrix. For projective maps
// it acts as the inverse up to scale.
func (h *Homography) Adjoint() *Homography {
	return &Homography{
		a11: h.a22*h.a33 - h.a23*h.a32,
		a21: h.a23*h.a31 - h.a21*h.a33,
		a31: h.a21*h.a32 - h.a22*h.a31,
		a12: h.a13*h.a32 - h.a12*h.a33,
		a22: h.a11*h.a33 - h.a13*h.a31,
		a32: h.a12*h.a31 - h.a11*h.a32,
		a13: h.a12*h.a23 - h.a13*h.a22,
		a23: h.a13*h.a21 - h.a11*h.a23,
		a33: h.a11*h.a22 - h.a12*h.a21,
	}
}

// Times returns h * o: applying o first, then h.
func (h *Homography) Times(o *Homography) *Homography {
	return &Homography{
		a11: h.a11*o.a11 + h.a21*o.a12 + h.a31*o.a13,
		a21: h.a11*o.a21 + h.a21*o.a22 + h.a31*o.a23,
		a31: h.a11*o.a31 + h.a21*o.a32 + h.a31*o.a33,
		a12: h.a12*o.a11 + h.a22*o.a12 + h.a32*o.a13,
		a22: h.a12*o.a21 + h.a22*o.a22 + h.a32*o.a23,
		a32: h.a12*o.a31 + h.a22*o.a32 + h.a32*o.a33,
		a13: h.a13*o.a11 + h.a23*o.a12 + h.a33*o.a13,
		a23: h.a13*o.a21 + h.a23*o.a22 + h.a33*o.a23,
		a33: h.a13*o.a31 + h.a23*o.a32 + h.a33*o.a33,
	}
}

// Determinant of the 3x3 matrix. Zero means the map collapses the plane.
func (h *Homography) Determinant() float64 {
	return h.a11*(h.a22*h.a33-h.a23*h.a32) -
		h.a21*(h.a12*h.a33-h.a13*h.a32) +
		h.a31*(h.a12*h.a23-h.a13*h.a22)
}

// Finite reports whether every coefficient is a finite number.
func (h *Homography) Finite() bool {
	for _, v := range [...]float64{h.a11, h.a12, h.a13, h.a21, h.a22, h.a23, h.a31, h.a32, h.a33} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Apply maps a single point.
func (h *Homography) Apply(p Point) Point {
	d := h.a13*p.X + h.a23*p.Y + h.a33
	return Point{
		X: (h.a11*p.X + h.a21*p.Y + h.a31) / d,
		Y: (h.a12*p.X + h.a22*p.Y + h.a32) / d,
	}
}

// ApplyPoints transforms interleaved (x, y) pairs in place.
// points must have even length: [x0, y0, x1, y1, ...].
func (h *Homography) ApplyPoints(points []float64) {
	maxI := len(points) - 1
	for i := 0; i < maxI; i += 2 {
		x := points[i]
		y := points[i+1]
		d := h.a13*x + h.a23*y + h.a33
		points[i] = (h.a11*x + h.a21*y + h.a31) / d
		points[i+1] = (h.a12*x + h.a22*y + h.a32) / d
	}
}
