package geometry

import (
	"fmt"
	"math"
)

// collinearEpsilon is relative to the product of the two edge lengths, so
// the check does not depend on image resolution.
const collinearEpsilon = 1e-9

// Validate checks that q can be mapped onto a rectangle: all coordinates
// finite, no three corners collinear (coincident corners count as
// collinear), convex, and wound clockwise on screen starting at the
// top-left (TL, TR, BR, BL).
func Validate(q Quad) error {
	for i, p := range q {
		if !p.finite() {
			return invalid(fmt.Sprintf("%s corner %v is not finite", Corner(i), p))
		}
	}
	triples := [4][3]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}}
	for _, t := range triples {
		a, b, c := q[t[0]], q[t[1]], q[t[2]]
		if collinear(a, b, c) {
			return invalid(fmt.Sprintf("%s, %s and %s corners are collinear", Corner(t[0]), Corner(t[1]), Corner(t[2])))
		}
	}
	var pos, neg int
	for i := range q {
		if turn(q[i], q[(i+1)%4], q[(i+2)%4]) > 0 {
			pos++
		} else {
			neg++
		}
	}
	switch {
	case pos == 4:
		return nil
	case neg == 4:
		return invalid("corners are ordered counter-clockwise; expected top-left, top-right, bottom-right, bottom-left")
	default:
		return invalid("quadrilateral is not convex")
	}
}

func collinear(a, b, c Point) bool {
	ab, ac := a.Dist(b), a.Dist(c)
	if ab == 0 || ac == 0 || b == c {
		return true
	}
	area := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	return math.Abs(area) <= collinearEpsilon*ab*ac
}
