package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/soocke/pagewarp-go/domain/geometry"
)

// parseCorners reads "x,y x,y x,y x,y" in top-left, top-right, bottom-right,
// bottom-left order.
func parseCorners(s string) (geometry.Quad, error) {
	var q geometry.Quad
	fields := strings.Fields(s)
	if len(fields) != len(q) {
		return q, fmt.Errorf("corners: want 4 points, got %d", len(fields))
	}
	for i, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return q, fmt.Errorf("corners: %s point %q is not x,y", geometry.Corner(i), f)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return q, fmt.Errorf("corners: %s x: %w", geometry.Corner(i), err)
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return q, fmt.Errorf("corners: %s y: %w", geometry.Corner(i), err)
		}
		q[i] = geometry.Pt(x, y)
	}
	return q, nil
}
