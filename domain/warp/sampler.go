package warp

import (
	"image"
	"math"
)

// sampler reads NRGBA pixels with coordinates clamped to the valid range,
// which replicates the border for samples outside the image.
type sampler struct {
	pix    []uint8
	stride int
	maxX   int
	maxY   int
}

func newSampler(img *image.NRGBA) *sampler {
	b := img.Bounds()
	return &sampler{pix: img.Pix, stride: img.Stride, maxX: b.Dx() - 1, maxY: b.Dy() - 1}
}

func clampInt(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *sampler) at(x, y int) []uint8 {
	off := clampInt(y, s.maxY)*s.stride + clampInt(x, s.maxX)*4
	return s.pix[off : off+4]
}

func (s *sampler) nearest(u, v float64, out []uint8) {
	copy(out, s.at(int(math.Floor(u+0.5)), int(math.Floor(v+0.5))))
}

func (s *sampler) bilinear(u, v float64, out []uint8) {
	// clamp before splitting so out-of-range samples take the edge value
	u = math.Max(0, math.Min(u, float64(s.maxX)))
	v = math.Max(0, math.Min(v, float64(s.maxY)))
	x0, y0 := int(u), int(v)
	fx, fy := u-float64(x0), v-float64(y0)
	p00 := s.at(x0, y0)
	p10 := s.at(x0+1, y0)
	p01 := s.at(x0, y0+1)
	p11 := s.at(x0+1, y0+1)
	px := [4][]uint8{p00, p10, p01, p11}
	wt := [4]float64{(1 - fx) * (1 - fy), fx * (1 - fy), (1 - fx) * fy, fx * fy}
	// blend colour premultiplied by alpha so transparent neighbours do not
	// tint the result, then divide back to straight alpha
	var acc [3]float64
	var alpha float64
	for i, p := range px {
		a := wt[i] * float64(p[3])
		alpha += a
		for c := 0; c < 3; c++ {
			acc[c] += a * float64(p[c])
		}
	}
	if alpha <= 0 {
		out[0], out[1], out[2], out[3] = 0, 0, 0, 0
		return
	}
	for c := 0; c < 3; c++ {
		out[c] = toByte(acc[c] / alpha)
	}
	out[3] = toByte(alpha)
}

func toByte(v float64) uint8 {
	return uint8(math.Min(255, math.Max(0, v+0.5)))
}
