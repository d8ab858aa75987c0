package images

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

// ExtractPatch crops a square of side size centred on (cx, cy) in src
// coordinates. The square is clamped to the image bounds and is at least
// 1x1. The returned rectangle is in src coordinates.
func ExtractPatch(src image.Image, cx, cy, size int) (*image.NRGBA, image.Rectangle, error) {
	if src == nil {
		return nil, image.Rectangle{}, errors.New("nil image")
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, image.Rectangle{}, errors.New("empty image")
	}
	if size < 1 {
		size = 1
	}
	half := size / 2
	x0 := min(max(cx-half, b.Min.X), b.Max.X-1)
	y0 := min(max(cy-half, b.Min.Y), b.Max.Y-1)
	w := min(size, b.Max.X-x0)
	h := min(size, b.Max.Y-y0)
	r := image.Rect(x0, y0, x0+max(w, 1), y0+max(h, 1))
	return imaging.Crop(src, r), r, nil
}

// Loupe returns a magnified patch around (cx, cy): a size x size crop scaled
// up by zoom with nearest-neighbour so individual pixels stay visible.
func Loupe(src image.Image, cx, cy, size, zoom int) (*image.NRGBA, error) {
	patch, _, err := ExtractPatch(src, cx, cy, size)
	if err != nil {
		return nil, err
	}
	if zoom <= 1 {
		return patch, nil
	}
	pb := patch.Bounds()
	return imaging.Resize(patch, pb.Dx()*zoom, pb.Dy()*zoom, imaging.NearestNeighbor), nil
}
