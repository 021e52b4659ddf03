package images

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

// ROI returns the square of side size centered at (cx, cy), shifted to stay
// inside bounds and shrunk only when bounds are smaller than size.
func ROI(bounds image.Rectangle, cx, cy, size int) image.Rectangle {
	if size < 1 {
		size = 1
	}
	w, h := min(size, bounds.Dx()), min(size, bounds.Dy())
	x0 := min(max(cx-size/2, bounds.Min.X), bounds.Max.X-w)
	y0 := min(max(cy-size/2, bounds.Min.Y), bounds.Max.Y-h)
	return image.Rect(x0, y0, x0+max(w, 1), y0+max(h, 1))
}

// Loupe magnifies the size x size neighborhood of (cx, cy) in src by zoom
// using nearest-neighbour sampling so individual pixels stay visible. It also
// returns the source rectangle that was magnified.
func Loupe(src image.Image, cx, cy, size, zoom int) (*image.NRGBA, image.Rectangle, error) {
	if src == nil {
		return nil, image.Rectangle{}, errors.New("nil image")
	}
	if zoom < 1 {
		zoom = 1
	}
	roi := ROI(src.Bounds(), cx, cy, size)
	crop := imaging.Crop(src, roi)
	return imaging.Resize(crop, roi.Dx()*zoom, roi.Dy()*zoom, imaging.NearestNeighbor), roi, nil
}
